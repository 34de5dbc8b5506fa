package internal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babylog/internal/controllers"
	"babylog/internal/services"
	"babylog/internal/storage"
	"babylog/internal/structures"
	"babylog/internal/testutil"
)

func TestApp_RunReleasesResourcesOnServerError(t *testing.T) {
	conf := testConfig(t)
	conf.WebServer = structures.Server{Host: "127.0.0.1", Port: -1}
	conf.Persistence.FilePath = filepath.Join(t.TempDir(), "data", "db.json")

	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	fileManager := storage.NewFileManager(conf, &testutil.MockCompressor{}, logger, metrics)
	service := services.NewRecordService(fileManager, storage.Migrate, logger, metrics)
	router := InitRoutes(
		controllers.NewApiController(conf, logger, service, testutil.NewMockCache()),
		controllers.NewHealthController(service),
		controllers.NewStaticController(conf, logger),
	)

	app, err := NewApp(conf, logger, router, metrics, service, fileManager)
	require.NoError(t, err)
	assert.FileExists(t, conf.Persistence.FilePath)

	err = app.Run()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
	assert.True(t, logger.IsClosed())
}
