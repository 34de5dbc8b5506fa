//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"babylog/internal"
	"babylog/internal/controllers"
	"babylog/internal/providers"
	"babylog/internal/services"
	"babylog/internal/storage"
	"babylog/internal/structures"
)

var storeSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	storage.NewCompressor,
	storage.NewFileManager,
	provideMigrator,
	services.NewRecordService,
	wire.Bind(new(services.SnapshotPersister), new(*storage.FileManager)),
	wire.Bind(new(services.RecordServiceInterface), new(*services.RecordService)),
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		storeSet,
		providers.NewInstrumentedCacheProvider,

		controllers.NewApiController,
		controllers.NewHealthController,
		controllers.NewStaticController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitRecordService(cfg *structures.CliFlags) (services.RecordServiceInterface, error) {

	wire.Build(storeSet)

	return nil, nil
}
