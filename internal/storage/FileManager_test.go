package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babylog/internal/models"
	"babylog/internal/structures"
	"babylog/internal/testutil"
)

func fileConfig(path string, compress bool) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{FilePath: path, Compress: compress},
	}
}

func newTestFileManager(t *testing.T, path string, compressor *testutil.MockCompressor) (*FileManager, *testutil.MockMetrics) {
	t.Helper()
	metrics := &testutil.MockMetrics{}
	return NewFileManager(fileConfig(path, false), compressor, &testutil.MockLogger{}, metrics), metrics
}

func sampleSnapshot(t *testing.T) *models.Snapshot {
	t.Helper()
	s := models.NewSnapshot()
	var rec models.Record
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"datetime":"2024-03-01T08:30:00Z","method":"formula","amountMl":120}`), &rec))
	s.Collections[models.Feedings] = []models.Record{rec}
	s.Seq[models.Feedings] = 2
	return s
}

func TestFileManager_SaveToFile_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")
	fm, metrics := newTestFileManager(t, path, &testutil.MockCompressor{})

	require.NoError(t, fm.SaveToFile(sampleSnapshot(t)))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 1, metrics.PersistenceCalls)
}

func TestFileManager_SaveToFile_WritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fm, _ := newTestFileManager(t, path, &testutil.MockCompressor{})

	require.NoError(t, fm.SaveToFile(sampleSnapshot(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "seq")
	for _, c := range models.Collections {
		assert.Contains(t, doc, string(c))
	}
	assert.JSONEq(t, `{"feedings":2,"diapers":1,"sleeps":1,"growth":1,"baby":1,"medications":1}`, string(doc["seq"]))
}

func TestFileManager_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fm, _ := newTestFileManager(t, path, &testutil.MockCompressor{})

	original := sampleSnapshot(t)
	require.NoError(t, fm.SaveToFile(original))

	loaded, exists, err := fm.LoadFromFile()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, original.Seq, loaded.Seq)
	require.Len(t, loaded.Collections[models.Feedings], 1)
	assert.JSONEq(t, "120", string(loaded.Collections[models.Feedings][0]["amountMl"]))
}

func TestFileManager_LoadFromFile_Missing(t *testing.T) {
	fm, _ := newTestFileManager(t, filepath.Join(t.TempDir(), "absent.json"), &testutil.MockCompressor{})

	s, exists, err := fm.LoadFromFile()
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, int64(1), s.Seq[models.Feedings])
}

func TestFileManager_LoadFromFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	fm, _ := newTestFileManager(t, path, &testutil.MockCompressor{})

	_, exists, err := fm.LoadFromFile()
	assert.Error(t, err)
	assert.True(t, exists)
}

func TestFileManager_SaveToFile_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seq":{}}`), 0o644))
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress failed") },
	}
	fm, _ := newTestFileManager(t, path, comp)

	assert.Error(t, fm.SaveToFile(sampleSnapshot(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"seq":{}}`, string(data))
}

func TestFileManager_SaveToFile_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	fm, _ := newTestFileManager(t, filepath.Join(blocker, "db.json"), &testutil.MockCompressor{})

	assert.Error(t, fm.SaveToFile(sampleSnapshot(t)))
}

func TestFileManager_CompressedRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json.zst")
	compressor, err := NewZstdCompressor(true)
	require.NoError(t, err)
	fm := NewFileManager(fileConfig(path, true), compressor, &testutil.MockLogger{}, &testutil.MockMetrics{})
	defer fm.Close()

	require.NoError(t, fm.SaveToFile(sampleSnapshot(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, IsZstd(data))

	loaded, exists, err := fm.LoadFromFile()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, loaded.Collections[models.Feedings], 1)
}

func TestFileManager_PlainFileLoadsWithCompressionEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seq":{"sleeps":4},"sleeps":[{"id":3,"start":"2024-03-01T20:00:00Z"}]}`), 0o644))

	compressor, err := NewZstdCompressor(true)
	require.NoError(t, err)
	fm := NewFileManager(fileConfig(path, true), compressor, &testutil.MockLogger{}, &testutil.MockMetrics{})
	defer fm.Close()

	loaded, exists, err := fm.LoadFromFile()
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int64(4), loaded.Seq[models.Sleeps])
	assert.Len(t, loaded.Collections[models.Sleeps], 1)
}
