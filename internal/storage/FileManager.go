package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"babylog/internal/models"
	"babylog/internal/providers"
	"babylog/internal/storage/interfaces"
	"babylog/internal/structures"
)

// FileManager reads and writes the snapshot file. Writes go to a sibling
// temp file that is synced and renamed over the target, so the file on disk
// is always either the previous or the next complete snapshot.
type FileManager struct {
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileManager {
	return &FileManager{
		path:       conf.Persistence.FilePath,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileManager) Path() string {
	return f.path
}

func (f *FileManager) SaveToFile(snapshot *models.Snapshot) error {
	start := time.Now()
	defer func() {
		f.metrics.ObservePersistenceDuration(time.Since(start))
	}()

	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, f.path); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}

// LoadFromFile returns the stored snapshot as found on disk, without any
// migration applied. A missing file yields a fresh seeded snapshot and
// exists == false.
func (f *FileManager) LoadFromFile() (snapshot *models.Snapshot, exists bool, err error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewSnapshot(), false, nil
		}
		return nil, false, err
	}

	if IsZstd(data) {
		f.logger.Debugf(providers.TypeApp, "Snapshot %s is zstd compressed", f.path)
	}
	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, true, fmt.Errorf("decompress %s: %w", f.path, err)
	}

	snapshot = &models.Snapshot{}
	if err = json.Unmarshal(decompressedData, snapshot); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return snapshot, true, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
