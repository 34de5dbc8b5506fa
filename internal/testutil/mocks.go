package testutil

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"babylog/internal/models"
	"babylog/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu     sync.Mutex
	Logs   []LogEntry
	closed bool
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *MockLogger) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockPersister implements services.SnapshotPersister in memory. Saved
// snapshots are stored as encoded JSON so later mutations cannot leak in.
type MockPersister struct {
	mu      sync.Mutex
	Data    []byte
	Saves   int
	LoadErr error
	SaveErr error
}

// NewMockPersister returns a persister whose file holds the given JSON, or
// no file at all when doc is empty.
func NewMockPersister(doc string) *MockPersister {
	m := &MockPersister{}
	if doc != "" {
		m.Data = []byte(doc)
	}
	return m
}

func (m *MockPersister) LoadFromFile() (*models.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	if m.Data == nil {
		return models.NewSnapshot(), false, nil
	}
	s := &models.Snapshot{}
	if err := json.Unmarshal(m.Data, s); err != nil {
		return nil, true, err
	}
	return s, true, nil
}

func (m *MockPersister) SaveToFile(s *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.Data = data
	m.Saves++
	return nil
}

func (m *MockPersister) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveErr = err
}

func (m *MockPersister) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

// Stored decodes the last saved snapshot.
func (m *MockPersister) Stored() *models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.Snapshot{}
	if m.Data != nil {
		_ = json.Unmarshal(m.Data, s)
	}
	return s
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        map[string]int
	CacheMisses      map[string]int
	PersistenceCalls int
	RecordsTotal     map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CacheHits == nil {
		m.CacheHits = make(map[string]int)
	}
	m.CacheHits[kind]++
}
func (m *MockMetrics) IncCacheMisses(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CacheMisses == nil {
		m.CacheMisses = make(map[string]int)
	}
	m.CacheMisses[kind]++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}
func (m *MockMetrics) SetRecordsTotal(collection string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordsTotal == nil {
		m.RecordsTotal = make(map[string]int)
	}
	m.RecordsTotal[collection] = count
}

func (m *MockMetrics) Records(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RecordsTotal[collection]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}
