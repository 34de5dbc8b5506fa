package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babylog/internal/structures"
)

func useTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGath := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGath
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/api/{collection}", 200)
	m.ObserveRequestDuration("/api/{collection}", time.Millisecond)
	m.IncCacheHits("list:feedings")
	m.IncCacheMisses("export")
	m.ObservePersistenceDuration(time.Millisecond)
	m.SetRecordsTotal("feedings", 10)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_RecordsValues(t *testing.T) {
	reg := useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)

	m.IncRequestsTotal("/api/{collection}", 200)
	m.IncRequestsTotal("/api/{collection}", 201)
	m.IncRequestsTotal("/api/{collection}", 404)
	m.ObserveRequestDuration("/api/{collection}", 5*time.Millisecond)
	m.IncCacheHits("list:feedings")
	m.IncCacheMisses("export")
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.SetRecordsTotal("feedings", 42)

	mp := m.(*MetricsProvider)

	var requests, records, hits, misses dto.Metric
	require.NoError(t, mp.requestsTotal.WithLabelValues("/api/{collection}", "2xx").Write(&requests))
	assert.Equal(t, float64(2), requests.GetCounter().GetValue())

	require.NoError(t, mp.recordsTotal.WithLabelValues("feedings").Write(&records))
	assert.Equal(t, float64(42), records.GetGauge().GetValue())

	require.NoError(t, mp.cacheHits.WithLabelValues("list:feedings").Write(&hits))
	assert.Equal(t, float64(1), hits.GetCounter().GetValue())

	require.NoError(t, mp.cacheMisses.WithLabelValues("export").Write(&misses))
	assert.Equal(t, float64(1), misses.GetCounter().GetValue())

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "babylog_persistence_duration_seconds")
	assert.Contains(t, names, "babylog_requests_total")
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
