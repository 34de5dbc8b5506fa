package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_ReturnsOK(t *testing.T) {
	f := newFixture(false)
	hc := NewHealthController(f.service)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "uptime")
	assert.Contains(t, resp, "uptime_seconds")
	assert.Equal(t, float64(f.service.Revision()), resp["revision"])
}

func TestHealth_RevisionAdvancesOnWrite(t *testing.T) {
	f := newFixture(false)
	hc := NewHealthController(f.service)
	before := f.service.Revision()

	require.Equal(t, http.StatusCreated, call(f.ac.Insert, http.MethodPost, "/api/feedings", feedingBody, coll("feedings")).Code)

	rr := httptest.NewRecorder()
	hc.Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, before+1, resp.Revision)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0h0m0s"},
		{59 * time.Second, "0h0m59s"},
		{61 * time.Minute, "1h1m0s"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "26h3m4s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
