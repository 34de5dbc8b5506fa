package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsMiddleware_PreflightReturns204(t *testing.T) {
	mw := NewCorsMiddleware()(dummyHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/feedings", nil)
	req.Header.Set("Origin", "http://client.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCorsMiddleware_BareOptionsReturns204(t *testing.T) {
	mw := NewCorsMiddleware()(dummyHandler())

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/anything", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestCorsMiddleware_ActualRequestAllowsAnyOrigin(t *testing.T) {
	mw := NewCorsMiddleware()(dummyHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/feedings", nil)
	req.Header.Set("Origin", "http://client.example")
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}
