package providers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// endpointLabel prefers the matched route pattern so that record ids do not
// explode label cardinality. Preflights end before routing and everything
// else unmatched is served by the static responder.
func endpointLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			return pattern
		}
		if r.Method == http.MethodOptions {
			return "preflight"
		}
		return "static"
	}
	return r.URL.Path
}

func MetricsMiddleware(metrics MetricsProviderInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			endpoint := endpointLabel(r)
			metrics.IncRequestsTotal(endpoint, sw.status)
			metrics.ObserveRequestDuration(endpoint, duration)
		})
	}
}

// RequestLogger writes one line per request to the read or write log stream.
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Infof(GetLogTypeByRequestType(r.Method), "%s %s %d %s", r.Method, r.URL.Path, sw.status, time.Since(start))
		})
	}
}
