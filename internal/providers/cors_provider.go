package providers

import (
	"net/http"

	"github.com/go-chi/cors"
)

// NewCorsMiddleware allows any origin without credentials, since the client
// bundle may be served from a different host than the API. Every OPTIONS
// request ends here with an empty 204.
func NewCorsMiddleware() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		AllowCredentials:   false,
		OptionsPassthrough: true,
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
