package server

import (
	"net/http"
	"slices"

	"github.com/voxcheck/voxcheck/internal/config"
)

// corsMiddleware applies the configured cross-origin policy: it sets the
// Access-Control-Allow-* headers for allowed origins and short-circuits
// preflight requests. Requests from origins not on the list pass through
// without CORS headers, which browsers reject client-side.
func corsMiddleware(cfg config.CORSConfig, next http.Handler) http.Handler {
	allowAny := slices.Contains(cfg.AllowedOrigins, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origin != "" && (allowAny || slices.Contains(cfg.AllowedOrigins, origin))

		if allowed {
			h := w.Header()
			if allowAny {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
