package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sokastore/sokastore-backend/pkg/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging emits one structured line per request with method, path,
// status, and latency, carrying the request ID seeded upstream.
func Logging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			ctx := log.WithRequestID(r.Context(), RequestIDFrom(r.Context()))
			ctx = log.WithFields(ctx, map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			next.ServeHTTP(sw, r.WithContext(ctx))

			ctx = log.WithFields(ctx, map[string]any{
				"status":      sw.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			log.Info(ctx, fmt.Sprintf("%s %s -> %d", r.Method, r.URL.Path, sw.status))
		})
	}
}
