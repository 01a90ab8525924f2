package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sokastore/sokastore-backend/api/responses"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit rejects requests once the caller's IP exhausts the fixed
// window. A limiter outage fails open so Redis downtime never takes
// authentication with it.
func RateLimit(limiter windowLimiter, scope string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			allowed, _, err := limiter.FixedWindowAllow(r.Context(), scope+":"+clientIP(r), limit, window)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.Error(w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop of the proxy chain is the client.
		if comma := strings.IndexByte(fwd, ','); comma >= 0 {
			fwd = fwd[:comma]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
