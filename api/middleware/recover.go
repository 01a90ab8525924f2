package middleware

import (
	"fmt"
	"net/http"

	"github.com/sokastore/sokastore-backend/api/responses"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/logger"
)

// Recover converts handler panics into 500 responses instead of
// tearing down the connection.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					log.Error(r.Context(), "request panic", err)
					responses.Error(w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
