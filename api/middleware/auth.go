package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/pkg/auth"
	"github.com/sokastore/sokastore-backend/pkg/auth/session"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// Auth validates the bearer token and requires a live session for its
// jti. A logged-out token is rejected even while cryptographically
// valid.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			if claims.UserID == uuid.Nil {
				responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token subject"))
				return
			}

			live, err := sessions.HasSession(r.Context(), claims.ID)
			if err != nil {
				responses.Error(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check session"))
				return
			}
			if !live {
				responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Role)
			ctx = WithAccessID(ctx, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a subtree to admin accounts. Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFrom(r.Context())
		if !ok {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		if role != enums.UserRoleAdmin {
			responses.Error(w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
