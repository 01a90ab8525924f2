package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUserID
	ctxKeyRole
	ctxKeyAccessID
)

// WithUser seeds the authenticated identity onto the context.
func WithUser(ctx context.Context, userID uuid.UUID, role enums.UserRole) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	return context.WithValue(ctx, ctxKeyRole, role)
}

// WithAccessID seeds the token's jti onto the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	return context.WithValue(ctx, ctxKeyAccessID, accessID)
}

// RequestIDFrom returns the request ID seeded by the RequestID
// middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// UserIDFrom returns the authenticated user's ID.
func UserIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(uuid.UUID)
	return id, ok
}

// RoleFrom returns the authenticated user's role.
func RoleFrom(ctx context.Context) (enums.UserRole, bool) {
	role, ok := ctx.Value(ctxKeyRole).(enums.UserRole)
	return role, ok
}

// AccessIDFrom returns the token's jti, used to revoke the session on
// logout.
func AccessIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyAccessID).(string)
	return id, ok
}
