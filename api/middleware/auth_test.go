package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sokastore/sokastore-backend/pkg/auth"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/enums"
)

type stubSessionChecker struct {
	live map[string]bool
	err  error
}

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.live[accessID], nil
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "sokastore", ExpirationMinutes: 60}
}

func mintToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole, jti string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuth_SeedsIdentity(t *testing.T) {
	cfg := testJWT()
	token, userID := mintToken(t, cfg, enums.UserRoleCustomer, "jti-1")

	var seenUser uuid.UUID
	var seenAccess string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = UserIDFrom(r.Context())
		seenAccess, _ = AccessIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Auth(cfg, stubSessionChecker{live: map[string]bool{"jti-1": true}})(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
	if seenUser != userID {
		t.Fatalf("expected user %s, got %s", userID, seenUser)
	}
	if seenAccess != "jti-1" {
		t.Fatalf("expected access id jti-1, got %q", seenAccess)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	handler := Auth(testJWT(), stubSessionChecker{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuth_RevokedSession(t *testing.T) {
	cfg := testJWT()
	token, _ := mintToken(t, cfg, enums.UserRoleCustomer, "jti-revoked")

	handler := Auth(cfg, stubSessionChecker{live: map[string]bool{}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session, got %d", resp.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	other := testJWT()
	other.Secret = "different-secret"
	token, _ := mintToken(t, other, enums.UserRoleCustomer, "jti-2")

	handler := Auth(testJWT(), stubSessionChecker{live: map[string]bool{"jti-2": true}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", resp.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	adminReq := httptest.NewRequest(http.MethodGet, "/", nil)
	adminReq = adminReq.WithContext(WithUser(adminReq.Context(), uuid.New(), enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(resp, adminReq)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected admin to pass, got %d", resp.Code)
	}

	customerReq := httptest.NewRequest(http.MethodGet, "/", nil)
	customerReq = customerReq.WithContext(WithUser(customerReq.Context(), uuid.New(), enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(resp, customerReq)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected customer to be rejected, got %d", resp.Code)
	}

	anonReq := httptest.NewRequest(http.MethodGet, "/", nil)
	resp = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(resp, anonReq)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected anonymous to be rejected, got %d", resp.Code)
	}
}
