package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sokastore/sokastore-backend/api/middleware"
	"github.com/sokastore/sokastore-backend/internal/identity"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

type stubIdentityService struct {
	registerFn func(ctx context.Context, input identity.RegisterInput) (*models.User, error)
	loginFn    func(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error)
	logoutFn   func(ctx context.Context, accessID string) error
	getFn      func(ctx context.Context, id uuid.UUID) (*models.User, error)
	listFn     func(ctx context.Context, page pagination.Params) ([]models.User, pagination.Meta, error)
	updateFn   func(ctx context.Context, userID uuid.UUID, input identity.UpdateProfileInput) (*models.User, error)
}

func (s stubIdentityService) Register(ctx context.Context, input identity.RegisterInput) (*models.User, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return &models.User{}, nil
}

func (s stubIdentityService) Login(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, input)
	}
	return &identity.AuthResult{}, nil
}

func (s stubIdentityService) Logout(ctx context.Context, accessID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, accessID)
	}
	return nil
}

func (s stubIdentityService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &models.User{}, nil
}

func (s stubIdentityService) ListUsers(ctx context.Context, page pagination.Params) ([]models.User, pagination.Meta, error) {
	if s.listFn != nil {
		return s.listFn(ctx, page)
	}
	return nil, pagination.Meta{}, nil
}

func (s stubIdentityService) UpdateProfile(ctx context.Context, userID uuid.UUID, input identity.UpdateProfileInput) (*models.User, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, input)
	}
	return &models.User{}, nil
}

func TestAuthRegister(t *testing.T) {
	svc := stubIdentityService{
		registerFn: func(ctx context.Context, input identity.RegisterInput) (*models.User, error) {
			if input.Email != "amina@example.com" {
				t.Fatalf("unexpected email %q", input.Email)
			}
			return &models.User{Name: input.Name, Email: input.Email, Role: enums.UserRoleCustomer}, nil
		},
	}

	body := `{"name":"Amina","email":"amina@example.com","phone":"+254700000000","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	NewAuthController(svc).Register(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthRegister_ShortPassword(t *testing.T) {
	body := `{"name":"Amina","email":"amina@example.com","phone":"+254700000000","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	NewAuthController(stubIdentityService{}).Register(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLogin(t *testing.T) {
	svc := stubIdentityService{
		loginFn: func(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error) {
			return &identity.AuthResult{Token: "signed.jwt.token", User: &models.User{Email: input.Email}}, nil
		},
	}

	body := `{"email":"amina@example.com","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	NewAuthController(svc).Login(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data identity.AuthResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "signed.jwt.token" {
		t.Fatalf("expected token in payload, got %+v", envelope.Data)
	}
}

func TestAuthLogin_BadCredentials(t *testing.T) {
	svc := stubIdentityService{
		loginFn: func(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		},
	}

	body := `{"email":"amina@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	NewAuthController(svc).Login(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogout_RevokesCallerSession(t *testing.T) {
	var revoked string
	svc := stubIdentityService{
		logoutFn: func(ctx context.Context, accessID string) error {
			revoked = accessID
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	ctx := middleware.WithUser(req.Context(), uuid.New(), enums.UserRoleCustomer)
	ctx = middleware.WithAccessID(ctx, "jti-123")
	resp := httptest.NewRecorder()
	NewAuthController(svc).Logout(resp, req.WithContext(ctx))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if revoked != "jti-123" {
		t.Fatalf("expected session jti-123 revoked, got %q", revoked)
	}
}

func TestAuthMe(t *testing.T) {
	userID := uuid.New()
	svc := stubIdentityService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			if id != userID {
				t.Fatalf("unexpected id %s", id)
			}
			return &models.User{ID: userID, Name: "Amina"}, nil
		},
	}

	resp := httptest.NewRecorder()
	NewAuthController(svc).Me(resp, authedRequest(http.MethodGet, "/me", "", userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
