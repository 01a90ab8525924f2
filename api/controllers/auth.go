package controllers

import (
	"net/http"

	"github.com/sokastore/sokastore-backend/api/middleware"
	"github.com/sokastore/sokastore-backend/api/responses"
	"github.com/sokastore/sokastore-backend/api/validators"
	"github.com/sokastore/sokastore-backend/internal/identity"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// AuthController serves registration, login, and session endpoints.
type AuthController struct {
	identity identity.Service
}

// NewAuthController wires the controller to its service.
func NewAuthController(identitySvc identity.Service) *AuthController {
	return &AuthController{identity: identitySvc}
}

type registerPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a customer account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	user, err := c.identity.Register(r.Context(), identity.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.Created(w, "account created", user)
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues an access token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	result, err := c.identity.Login(r.Context(), identity.LoginInput{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "logged in", result)
}

// Logout revokes the caller's session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	accessID, ok := middleware.AccessIDFrom(r.Context())
	if !ok {
		responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	if err := c.identity.Logout(r.Context(), accessID); err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "logged out", nil)
}

// Me returns the caller's account.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	user, err := c.identity.GetUser(r.Context(), userID)
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "", user)
}

type updateProfilePayload struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// UpdateProfile edits the caller's own account.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		responses.Error(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}

	var payload updateProfilePayload
	if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
		responses.Error(w, err)
		return
	}

	user, err := c.identity.UpdateProfile(r.Context(), userID, identity.UpdateProfileInput{
		Name:  payload.Name,
		Phone: payload.Phone,
	})
	if err != nil {
		responses.Error(w, err)
		return
	}
	responses.OK(w, "profile updated", user)
}
