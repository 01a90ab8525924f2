package identity

import "github.com/sokastore/sokastore-backend/pkg/db/models"

// RegisterInput carries a validated signup payload.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is a successful login: a signed access token plus the
// account it belongs to.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateProfileInput mutates the editable account fields.
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}
