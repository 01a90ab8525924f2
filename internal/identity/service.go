package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/auth"
	"github.com/sokastore/sokastore-backend/pkg/auth/session"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/db"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
	"github.com/sokastore/sokastore-backend/pkg/security"
)

const minPasswordLength = 8

type sessionManager interface {
	Open(ctx context.Context, accessID, userID string) error
	Revoke(ctx context.Context, accessID string) error
}

// Service exposes account and authentication operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, accessID string) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, page pagination.Params) ([]models.User, pagination.Meta, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
}

type service struct {
	users    UserRepository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
}

// NewService builds an identity service.
func NewService(users UserRepository, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
	}, nil
}

// Register creates a customer account. Emails are stored lowercased so
// logins are case-insensitive.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)

	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		if db.IsUniqueViolation(err, "uq_users_phone") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

// Login verifies credentials, mints an access token, and opens the
// matching session. Unknown emails and wrong passwords read the same to
// the caller.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Open(ctx, accessID, user.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Logout revokes the session behind the access ID. The token itself
// stays cryptographically valid until expiry but no longer
// authenticates.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// GetUser loads one account.
func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// ListUsers pages through accounts.
func (s *service) ListUsers(ctx context.Context, page pagination.Params) ([]models.User, pagination.Meta, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return rows, pagination.MetaFor(page, total), nil
}

// UpdateProfile edits the caller's own account fields.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	values := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		values["name"] = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty")
		}
		values["phone"] = phone
	}
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	if err := s.users.Updates(ctx, userID, values); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		if db.IsUniqueViolation(err, "uq_users_phone") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return s.GetUser(ctx, userID)
}
