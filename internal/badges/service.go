package badges

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// BadgeRepository exposes persistence operations for badges.
type BadgeRepository interface {
	Create(ctx context.Context, badge *models.Badge) (*models.Badge, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Badge, error)
	List(ctx context.Context) ([]models.Badge, error)
	Save(ctx context.Context, badge *models.Badge) (*models.Badge, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateBadgeInput carries a validated create payload.
type CreateBadgeInput struct {
	Name        string
	Icon        *string
	Description *string
}

// UpdateBadgeInput mutates badge fields; nil leaves a field unchanged.
type UpdateBadgeInput struct {
	Name        *string
	Icon        *string
	Description *string
}

// Service exposes badge CRUD. Badges are a small fixed set so listing
// is unpaged.
type Service interface {
	CreateBadge(ctx context.Context, input CreateBadgeInput) (*models.Badge, error)
	GetBadge(ctx context.Context, id uuid.UUID) (*models.Badge, error)
	ListBadges(ctx context.Context) ([]models.Badge, error)
	UpdateBadge(ctx context.Context, id uuid.UUID, input UpdateBadgeInput) (*models.Badge, error)
	DeleteBadge(ctx context.Context, id uuid.UUID) error
}

type service struct {
	badges BadgeRepository
}

// NewService builds a badge service.
func NewService(badges BadgeRepository) (Service, error) {
	if badges == nil {
		return nil, fmt.Errorf("badge repository required")
	}
	return &service{badges: badges}, nil
}

// CreateBadge inserts a badge with a unique name.
func (s *service) CreateBadge(ctx context.Context, input CreateBadgeInput) (*models.Badge, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "badge name is required")
	}

	badge, err := s.badges.Create(ctx, &models.Badge{
		Name:        name,
		Icon:        input.Icon,
		Description: input.Description,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_badges_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "badge name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create badge")
	}
	return badge, nil
}

// GetBadge loads one badge.
func (s *service) GetBadge(ctx context.Context, id uuid.UUID) (*models.Badge, error) {
	badge, err := s.badges.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "badge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load badge")
	}
	return badge, nil
}

// ListBadges returns every badge ordered by name.
func (s *service) ListBadges(ctx context.Context) ([]models.Badge, error) {
	badges, err := s.badges.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list badges")
	}
	return badges, nil
}

// UpdateBadge edits badge fields.
func (s *service) UpdateBadge(ctx context.Context, id uuid.UUID, input UpdateBadgeInput) (*models.Badge, error) {
	badge, err := s.GetBadge(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "badge name cannot be empty")
		}
		badge.Name = name
	}
	if input.Icon != nil {
		badge.Icon = input.Icon
	}
	if input.Description != nil {
		badge.Description = input.Description
	}

	updated, err := s.badges.Save(ctx, badge)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_badges_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "badge name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update badge")
	}
	return updated, nil
}

// DeleteBadge removes a badge.
func (s *service) DeleteBadge(ctx context.Context, id uuid.UUID) error {
	if err := s.badges.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "badge not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete badge")
	}
	return nil
}
