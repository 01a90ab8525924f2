package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// UserRepository exposes persistence operations for accounts.
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository

	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page pagination.Params) ([]models.User, int64, error)
	Updates(ctx context.Context, userID uuid.UUID, values map[string]any) error
}
