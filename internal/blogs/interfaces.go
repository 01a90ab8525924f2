package blogs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// BlogRepository exposes persistence operations for articles.
type BlogRepository interface {
	WithTx(tx *gorm.DB) BlogRepository

	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Save(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	FindBySlug(ctx context.Context, slug string) (*models.Blog, error)
	List(ctx context.Context, filter BlogFilter, page pagination.Params) ([]models.Blog, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// BlogFilter narrows article listings. Tag matches any article carrying
// the tag.
type BlogFilter struct {
	IncludeHidden bool
	Tag           string
	Search        string
}
