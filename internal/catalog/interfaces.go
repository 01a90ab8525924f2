package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// ProductRepository exposes persistence operations for products and
// their images.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository

	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	List(ctx context.Context, filter ProductFilter, page pagination.Params) ([]models.Product, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Related(ctx context.Context, categoryID uuid.UUID, excludeID uuid.UUID, limit int) ([]models.Product, error)

	AddImage(ctx context.Context, image *models.ProductImage) error
	ListImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error)
	FindImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error)
	DeleteImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error
	ResetPrimary(ctx context.Context, productID uuid.UUID) error
	MarkPrimary(ctx context.Context, imageID uuid.UUID) error
	PrimaryImage(ctx context.Context, productID uuid.UUID) (*models.ProductImage, error)
	CountImages(ctx context.Context, productID uuid.UUID) (int64, error)
}

// CategoryRepository exposes persistence operations for categories.
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository

	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Save(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, page pagination.Params) ([]models.Category, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID    *uuid.UUID
	Search        string
	IncludeHidden bool
}
