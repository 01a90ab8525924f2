package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// CategoryRepo persists product categories.
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo constructs a category repository bound to the provided DB.
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// WithTx binds the repository to a transaction.
func (r *CategoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &CategoryRepo{db: tx}
}

// Create inserts a new category.
func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Save persists the provided category.
func (r *CategoryRepo) Save(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads a category by primary key.
func (r *CategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlug loads a category by its slug.
func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns a category page filtered by a name search.
func (r *CategoryRepo) List(ctx context.Context, search string, page pagination.Params) ([]models.Category, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Category
	err := query.
		Order("name ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes a category.
func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SlugExists reports whether a category already claims the slug.
func (r *CategoryRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
