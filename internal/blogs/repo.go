package blogs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// Repository persists articles.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a blog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) BlogRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new article.
func (r *Repository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return nil, err
	}
	return blog, nil
}

// Save persists the provided article.
func (r *Repository) Save(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return nil, err
	}
	return blog, nil
}

// FindByID loads an article by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// FindBySlug loads an article by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns a filtered article page, newest first, plus the total
// row count.
func (r *Repository) List(ctx context.Context, filter BlogFilter, page pagination.Params) ([]models.Blog, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if !filter.IncludeHidden {
		query = query.Where("is_active = ?", true)
	}
	if filter.Tag != "" {
		query = r.whereTag(query, filter.Tag)
	}
	if filter.Search != "" {
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)",
			"%"+filter.Search+"%", "%"+filter.Search+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Blog
	err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// whereTag matches articles carrying the tag. Postgres queries the
// array directly; other dialects store the array as its literal text
// form and fall back to substring matching.
func (r *Repository) whereTag(query *gorm.DB, tag string) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return query.Where("? = ANY(tags)", tag)
	}
	return query.Where("tags LIKE ?", "%"+tag+"%")
}

// Delete removes an article. Missing rows report gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SlugExists reports whether an article already claims the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
