package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// Repository persists products and product images.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists the provided product.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product with its images and category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads products by primary key with their images.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns a filtered product page plus the total row count.
func (r *Repository) List(ctx context.Context, filter ProductFilter, page pagination.Params) ([]models.Product, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if !filter.IncludeHidden {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Category").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SoftDelete hides the product from the storefront without losing the
// row history referenced by orders and the stock ledger.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Related returns active products sharing the category, excluding the
// product itself.
func (r *Repository) Related(ctx context.Context, categoryID uuid.UUID, excludeID uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("category_id = ? AND id <> ? AND is_active = ?", categoryID, excludeID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddImage inserts a product image row.
func (r *Repository) AddImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// ListImages returns image rows for a product ordered by position.
func (r *Repository) ListImages(ctx context.Context, productID uuid.UUID) ([]models.ProductImage, error) {
	var rows []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindImage loads one image row including its bytes.
func (r *Repository) FindImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.WithContext(ctx).Where("id = ?", imageID).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImages removes the given images scoped to the product.
func (r *Repository) DeleteImages(ctx context.Context, productID uuid.UUID, imageIDs []uuid.UUID) error {
	if len(imageIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("product_id = ? AND id IN ?", productID, imageIDs).
		Delete(&models.ProductImage{}).Error
}

// ResetPrimary clears the primary flag on every image of the product.
func (r *Repository) ResetPrimary(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Update("is_primary", false).Error
}

// MarkPrimary flags a single image as primary.
func (r *Repository) MarkPrimary(ctx context.Context, imageID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("id = ?", imageID).
		Update("is_primary", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PrimaryImage returns the primary image, falling back to the first by
// position, or gorm.ErrRecordNotFound when the product has none.
func (r *Repository) PrimaryImage(ctx context.Context, productID uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("is_primary DESC, position ASC").
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// CountImages returns the number of image rows for the product.
func (r *Repository) CountImages(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
