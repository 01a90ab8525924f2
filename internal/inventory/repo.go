package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// Repository persists stock movements and maintains the product
// counter.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) StockRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateMovement appends a ledger entry.
func (r *Repository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindMovement loads one ledger entry.
func (r *Repository) FindMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	var movement models.StockMovement
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&movement).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

// UpdateMovementMeta updates the annotation fields of an entry.
func (r *Repository) UpdateMovementMeta(ctx context.Context, id uuid.UUID, reference, notes *string) error {
	values := map[string]any{}
	if reference != nil {
		values["reference"] = *reference
	}
	if notes != nil {
		values["notes"] = *notes
	}
	if len(values) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMovement removes a ledger entry.
func (r *Repository) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.StockMovement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListMovements returns a filtered ledger page, newest first, plus the
// total row count.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter, page pagination.Params) ([]models.StockMovement, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Reference != "" {
		query = query.Where("LOWER(reference) LIKE ?", "%"+strings.ToLower(filter.Reference)+"%")
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockMovement
	err := query.
		Preload("Product").
		Order("occurred_at DESC, created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByProduct returns every entry for a product in applied order.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumSigned folds the full ledger for a product into a net quantity.
func (r *Repository) SumSigned(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum *int
	err := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Select("SUM(CASE WHEN type = 'out' THEN -quantity ELSE quantity END)").
		Where("product_id = ?", productID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// FindProduct loads the product row backing a movement.
func (r *Repository) FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// IncrementStock adds to the product counter.
func (r *Repository) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStockGuarded subtracts from the counter only when enough
// stock remains, reporting the number of rows touched. Zero rows with a
// live product means insufficient stock.
func (r *Repository) DecrementStockGuarded(ctx context.Context, productID uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected, res.Error
}

// DecrementStockClamped subtracts from the counter, flooring at zero.
// Used when reversing an inbound entry whose stock has partly left.
func (r *Repository) DecrementStockClamped(ctx context.Context, productID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity",
			gorm.Expr("CASE WHEN stock_quantity >= ? THEN stock_quantity - ? ELSE 0 END", qty, qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListLevels pages through the stock overview ordered by name.
func (r *Repository) ListLevels(ctx context.Context, page pagination.Params) ([]StockLevel, int64, error) {
	page = pagination.Normalize(page)

	query := r.db.WithContext(ctx).Model(&models.Product{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []StockLevel
	err := query.
		Select("id AS product_id, name AS product_name, stock_quantity, is_active").
		Order("name ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
