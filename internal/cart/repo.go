package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// Repository persists carts and cart items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.Status == "" {
		cart.Status = enums.CartStatusActive
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// FindActiveByUser loads the user's active cart.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindByID loads a cart by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateStatus updates the status of a cart.
func (r *Repository) UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}

// UpdateTotal stores the recomputed cart total.
func (r *Repository) UpdateTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total_amount", total).Error
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// FindItemByID loads a cart line by primary key.
func (r *Repository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindLine loads the merged line matching the variant identity.
func (r *Repository) FindLine(ctx context.Context, cartID, productID uuid.UUID, lineHash string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND customization_hash = ?", cartID, productID, lineHash).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// IncrementLine bumps the quantity of an existing merged line in a
// single statement, returning the number of rows touched.
func (r *Repository) IncrementLine(ctx context.Context, cartID, productID uuid.UUID, lineHash string, delta int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND customization_hash = ?", cartID, productID, lineHash).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}

// SetItemQuantity overwrites the quantity of a line.
func (r *Repository) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem removes a single cart line.
func (r *Repository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&models.CartItem{}).Error
}

// DeleteItems removes all lines belonging to a cart.
func (r *Repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}

// ListItems returns the cart's lines ordered by insertion.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
