package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// CartRepository exposes persistence operations for carts and cart
// items.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
	UpdateTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error

	CreateItem(ctx context.Context, item *models.CartItem) error
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	FindLine(ctx context.Context, cartID, productID uuid.UUID, lineHash string) (*models.CartItem, error)
	IncrementLine(ctx context.Context, cartID, productID uuid.UUID, lineHash string, delta int) (int64, error)
	SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
}
