package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// StockRepository exposes persistence for the movement ledger and the
// denormalized stock counter on products.
type StockRepository interface {
	WithTx(tx *gorm.DB) StockRepository

	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	FindMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error)
	UpdateMovementMeta(ctx context.Context, id uuid.UUID, reference, notes *string) error
	DeleteMovement(ctx context.Context, id uuid.UUID) error
	ListMovements(ctx context.Context, filter MovementFilter, page pagination.Params) ([]models.StockMovement, int64, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockMovement, error)
	SumSigned(ctx context.Context, productID uuid.UUID) (int, error)

	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	DecrementStockGuarded(ctx context.Context, productID uuid.UUID, qty int) (int64, error)
	DecrementStockClamped(ctx context.Context, productID uuid.UUID, qty int) error
	ListLevels(ctx context.Context, page pagination.Params) ([]StockLevel, int64, error)
}

// MovementFilter narrows ledger listings. A nil field means no
// constraint.
type MovementFilter struct {
	ProductID *uuid.UUID
	Type      *enums.MovementType
	Reference string
	From      *time.Time
	To        *time.Time
}

// StockLevel is one row of the stock overview.
type StockLevel struct {
	ProductID     uuid.UUID `json:"productId"`
	ProductName   string    `json:"productName"`
	StockQuantity int       `json:"stockQuantity"`
	IsActive      bool      `json:"isActive"`
}
