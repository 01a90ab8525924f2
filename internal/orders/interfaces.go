package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

// OrderRepository exposes persistence operations for orders and their
// line snapshots.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, page pagination.Params) ([]models.Order, int64, error)
	Updates(ctx context.Context, orderID uuid.UUID, values map[string]any) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

// OrderFilter narrows admin order listings. A nil field means no
// constraint.
type OrderFilter struct {
	UserID        *uuid.UUID
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Search        string
}
