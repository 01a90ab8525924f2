package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// StockMovement is one append-only ledger entry. Quantity is always
// positive; Type carries the direction.
type StockMovement struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index" json:"productId"`
	Product    *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int                `gorm:"column:quantity;not null" json:"quantity"`
	Type       enums.MovementType `gorm:"column:type;type:text;not null" json:"type"`
	UnitPrice  *decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2)" json:"unitPrice,omitempty"`
	Reference  *string            `gorm:"column:reference" json:"reference,omitempty"`
	Notes      *string            `gorm:"column:notes" json:"notes,omitempty"`
	OccurredAt time.Time          `gorm:"column:occurred_at;not null" json:"occurredAt"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (s *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.OccurredAt.IsZero() {
		s.OccurredAt = time.Now().UTC()
	}
	return nil
}

// SignedQuantity folds direction into the quantity for balance sums.
func (s *StockMovement) SignedQuantity() int {
	return s.Quantity * s.Type.Sign()
}
