package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// Cart is a user's shopping session. A partial unique index in the
// migration guarantees at most one active cart per user; TotalAmount is
// recomputed from items on every read and never trusted from clients.
type Cart struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Status      enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'" json:"status"`
	TotalAmount decimal.Decimal  `gorm:"column:total_amount;type:numeric(12,2);not null;default:0" json:"totalAmount"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
