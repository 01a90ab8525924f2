package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItem is one merged line in a cart. Price is snapshotted at
// add time. CustomizationHash normalizes the variant key so the unique
// line-identity index can close the concurrent-add race.
type CartItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CartID            uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:uq_cart_items_line" json:"cartId"`
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:uq_cart_items_line" json:"productId"`
	Quantity          int             `gorm:"column:quantity;not null" json:"quantity"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Size              *string         `gorm:"column:size;type:text" json:"size,omitempty"`
	Type              *string         `gorm:"column:type;type:text" json:"type,omitempty"`
	Customization     *string         `gorm:"column:customization" json:"customization,omitempty"`
	CustomizationFee  decimal.Decimal `gorm:"column:customization_fee;type:numeric(12,2);not null;default:0" json:"customizationFee"`
	CustomizationHash string          `gorm:"column:customization_hash;not null;default:'';uniqueIndex:uq_cart_items_line" json:"-"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
