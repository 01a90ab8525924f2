package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is a full point-in-time snapshot of a purchased line.
// It stays readable even after the product is edited or removed.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	ProductName      string          `gorm:"column:product_name;not null" json:"productName"`
	ProductImage     *string         `gorm:"column:product_image" json:"productImage,omitempty"`
	Quantity         int             `gorm:"column:quantity;not null" json:"quantity"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	Size             *string         `gorm:"column:size;type:text" json:"size,omitempty"`
	Type             *string         `gorm:"column:type;type:text" json:"type,omitempty"`
	Customization    *string         `gorm:"column:customization" json:"customization,omitempty"`
	CustomizationFee decimal.Decimal `gorm:"column:customization_fee;type:numeric(12,2);not null;default:0" json:"customizationFee"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
