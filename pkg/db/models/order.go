package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// Order is the immutable result of checking out a cart. Amounts are
// computed once at creation and never recalculated.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex:uq_orders_number" json:"orderNumber"`
	CustomerName    string              `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null" json:"customerPhone"`
	CustomerEmail   *string             `gorm:"column:customer_email" json:"customerEmail,omitempty"`
	DeliveryType    enums.DeliveryType  `gorm:"column:delivery_type;type:text;not null;default:'pickup'" json:"deliveryType"`
	DeliveryZone    *string             `gorm:"column:delivery_zone" json:"deliveryZone,omitempty"`
	DeliveryAddress *string             `gorm:"column:delivery_address" json:"deliveryAddress,omitempty"`
	DeliveryFee     decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0" json:"deliveryFee"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null" json:"taxAmount"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null" json:"paymentMethod"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"paymentStatus"`
	PaymentPhone    *string             `gorm:"column:payment_phone" json:"paymentPhone,omitempty"`
	TransactionID   *string             `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	OrderStatus     enums.OrderStatus   `gorm:"column:order_status;type:text;not null;default:'pending'" json:"orderStatus"`
	Notes           *string             `gorm:"column:notes" json:"notes,omitempty"`
	PaidAt          *time.Time          `gorm:"column:paid_at" json:"paidAt,omitempty"`
	ShippedAt       *time.Time          `gorm:"column:shipped_at" json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
