package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// AddItemInput carries a validated add-to-cart payload.
type AddItemInput struct {
	ProductID        uuid.UUID
	Quantity         int
	Size             *string
	Type             *string
	Customization    *string
	CustomizationFee *decimal.Decimal
}

// View is the cart as returned to clients: stored lines joined with a
// live catalog snapshot and a recomputed total.
type View struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"userId"`
	Status      enums.CartStatus `json:"status"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	Items       []ItemView       `json:"items"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ItemView is one cart line with display fields. Orphaned lines refer
// to products that have since been removed or hidden; they are kept
// visible but excluded from the total.
type ItemView struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"productId"`
	ProductName      string          `json:"productName,omitempty"`
	ProductImage     *string         `json:"productImage,omitempty"`
	Quantity         int             `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
	Size             *string         `json:"size,omitempty"`
	Type             *string         `json:"type,omitempty"`
	Customization    *string         `json:"customization,omitempty"`
	CustomizationFee decimal.Decimal `json:"customizationFee"`
	LineTotal        decimal.Decimal `json:"lineTotal"`
	Orphaned         bool            `json:"orphaned,omitempty"`
}
