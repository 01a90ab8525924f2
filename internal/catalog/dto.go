package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// CreateProductInput carries a validated new-product payload.
type CreateProductInput struct {
	Name                 string
	Price                decimal.Decimal
	CategoryID           *uuid.UUID
	Size                 *enums.ProductSize
	Description          *string
	HasCustomization     bool
	CustomizationDetails *string
	HasVersions          bool
	PriceFan             *decimal.Decimal
	PricePlayer          *decimal.Decimal
	Images               []ImageUpload
}

// UpdateProductInput carries partial product changes; nil fields are
// left untouched.
type UpdateProductInput struct {
	Name                 *string
	Price                *decimal.Decimal
	CategoryID           *uuid.UUID
	Size                 *enums.ProductSize
	Description          *string
	HasCustomization     *bool
	CustomizationDetails *string
	HasVersions          *bool
	PriceFan             *decimal.Decimal
	PricePlayer          *decimal.Decimal
	IsActive             *bool
}

// ImageUpload is one decoded image payload.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// CreateCategoryInput carries a validated new-category payload.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput carries partial category changes.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}
