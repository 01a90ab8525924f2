package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// Product is a catalog listing. StockQuantity is maintained by the
// stock ledger and must never be written directly by callers.
type Product struct {
	ID                   uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name                 string             `gorm:"column:name;not null" json:"name"`
	Price                decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	CategoryID           *uuid.UUID         `gorm:"column:category_id;type:uuid" json:"categoryId,omitempty"`
	Category             *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Size                 *enums.ProductSize `gorm:"column:size;type:text" json:"size,omitempty"`
	Description          *string            `gorm:"column:description" json:"description,omitempty"`
	HasCustomization     bool               `gorm:"column:has_customization;not null;default:false" json:"hasCustomization"`
	CustomizationDetails *string            `gorm:"column:customization_details" json:"customizationDetails,omitempty"`
	HasVersions          bool               `gorm:"column:has_versions;not null;default:false" json:"hasVersions"`
	PriceFan             *decimal.Decimal   `gorm:"column:price_fan;type:numeric(12,2)" json:"priceFan,omitempty"`
	PricePlayer          *decimal.Decimal   `gorm:"column:price_player;type:numeric(12,2)" json:"pricePlayer,omitempty"`
	StockQuantity        int                `gorm:"column:stock_quantity;not null;default:0" json:"stockQuantity"`
	// No gorm default here: a default on a bool makes Create drop the
	// zero value, so rows inserted as hidden would come back active.
	IsActive  bool           `gorm:"column:is_active;not null" json:"isActive"`
	Images    []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PriceFor resolves the unit price for a requested variant. Versioned
// products price fan and player editions independently.
func (p *Product) PriceFor(version *string) decimal.Decimal {
	if p.HasVersions && version != nil {
		switch enums.ProductVersion(*version) {
		case enums.ProductVersionFan:
			if p.PriceFan != nil {
				return *p.PriceFan
			}
		case enums.ProductVersionPlayer:
			if p.PricePlayer != nil {
				return *p.PricePlayer
			}
		}
	}
	return p.Price
}
