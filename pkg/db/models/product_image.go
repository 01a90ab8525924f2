package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductImage stores image bytes in the row. Data is excluded from
// JSON; clients fetch it through the image endpoint.
type ProductImage struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null;index" json:"productId"`
	URL         string    `gorm:"column:url;not null" json:"url"`
	Data        []byte    `gorm:"column:data" json:"-"`
	ContentType string    `gorm:"column:content_type;not null;default:'image/jpeg'" json:"contentType"`
	IsPrimary   bool      `gorm:"column:is_primary;not null;default:false" json:"isPrimary"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
