package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Badge is a named achievement or product flair shown on listings.
type Badge struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:uq_badges_name" json:"name"`
	Icon        *string   `gorm:"column:icon" json:"icon,omitempty"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
