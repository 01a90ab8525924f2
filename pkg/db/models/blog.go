package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Blog is a published article. Cover image bytes live in the row and
// are excluded from JSON like product images.
type Blog struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Slug             string         `gorm:"column:slug;not null;uniqueIndex:uq_blogs_slug" json:"slug"`
	Content          string         `gorm:"column:content;not null" json:"content"`
	Excerpt          *string        `gorm:"column:excerpt" json:"excerpt,omitempty"`
	Author           string         `gorm:"column:author;not null;default:'SokaStore Admin'" json:"author"`
	ImageData        []byte         `gorm:"column:image_data" json:"-"`
	ImageContentType *string        `gorm:"column:image_content_type" json:"imageContentType,omitempty"`
	ImageURL         *string        `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Tags             pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`
	// No gorm default here: a default on a bool makes Create drop the
	// zero value, silently publishing articles created as hidden.
	IsActive  bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
