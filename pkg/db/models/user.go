package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/enums"
)

// User is a storefront account. PasswordHash never leaves the API.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Email        string         `gorm:"column:email;not null;uniqueIndex:uq_users_email" json:"email"`
	Phone        string         `gorm:"column:phone;not null;uniqueIndex:uq_users_phone" json:"phone"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'" json:"role"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
