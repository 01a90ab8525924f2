package badges

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
)

// Repository persists badges.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a badge repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new badge.
func (r *Repository) Create(ctx context.Context, badge *models.Badge) (*models.Badge, error) {
	if err := r.db.WithContext(ctx).Create(badge).Error; err != nil {
		return nil, err
	}
	return badge, nil
}

// FindByID loads a badge by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// List returns every badge ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Badge, error) {
	var rows []models.Badge
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists the provided badge.
func (r *Repository) Save(ctx context.Context, badge *models.Badge) (*models.Badge, error) {
	if err := r.db.WithContext(ctx).Save(badge).Error; err != nil {
		return nil, err
	}
	return badge, nil
}

// Delete removes a badge. Missing rows report gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Badge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
