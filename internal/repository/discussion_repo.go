package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// DiscussionRepository persists discussion threads.
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	FindByID(ctx context.Context, id uint) (models.Discussion, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository constructs the discussion repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

func (r *discussionRepository) FindByID(ctx context.Context, id uint) (models.Discussion, error) {
	var discussion models.Discussion
	if err := r.db.WithContext(ctx).First(&discussion, id).Error; err != nil {
		return models.Discussion{}, err
	}
	return discussion, nil
}

func (r *discussionRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Discussion{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *discussionRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Discussion{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
