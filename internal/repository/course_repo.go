package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// CourseRepository persists courses and intakes.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id uint) (models.Course, error)
	// SoftDelete marks a not-yet-deleted course DELETED and reports whether a
	// row actually moved.
	SoftDelete(ctx context.Context, id uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *courseRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
