package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// UnitRepository persists teaching units.
type UnitRepository interface {
	Create(ctx context.Context, unit *models.Unit) error
	FindByID(ctx context.Context, id uint) (models.Unit, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
	// ListIDsByCourseStatus returns the ids of a course's units currently in
	// one of the given statuses. Used to derive the cascade scope.
	ListIDsByCourseStatus(ctx context.Context, courseID uint, statuses []string) ([]uint, error)
	// MarkByCourse moves all of a course's units from the given statuses into
	// to, returning the number of affected rows.
	MarkByCourse(ctx context.Context, courseID uint, from []string, to string) (int64, error)
}

type unitRepository struct {
	db *gorm.DB
}

// NewUnitRepository constructs the unit repository.
func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) Create(ctx context.Context, unit *models.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) FindByID(ctx context.Context, id uint) (models.Unit, error) {
	var unit models.Unit
	if err := r.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return models.Unit{}, err
	}
	return unit, nil
}

func (r *unitRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *unitRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *unitRepository) ListIDsByCourseStatus(ctx context.Context, courseID uint, statuses []string) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("course_id = ? AND status IN ?", courseID, statuses).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *unitRepository) MarkByCourse(ctx context.Context, courseID uint, from []string, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Unit{}).
		Where("course_id = ? AND status IN ?", courseID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
