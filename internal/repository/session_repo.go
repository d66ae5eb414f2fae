package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// SessionRepository persists per-unit attendance rows.
type SessionRepository interface {
	Create(ctx context.Context, session *models.SessionUser) error
	// MarkByUnitIDs sweeps attendance rows of the given units between
	// statuses; used by unit and course cascades.
	MarkByUnitIDs(ctx context.Context, unitIDs []uint, from []string, to string) (int64, error)
	CountByUnit(ctx context.Context, unitID uint, status string) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs the session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.SessionUser) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) MarkByUnitIDs(ctx context.Context, unitIDs []uint, from []string, to string) (int64, error) {
	if len(unitIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.SessionUser{}).
		Where("unit_id IN ? AND status IN ?", unitIDs, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *sessionRepository) CountByUnit(ctx context.Context, unitID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SessionUser{}).
		Where("unit_id = ? AND status = ?", unitID, status).
		Count(&count).Error
	return count, err
}
