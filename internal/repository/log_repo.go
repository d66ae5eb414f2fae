package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// LogFilter narrows log queries.
type LogFilter struct {
	Page      int
	PageSize  int
	Event     string
	Type      string
	ActorID   *uint
	CourseID  *uint
	GroupID   *uint
	From      *time.Time
	To        *time.Time
	Ascending bool
}

// LogRepository persists the append-only audit trail.
type LogRepository interface {
	Create(ctx context.Context, entry *models.LogEntry) error
	FindByID(ctx context.Context, id uint) (models.LogEntry, error)
	List(ctx context.Context, filter LogFilter) ([]models.LogEntry, int64, error)
	// MarkUndone flips the unDelete flag false -> true. It reports whether the
	// flip happened, so a second call on the same entry is a visible no-op.
	MarkUndone(ctx context.Context, id uint) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository constructs the log repository.
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *logRepository) FindByID(ctx context.Context, id uint) (models.LogEntry, error) {
	var entry models.LogEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return models.LogEntry{}, err
	}
	return entry, nil
}

func (r *logRepository) List(ctx context.Context, filter LogFilter) ([]models.LogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LogEntry{})

	if filter.Event != "" {
		query = query.Where("event = ?", filter.Event)
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}

	if filter.CourseID != nil {
		query = query.Where(datatypes.JSONQuery("data").Equals(*filter.CourseID, models.RefCourse))
	}

	if filter.GroupID != nil {
		query = query.Where(datatypes.JSONQuery("data").Equals(*filter.GroupID, models.RefGroup))
	}

	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}

	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	order := "id DESC"
	if filter.Ascending {
		order = "id ASC"
	}

	var entries []models.LogEntry
	if err := query.Order(order).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *logRepository) MarkUndone(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.LogEntry{}).
		Where("id = ? AND un_delete = ?", id, false).
		Update("un_delete", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *logRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.LogEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
