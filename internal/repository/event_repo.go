package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// EventRepository persists calendar events and their guest rows.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (models.Event, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
	AddGuest(ctx context.Context, guest *models.UserEvent) error
	// MarkGuests moves an event's guest rows between statuses.
	MarkGuests(ctx context.Context, eventID uint, from []string, to string) (int64, error)
	// MarkByUnitIDs sweeps events of the given units between statuses; used by
	// unit and course cascades.
	MarkByUnitIDs(ctx context.Context, unitIDs []uint, from []string, to string) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs the event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (r *eventRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *eventRepository) AddGuest(ctx context.Context, guest *models.UserEvent) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

func (r *eventRepository) MarkGuests(ctx context.Context, eventID uint, from []string, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.UserEvent{}).
		Where("event_id = ? AND status IN ?", eventID, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *eventRepository) MarkByUnitIDs(ctx context.Context, unitIDs []uint, from []string, to string) (int64, error) {
	if len(unitIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("unit_id IN ? AND status IN ?", unitIDs, from).
		Update("status", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
