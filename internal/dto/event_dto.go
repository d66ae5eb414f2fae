package dto

import (
	"time"

	"github.com/aula-labs/aula-api/internal/models"
)

// EventCreateRequest captures payloads for creating calendar events.
type EventCreateRequest struct {
	UnitID   *uint     `json:"unit_id" validate:"omitempty,gt=0"`
	Title    string    `json:"title" validate:"required,min=2"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	GuestIDs []uint    `json:"guest_ids" validate:"omitempty,dive,gt=0"`
}

// EventResponse serializes event data.
type EventResponse struct {
	ID        uint      `json:"id"`
	UnitID    *uint     `json:"unit_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEventResponse converts an event model into a DTO.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:        event.ID,
		UnitID:    event.UnitID,
		Title:     event.Title,
		StartsAt:  event.StartsAt,
		Status:    event.Status,
		CreatedAt: event.CreatedAt,
	}
}
