package dto

import (
	"time"

	"github.com/aula-labs/aula-api/internal/models"
)

// LogListRequest defines filters for retrieving log entries.
type LogListRequest struct {
	Page       int
	RowPerPage int
	Event      string
	Type       string
	Actor      uint
	Course     uint
	Group      uint
	From       *time.Time
	To         *time.Time
	Ascending  bool
}

// LogEntryResponse serializes one rendered log entry. Description is empty
// for events without a registered template; Action carries "UNDO" only on
// DELETE-type entries.
type LogEntryResponse struct {
	ID          uint                   `json:"id"`
	Event       string                 `json:"event"`
	Type        string                 `json:"type"`
	ActorID     *uint                  `json:"actor_id"`
	Data        map[string]interface{} `json:"data"`
	UnDelete    bool                   `json:"un_delete"`
	Description string                 `json:"description,omitempty"`
	Action      []string               `json:"action,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// LogCleanResponse reports the outcome of a bulk log purge.
type LogCleanResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// NewLogEntryResponse converts a model into the base DTO, before rendering.
func NewLogEntryResponse(entry models.LogEntry) LogEntryResponse {
	data := map[string]interface{}{}
	if entry.Data != nil {
		data = map[string]interface{}(entry.Data)
	}
	return LogEntryResponse{
		ID:        entry.ID,
		Event:     entry.Event,
		Type:      entry.Type,
		ActorID:   entry.ActorID,
		Data:      data,
		UnDelete:  entry.UnDelete,
		CreatedAt: entry.CreatedAt,
	}
}
