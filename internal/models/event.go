package models

import "time"

// Event is a calendar entry, optionally tied to a unit. Unit and course
// deletions sweep events along via UNITDELETED / COURSEDELETED.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UnitID    *uint     `gorm:"index" json:"unit_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserEvent links an invited user to an event. Rows move to EVENTDELETED when
// their event is deleted directly.
type UserEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionUser records a user's attendance row for a unit session.
type SessionUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UnitID    uint      `gorm:"not null;index" json:"unit_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
