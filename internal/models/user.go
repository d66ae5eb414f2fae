package models

import (
	"strings"
	"time"
)

// User represents a platform account (student, teacher or administrator).
// A permanent delete anonymizes Email and Username in place after copying the
// originals into the backup columns, so an undo can put them back.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"size:128;not null" json:"first_name"`
	LastName       string    `gorm:"size:128" json:"last_name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Role           string    `gorm:"size:32;not null;default:student" json:"role"`
	Status         string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	BackupEmail    string    `gorm:"size:255" json:"-"`
	BackupUsername string    `gorm:"size:128" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName renders the display name used in log descriptions.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
