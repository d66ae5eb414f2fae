package models

import "time"

// CourseGroup is a cohort of users within a course.
type CourseGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCourseGroup is a membership row linking a user to a group. Rows move to
// GROUPDELETED when their group is deleted so a group undo can restore the
// membership list exactly as it was.
type UserCourseGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
