package models

import "time"

// Course kinds. Intakes are scheduled runs of a course; they share the course
// table and delete/undo machinery but are logged under their own events.
const (
	CourseKindCourse = "course"
	CourseKindIntake = "intake"
)

// Unit kinds. Draft units start in DRAFT instead of ACTIVE.
const (
	UnitKindLesson = "lesson"
	UnitKindDraft  = "draft"
)

// Course is the top of the cascade web: deleting one sweeps its units and
// their session/event rows into COURSEDELETED.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:64;not null" json:"code"`
	Kind      string    `gorm:"size:32;not null;default:course" json:"kind"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit is a teaching unit inside a course.
type Unit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:64" json:"code"`
	Kind      string    `gorm:"size:32;not null;default:lesson" json:"kind"`
	Status    string    `gorm:"size:32;not null;default:ACTIVE;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
