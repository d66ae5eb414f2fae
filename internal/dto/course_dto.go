package dto

import (
	"time"

	"github.com/aula-labs/aula-api/internal/models"
)

// CourseCreateRequest captures payloads for creating courses and intakes.
type CourseCreateRequest struct {
	Name string `json:"name" validate:"required,min=2"`
	Code string `json:"code" validate:"required,min=2,max=64"`
	Kind string `json:"kind" validate:"omitempty,oneof=course intake"`
}

// CourseResponse serializes course data.
type CourseResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCourseResponse converts a course model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:        course.ID,
		Name:      course.Name,
		Code:      course.Code,
		Kind:      course.Kind,
		Status:    course.Status,
		CreatedAt: course.CreatedAt,
		UpdatedAt: course.UpdatedAt,
	}
}

// UnitCreateRequest captures payloads for creating units.
type UnitCreateRequest struct {
	CourseID uint   `json:"course_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,min=2"`
	Code     string `json:"code" validate:"omitempty,max=64"`
	Kind     string `json:"kind" validate:"omitempty,oneof=lesson draft"`
}

// UnitResponse serializes unit data.
type UnitResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUnitResponse converts a unit model into a DTO.
func NewUnitResponse(unit models.Unit) UnitResponse {
	return UnitResponse{
		ID:        unit.ID,
		CourseID:  unit.CourseID,
		Name:      unit.Name,
		Code:      unit.Code,
		Kind:      unit.Kind,
		Status:    unit.Status,
		CreatedAt: unit.CreatedAt,
		UpdatedAt: unit.UpdatedAt,
	}
}
