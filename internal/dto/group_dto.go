package dto

import (
	"time"

	"github.com/aula-labs/aula-api/internal/models"
)

// GroupCreateRequest captures payloads for creating course groups.
type GroupCreateRequest struct {
	CourseID uint   `json:"course_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,min=2"`
}

// GroupMemberRequest adds a user to a group.
type GroupMemberRequest struct {
	UserID uint `json:"user_id" validate:"required,gt=0"`
}

// GroupResponse serializes group data.
type GroupResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGroupResponse converts a group model into a DTO.
func NewGroupResponse(group models.CourseGroup) GroupResponse {
	return GroupResponse{
		ID:        group.ID,
		CourseID:  group.CourseID,
		Name:      group.Name,
		Status:    group.Status,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
}
