package dto

import (
	"time"

	"github.com/aula-labs/aula-api/internal/models"
)

// DiscussionCreateRequest captures payloads for opening a discussion.
type DiscussionCreateRequest struct {
	UnitID  *uint  `json:"unit_id" validate:"omitempty,gt=0"`
	Title   string `json:"title" validate:"required,min=2"`
	Content string `json:"content" validate:"required,min=1"`
}

// DiscussionResponse serializes discussion data.
type DiscussionResponse struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	UnitID    *uint     `json:"unit_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDiscussionResponse converts a discussion model into a DTO.
func NewDiscussionResponse(discussion models.Discussion) DiscussionResponse {
	return DiscussionResponse{
		ID:        discussion.ID,
		AuthorID:  discussion.AuthorID,
		UnitID:    discussion.UnitID,
		Title:     discussion.Title,
		Content:   discussion.Content,
		Status:    discussion.Status,
		CreatedAt: discussion.CreatedAt,
	}
}

// NotificationCreateRequest captures payloads for sending a notification.
type NotificationCreateRequest struct {
	UserID  uint   `json:"user_id" validate:"required,gt=0"`
	Type    string `json:"type" validate:"required,min=2"`
	Message string `json:"message" validate:"required,min=1"`
}

// NotificationResponse serializes notification data.
type NotificationResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model into a DTO.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      notification.Type,
		Message:   notification.Message,
		Read:      notification.Read,
		Status:    notification.Status,
		CreatedAt: notification.CreatedAt,
	}
}
