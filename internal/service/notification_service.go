package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/repository"
)

// ErrNotificationNotFound indicates the notification does not exist or is already deleted.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService exposes notification use-cases.
type NotificationService interface {
	Publish(ctx context.Context, viewer Viewer, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
	Delete(ctx context.Context, id uint, viewer Viewer) error
}

type notificationService struct {
	repo      repository.NotificationRepository
	recorder  LogRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo repository.NotificationRepository, recorder LogRecorder, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *notificationService) Publish(ctx context.Context, viewer Viewer, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if message == "" {
		return dto.NotificationResponse{}, errors.New("notification message empty after sanitization")
	}

	notification := models.Notification{
		UserID:  payload.UserID,
		Type:    payload.Type,
		Message: message,
		Status:  models.StatusActive,
	}

	if err := s.repo.Create(ctx, &notification); err != nil {
		return dto.NotificationResponse{}, err
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventNotificationCreation,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data: map[string]interface{}{
			models.RefNotification: notification.ID,
			models.RefUser:         notification.UserID,
		},
	})

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) Delete(ctx context.Context, id uint, viewer Viewer) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNotificationNotFound
		}
		return err
	}

	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotificationNotFound
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventNotificationDeletion,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefNotification: id},
	})

	return nil
}
