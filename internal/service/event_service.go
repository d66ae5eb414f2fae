package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/repository"
)

// ErrEventNotFound indicates the event does not exist or is already deleted.
var ErrEventNotFound = errors.New("event not found")

// EventService exposes calendar event use-cases.
type EventService interface {
	Create(ctx context.Context, viewer Viewer, payload dto.EventCreateRequest) (dto.EventResponse, error)
	Delete(ctx context.Context, id uint, viewer Viewer) error
}

type eventService struct {
	repo      repository.EventRepository
	recorder  LogRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewEventService constructs the event service.
func NewEventService(repo repository.EventRepository, recorder LogRecorder, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
		tracer:    otel.Tracer("github.com/aula-labs/aula-api/internal/service/event"),
	}
}

func (s *eventService) Create(ctx context.Context, viewer Viewer, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		UnitID:   payload.UnitID,
		Title:    payload.Title,
		StartsAt: payload.StartsAt,
		Status:   models.StatusActive,
	}

	if err := s.repo.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	for _, guestID := range payload.GuestIDs {
		guest := models.UserEvent{
			EventID: event.ID,
			UserID:  guestID,
			Status:  models.StatusActive,
		}
		if err := s.repo.AddGuest(ctx, &guest); err != nil {
			s.logger.Warn().Err(err).Uint("event_id", event.ID).Uint("user_id", guestID).Msg("failed to add event guest")
		}
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventEventCreation,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefEvent: event.ID},
	})

	return dto.NewEventResponse(event), nil
}

// Delete soft-deletes an event and sweeps its guest rows into EVENTDELETED.
func (s *eventService) Delete(ctx context.Context, id uint, viewer Viewer) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrEventNotFound
		}
		return err
	}

	spanCtx, span := s.tracer.Start(ctx, "events.delete", trace.WithAttributes(
		attribute.Int64("event.id", int64(id)),
	))
	defer span.End()

	deleted, err := s.repo.SoftDelete(spanCtx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !deleted {
		return ErrEventNotFound
	}

	if _, err := s.repo.MarkGuests(spanCtx, id, models.LiveStatuses(), models.StatusEventDeleted); err != nil {
		span.RecordError(err)
		return err
	}

	recordBestEffort(spanCtx, s.recorder, s.logger, LogRecord{
		Event:   models.EventEventDeletion,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefEvent: id},
	})

	s.logger.Info().Uint("event_id", id).Msg("event deleted")

	return nil
}
