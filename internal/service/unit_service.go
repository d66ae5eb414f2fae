package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/repository"
)

// ErrUnitNotFound indicates the unit does not exist or is already deleted.
var ErrUnitNotFound = errors.New("unit not found")

// UnitService exposes teaching unit use-cases.
type UnitService interface {
	Create(ctx context.Context, viewer Viewer, payload dto.UnitCreateRequest) (dto.UnitResponse, error)
	Delete(ctx context.Context, id uint, viewer Viewer) error
}

type unitService struct {
	repo      repository.UnitRepository
	courses   repository.CourseRepository
	sessions  repository.SessionRepository
	events    repository.EventRepository
	recorder  LogRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewUnitService constructs the unit service.
func NewUnitService(
	repo repository.UnitRepository,
	courses repository.CourseRepository,
	sessions repository.SessionRepository,
	events repository.EventRepository,
	recorder LogRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) UnitService {
	return &unitService{
		repo:      repo,
		courses:   courses,
		sessions:  sessions,
		events:    events,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "unit_service").Logger(),
		tracer:    otel.Tracer("github.com/aula-labs/aula-api/internal/service/unit"),
	}
}

func (s *unitService) Create(ctx context.Context, viewer Viewer, payload dto.UnitCreateRequest) (dto.UnitResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UnitResponse{}, err
	}

	if _, err := s.courses.FindByID(ctx, payload.CourseID); err != nil {
		if isNotFound(err) {
			return dto.UnitResponse{}, ErrCourseNotFound
		}
		return dto.UnitResponse{}, err
	}

	kind := payload.Kind
	if kind == "" {
		kind = models.UnitKindLesson
	}
	status := models.StatusActive
	if kind == models.UnitKindDraft {
		status = models.StatusDraft
	}

	unit := models.Unit{
		CourseID: payload.CourseID,
		Name:     payload.Name,
		Code:     payload.Code,
		Kind:     kind,
		Status:   status,
	}

	if err := s.repo.Create(ctx, &unit); err != nil {
		return dto.UnitResponse{}, err
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventUnitCreation,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data: map[string]interface{}{
			models.RefUnit:   unit.ID,
			models.RefCourse: unit.CourseID,
		},
	})

	return dto.NewUnitResponse(unit), nil
}

// Delete soft-deletes a unit and sweeps its session and event rows into
// UNITDELETED, keeping them distinguishable from rows cascade-deleted by a
// course deletion.
func (s *unitService) Delete(ctx context.Context, id uint, viewer Viewer) error {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrUnitNotFound
		}
		return err
	}

	spanCtx, span := s.tracer.Start(ctx, "units.delete", trace.WithAttributes(
		attribute.Int64("unit.id", int64(id)),
	))
	defer span.End()

	deleted, err := s.repo.SoftDelete(spanCtx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !deleted {
		return ErrUnitNotFound
	}

	unitIDs := []uint{id}
	g, gctx := errgroup.WithContext(spanCtx)
	g.Go(func() error {
		_, err := s.sessions.MarkByUnitIDs(gctx, unitIDs, models.LiveStatuses(), models.StatusUnitDeleted)
		return err
	})
	g.Go(func() error {
		_, err := s.events.MarkByUnitIDs(gctx, unitIDs, models.LiveStatuses(), models.StatusUnitDeleted)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	recordBestEffort(spanCtx, s.recorder, s.logger, LogRecord{
		Event:   models.EventUnitDeletion,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data: map[string]interface{}{
			models.RefUnit:   id,
			models.RefCourse: unit.CourseID,
		},
	})

	s.logger.Info().Uint("unit_id", id).Msg("unit deleted")

	return nil
}
