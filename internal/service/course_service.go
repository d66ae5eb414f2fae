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

// ErrCourseNotFound indicates the course does not exist or is already deleted.
var ErrCourseNotFound = errors.New("course not found")

// CourseService exposes course and intake use-cases.
type CourseService interface {
	Create(ctx context.Context, viewer Viewer, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint, viewer Viewer) error
}

type courseService struct {
	repo      repository.CourseRepository
	units     repository.UnitRepository
	sessions  repository.SessionRepository
	events    repository.EventRepository
	recorder  LogRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewCourseService constructs the course service.
func NewCourseService(
	repo repository.CourseRepository,
	units repository.UnitRepository,
	sessions repository.SessionRepository,
	events repository.EventRepository,
	recorder LogRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		repo:      repo,
		units:     units,
		sessions:  sessions,
		events:    events,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
		tracer:    otel.Tracer("github.com/aula-labs/aula-api/internal/service/course"),
	}
}

func (s *courseService) Create(ctx context.Context, viewer Viewer, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	kind := payload.Kind
	if kind == "" {
		kind = models.CourseKindCourse
	}

	course := models.Course{
		Name:   payload.Name,
		Code:   payload.Code,
		Kind:   kind,
		Status: models.StatusActive,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	event := models.EventCourseCreation
	if kind == models.CourseKindIntake {
		event = models.EventIntakeCreation
	}
	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   event,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefCourse: course.ID},
	})

	s.logger.Info().Uint("course_id", course.ID).Str("kind", kind).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}
	return dto.NewCourseResponse(course), nil
}

// Delete soft-deletes a course and sweeps its units, sessions and events into
// COURSEDELETED so an undo can restore exactly the rows this delete touched.
func (s *courseService) Delete(ctx context.Context, id uint, viewer Viewer) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrCourseNotFound
		}
		return err
	}

	spanCtx, span := s.tracer.Start(ctx, "courses.delete", trace.WithAttributes(
		attribute.Int64("course.id", int64(id)),
		attribute.String("course.kind", course.Kind),
	))
	defer span.End()

	unitIDs, err := s.units.ListIDsByCourseStatus(spanCtx, id, models.LiveStatuses())
	if err != nil {
		span.RecordError(err)
		return err
	}

	deleted, err := s.repo.SoftDelete(spanCtx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !deleted {
		return ErrCourseNotFound
	}

	g, gctx := errgroup.WithContext(spanCtx)
	g.Go(func() error {
		_, err := s.units.MarkByCourse(gctx, id, models.LiveStatuses(), models.StatusCourseDeleted)
		return err
	})
	g.Go(func() error {
		_, err := s.sessions.MarkByUnitIDs(gctx, unitIDs, models.LiveStatuses(), models.StatusCourseDeleted)
		return err
	})
	g.Go(func() error {
		_, err := s.events.MarkByUnitIDs(gctx, unitIDs, models.LiveStatuses(), models.StatusCourseDeleted)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}

	event := models.EventCourseDeletion
	if course.Kind == models.CourseKindIntake {
		event = models.EventIntakeDeletion
	}
	recordBestEffort(spanCtx, s.recorder, s.logger, LogRecord{
		Event:   event,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefCourse: id},
	})

	s.logger.Info().Uint("course_id", id).Int("cascaded_units", len(unitIDs)).Msg("course deleted")

	return nil
}
