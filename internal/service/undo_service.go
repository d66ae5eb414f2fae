package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/observability"
	"github.com/aula-labs/aula-api/internal/repository"
)

// ErrUndoTargetNotFound indicates the entity a log entry points at no longer
// resolves in the store.
var ErrUndoTargetNotFound = errors.New("undo target not found")

// UndoService reverses soft deletions recorded in the log.
type UndoService interface {
	Undo(ctx context.Context, logID uint, viewer Viewer) error
}

// undoHandler reverses one kind of deletion. restore reports false when the
// target was not in the exact state the deletion produced, which makes a
// repeated or concurrent undo a visible no-op instead of an error.
type undoHandler struct {
	undeleteEvent string
	restore       func(ctx context.Context, entry models.LogEntry) (bool, error)
}

type undoService struct {
	logs     repository.LogRepository
	recorder LogRecorder

	users         repository.UserRepository
	courses       repository.CourseRepository
	units         repository.UnitRepository
	groups        repository.GroupRepository
	events        repository.EventRepository
	sessions      repository.SessionRepository
	discussions   repository.DiscussionRepository
	notifications repository.NotificationRepository

	handlers map[string]undoHandler
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewUndoService constructs the undo engine with its full dispatch table.
func NewUndoService(
	logs repository.LogRepository,
	recorder LogRecorder,
	users repository.UserRepository,
	courses repository.CourseRepository,
	units repository.UnitRepository,
	groups repository.GroupRepository,
	events repository.EventRepository,
	sessions repository.SessionRepository,
	discussions repository.DiscussionRepository,
	notifications repository.NotificationRepository,
	logger zerolog.Logger,
) UndoService {
	s := &undoService{
		logs:          logs,
		recorder:      recorder,
		users:         users,
		courses:       courses,
		units:         units,
		groups:        groups,
		events:        events,
		sessions:      sessions,
		discussions:   discussions,
		notifications: notifications,
		logger:        logger.With().Str("component", "undo_service").Logger(),
		tracer:        otel.Tracer("github.com/aula-labs/aula-api/internal/service/undo"),
	}

	s.handlers = map[string]undoHandler{
		models.EventUserDeletion:         {undeleteEvent: models.EventUndeleteUser, restore: s.restoreUser},
		models.EventCourseDeletion:       {undeleteEvent: models.EventUndeleteCourse, restore: s.restoreCourse},
		models.EventIntakeDeletion:       {undeleteEvent: models.EventUndeleteIntake, restore: s.restoreCourse},
		models.EventUnitDeletion:         {undeleteEvent: models.EventUndeleteUnit, restore: s.restoreUnit},
		models.EventGroupUserDeletion:    {undeleteEvent: models.EventUndeleteGroup, restore: s.restoreGroup},
		models.EventEventDeletion:        {undeleteEvent: models.EventUndeleteEvent, restore: s.restoreEvent},
		models.EventDiscussionDeletion:   {undeleteEvent: models.EventUndeleteDiscussion, restore: s.restoreDiscussion},
		models.EventNotificationDeletion: {undeleteEvent: models.EventUndeleteNotification, restore: s.restoreNotification},
	}

	return s
}

func (s *undoService) Undo(ctx context.Context, logID uint, viewer Viewer) error {
	entry, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		if isNotFound(err) {
			return ErrLogNotFound
		}
		return err
	}

	handler, ok := s.handlers[entry.Event]
	if !ok {
		observability.UndoOutcomes().WithLabelValues(observability.UndoOutcomeUnknownEvent).Inc()
		s.logger.Debug().Str("event", entry.Event).Uint("log_id", logID).Msg("no undo handler for event")
		return nil
	}

	if entry.UnDelete {
		observability.UndoOutcomes().WithLabelValues(observability.UndoOutcomeAlreadyUndone).Inc()
		return nil
	}

	spanCtx, span := s.tracer.Start(ctx, "logs.undo", trace.WithAttributes(
		attribute.String("log.event", entry.Event),
		attribute.Int64("log.id", int64(logID)),
	))
	defer span.End()

	restored, err := handler.restore(spanCtx, entry)
	if err != nil {
		span.RecordError(err)
		s.logger.Error().Err(err).Str("event", entry.Event).Uint("log_id", logID).Msg("undo failed")
		return err
	}
	if !restored {
		observability.UndoOutcomes().WithLabelValues(observability.UndoOutcomeStale).Inc()
		s.logger.Info().Str("event", entry.Event).Uint("log_id", logID).Msg("undo skipped, target not in deleted state")
		return nil
	}

	var actorID *uint
	if viewer.ID > 0 {
		id := viewer.ID
		actorID = &id
	}

	if _, err := s.recorder.Record(spanCtx, LogRecord{
		Event:   handler.undeleteEvent,
		Type:    models.LogTypeUndelete,
		ActorID: actorID,
		Data:    entry.Data,
	}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("record undelete log: %w", err)
	}

	if _, err := s.logs.MarkUndone(spanCtx, entry.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("mark log undone: %w", err)
	}

	observability.UndoOutcomes().WithLabelValues(observability.UndoOutcomeRestored).Inc()
	s.logger.Info().Str("event", entry.Event).Uint("log_id", logID).Msg("deletion undone")

	return nil
}

func (s *undoService) restoreCourse(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefCourse)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no course reference")
		return false, nil
	}

	if _, err := s.courses.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	restored, err := s.courses.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
	if err != nil || !restored {
		return false, err
	}

	// The cascade scope is derived from the store, not from the log payload:
	// only rows still carrying the course's cascade status are restored.
	unitIDs, err := s.units.ListIDsByCourseStatus(ctx, id, []string{models.StatusCourseDeleted})
	if err != nil {
		return false, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.units.MarkByCourse(gctx, id, []string{models.StatusCourseDeleted}, models.StatusActive)
		return err
	})
	g.Go(func() error {
		_, err := s.sessions.MarkByUnitIDs(gctx, unitIDs, []string{models.StatusCourseDeleted}, models.StatusActive)
		return err
	})
	g.Go(func() error {
		_, err := s.events.MarkByUnitIDs(gctx, unitIDs, []string{models.StatusCourseDeleted}, models.StatusActive)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	return true, nil
}

func (s *undoService) restoreUnit(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefUnit)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no unit reference")
		return false, nil
	}

	if _, err := s.units.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	restored, err := s.units.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
	if err != nil || !restored {
		return false, err
	}

	unitIDs := []uint{id}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.sessions.MarkByUnitIDs(gctx, unitIDs, []string{models.StatusUnitDeleted}, models.StatusActive)
		return err
	})
	g.Go(func() error {
		_, err := s.events.MarkByUnitIDs(gctx, unitIDs, []string{models.StatusUnitDeleted}, models.StatusActive)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	return true, nil
}

func (s *undoService) restoreGroup(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefGroup)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no group reference")
		return false, nil
	}

	if _, err := s.groups.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	restored, err := s.groups.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
	if err != nil || !restored {
		return false, err
	}

	if _, err := s.groups.MarkMembers(ctx, id, []string{models.StatusGroupDeleted}, models.StatusActive); err != nil {
		return false, err
	}

	return true, nil
}

func (s *undoService) restoreEvent(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefEvent)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no event reference")
		return false, nil
	}

	if _, err := s.events.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	restored, err := s.events.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
	if err != nil || !restored {
		return false, err
	}

	if _, err := s.events.MarkGuests(ctx, id, []string{models.StatusEventDeleted}, models.StatusActive); err != nil {
		return false, err
	}

	return true, nil
}

func (s *undoService) restoreDiscussion(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefDiscussion)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no discussion reference")
		return false, nil
	}

	if _, err := s.discussions.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	return s.discussions.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
}

func (s *undoService) restoreNotification(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefNotification)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no notification reference")
		return false, nil
	}

	if _, err := s.notifications.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	return s.notifications.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
}

func (s *undoService) restoreUser(ctx context.Context, entry models.LogEntry) (bool, error) {
	id, ok := entry.Ref(models.RefUser)
	if !ok {
		s.logger.Warn().Uint("log_id", entry.ID).Msg("log entry carries no user reference")
		return false, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return false, ErrUndoTargetNotFound
		}
		return false, err
	}

	if user.Status != models.StatusDeleted {
		return false, nil
	}

	// Permanently deleted accounts had their identifiers anonymized; put the
	// originals back along with the status.
	if user.BackupEmail != "" {
		return s.users.RestoreIdentity(ctx, id)
	}

	return s.users.UpdateStatus(ctx, id, models.StatusDeleted, models.StatusActive)
}
