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

// ErrGroupNotFound indicates the group does not exist or is already deleted.
var ErrGroupNotFound = errors.New("group not found")

// GroupService exposes course group use-cases.
type GroupService interface {
	Create(ctx context.Context, viewer Viewer, payload dto.GroupCreateRequest) (dto.GroupResponse, error)
	AddMember(ctx context.Context, groupID uint, viewer Viewer, payload dto.GroupMemberRequest) error
	Delete(ctx context.Context, id uint, viewer Viewer) error
}

type groupService struct {
	repo      repository.GroupRepository
	courses   repository.CourseRepository
	recorder  LogRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewGroupService constructs the group service.
func NewGroupService(repo repository.GroupRepository, courses repository.CourseRepository, recorder LogRecorder, validate *validator.Validate, logger zerolog.Logger) GroupService {
	return &groupService{
		repo:      repo,
		courses:   courses,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "group_service").Logger(),
		tracer:    otel.Tracer("github.com/aula-labs/aula-api/internal/service/group"),
	}
}

func (s *groupService) Create(ctx context.Context, viewer Viewer, payload dto.GroupCreateRequest) (dto.GroupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GroupResponse{}, err
	}

	if _, err := s.courses.FindByID(ctx, payload.CourseID); err != nil {
		if isNotFound(err) {
			return dto.GroupResponse{}, ErrCourseNotFound
		}
		return dto.GroupResponse{}, err
	}

	group := models.CourseGroup{
		CourseID: payload.CourseID,
		Name:     payload.Name,
		Status:   models.StatusActive,
	}

	if err := s.repo.Create(ctx, &group); err != nil {
		return dto.GroupResponse{}, err
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventGroupCreation,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data: map[string]interface{}{
			models.RefGroup:  group.ID,
			models.RefCourse: group.CourseID,
		},
	})

	return dto.NewGroupResponse(group), nil
}

func (s *groupService) AddMember(ctx context.Context, groupID uint, viewer Viewer, payload dto.GroupMemberRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		if isNotFound(err) {
			return ErrGroupNotFound
		}
		return err
	}
	if group.Status != models.StatusActive {
		return ErrGroupNotFound
	}

	member := models.UserCourseGroup{
		GroupID: groupID,
		UserID:  payload.UserID,
		Status:  models.StatusActive,
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		return err
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventGroupUserAddition,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data: map[string]interface{}{
			models.RefGroup: groupID,
			models.RefUser:  payload.UserID,
		},
	})

	return nil
}

// Delete soft-deletes a group and sweeps its membership rows into
// GROUPDELETED so a group undo restores the membership list as it was.
func (s *groupService) Delete(ctx context.Context, id uint, viewer Viewer) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrGroupNotFound
		}
		return err
	}

	spanCtx, span := s.tracer.Start(ctx, "groups.delete", trace.WithAttributes(
		attribute.Int64("group.id", int64(id)),
	))
	defer span.End()

	deleted, err := s.repo.SoftDelete(spanCtx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !deleted {
		return ErrGroupNotFound
	}

	if _, err := s.repo.MarkMembers(spanCtx, id, models.LiveStatuses(), models.StatusGroupDeleted); err != nil {
		span.RecordError(err)
		return err
	}

	recordBestEffort(spanCtx, s.recorder, s.logger, LogRecord{
		Event:   models.EventGroupUserDeletion,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefGroup: id},
	})

	s.logger.Info().Uint("group_id", id).Msg("group deleted")

	return nil
}
