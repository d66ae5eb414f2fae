package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/repository"
)

// ErrUserNotFound indicates the user does not exist or is already deleted.
var ErrUserNotFound = errors.New("user not found")

// UserService exposes account use-cases.
type UserService interface {
	Create(ctx context.Context, viewer Viewer, payload dto.UserCreateRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id uint, permanent bool, viewer Viewer) error
}

type userService struct {
	repo      repository.UserRepository
	recorder  LogRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, recorder LogRecorder, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		tracer:    otel.Tracer("github.com/aula-labs/aula-api/internal/service/user"),
	}
}

func (s *userService) Create(ctx context.Context, viewer Viewer, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := payload.Role
	if role == "" {
		role = "student"
	}

	user := models.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Username:  payload.Username,
		Role:      role,
		Status:    models.StatusActive,
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventUserCreation,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefUser: user.ID},
	})

	return dto.NewUserResponse(user), nil
}

// Delete soft-deletes an account. A permanent delete additionally anonymizes
// the identifiers in place, stashing the originals in backup columns so an
// undo can put them back.
func (s *userService) Delete(ctx context.Context, id uint, permanent bool, viewer Viewer) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	spanCtx, span := s.tracer.Start(ctx, "users.delete", trace.WithAttributes(
		attribute.Int64("user.id", int64(id)),
		attribute.Bool("user.permanent", permanent),
	))
	defer span.End()

	var (
		deleted bool
		err     error
	)
	if permanent {
		placeholderEmail := fmt.Sprintf("deleted-user-%d@removed.invalid", id)
		placeholderUsername := fmt.Sprintf("deleted-user-%d", id)
		deleted, err = s.repo.Anonymize(spanCtx, id, placeholderEmail, placeholderUsername)
	} else {
		deleted, err = s.repo.SoftDelete(spanCtx, id)
	}
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	recordBestEffort(spanCtx, s.recorder, s.logger, LogRecord{
		Event:   models.EventUserDeletion,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefUser: id},
	})

	s.logger.Info().Uint("user_id", id).Bool("permanent", permanent).Msg("user deleted")

	return nil
}
