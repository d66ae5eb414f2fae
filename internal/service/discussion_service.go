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

// ErrDiscussionNotFound indicates the discussion does not exist or is already deleted.
var ErrDiscussionNotFound = errors.New("discussion not found")

// DiscussionService exposes discussion use-cases.
type DiscussionService interface {
	Create(ctx context.Context, viewer Viewer, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error)
	Delete(ctx context.Context, id uint, viewer Viewer) error
}

type discussionService struct {
	repo      repository.DiscussionRepository
	recorder  LogRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewDiscussionService constructs the discussion service.
func NewDiscussionService(repo repository.DiscussionRepository, recorder LogRecorder, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &discussionService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		sanitizer: policy,
		logger:    logger.With().Str("component", "discussion_service").Logger(),
	}
}

func (s *discussionService) Create(ctx context.Context, viewer Viewer, payload dto.DiscussionCreateRequest) (dto.DiscussionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DiscussionResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.DiscussionResponse{}, errors.New("discussion title empty after sanitization")
	}
	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))

	discussion := models.Discussion{
		AuthorID: viewer.ID,
		UnitID:   payload.UnitID,
		Title:    title,
		Content:  content,
		Status:   models.StatusActive,
	}

	if err := s.repo.Create(ctx, &discussion); err != nil {
		return dto.DiscussionResponse{}, err
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventDiscussionCreation,
		Type:    models.LogTypeCreate,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefDiscussion: discussion.ID},
	})

	return dto.NewDiscussionResponse(discussion), nil
}

func (s *discussionService) Delete(ctx context.Context, id uint, viewer Viewer) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrDiscussionNotFound
		}
		return err
	}

	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDiscussionNotFound
	}

	recordBestEffort(ctx, s.recorder, s.logger, LogRecord{
		Event:   models.EventDiscussionDeletion,
		Type:    models.LogTypeDelete,
		ActorID: actorRef(viewer),
		Data:    map[string]interface{}{models.RefDiscussion: id},
	})

	return nil
}
