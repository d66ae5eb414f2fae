package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/service"
	"github.com/aula-labs/aula-api/internal/utils"
)

// DiscussionHandler exposes discussion endpoints.
type DiscussionHandler struct {
	service service.DiscussionService
	logger  zerolog.Logger
}

// NewDiscussionHandler constructs the handler.
func NewDiscussionHandler(service service.DiscussionService, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service: service,
		logger:  logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Register attaches discussion routes to the router group.
func (h *DiscussionHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *DiscussionHandler) create(c *fiber.Ctx) error {
	var payload dto.DiscussionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	discussion, err := h.service.Create(c.Context(), viewerFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create discussion")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create discussion")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "discussion created", discussion)
}

func (h *DiscussionHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid discussion id")
	}

	if err := h.service.Delete(c.Context(), id, viewerFromContext(c)); err != nil {
		if errors.Is(err, service.ErrDiscussionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "discussion not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("discussion_id", id).Msg("failed to delete discussion")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete discussion")
	}

	return utils.SendSuccess(c, "discussion deleted", nil)
}
