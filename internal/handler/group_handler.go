package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/service"
	"github.com/aula-labs/aula-api/internal/utils"
)

// GroupHandler exposes course group endpoints.
type GroupHandler struct {
	service service.GroupService
	logger  zerolog.Logger
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(service service.GroupService, logger zerolog.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		logger:  logger.With().Str("component", "group_handler").Logger(),
	}
}

// Register attaches group routes to the router group.
func (h *GroupHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Post("/:id/members", h.addMember)
	router.Delete("/:id", h.delete)
}

func (h *GroupHandler) create(c *fiber.Ctx) error {
	var payload dto.GroupCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	group, err := h.service.Create(c.Context(), viewerFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create group")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create group")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", group)
}

func (h *GroupHandler) addMember(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group id")
	}

	var payload dto.GroupMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.AddMember(c.Context(), id, viewerFromContext(c), payload); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrGroupNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("group_id", id).Msg("failed to add group member")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to add group member")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "member added", nil)
}

func (h *GroupHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group id")
	}

	if err := h.service.Delete(c.Context(), id, viewerFromContext(c)); err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "group not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("group_id", id).Msg("failed to delete group")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete group")
	}

	return utils.SendSuccess(c, "group deleted", nil)
}
