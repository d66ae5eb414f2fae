package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/service"
	"github.com/aula-labs/aula-api/internal/utils"
)

// UnitHandler exposes unit endpoints.
type UnitHandler struct {
	service service.UnitService
	logger  zerolog.Logger
}

// NewUnitHandler constructs the handler.
func NewUnitHandler(service service.UnitService, logger zerolog.Logger) *UnitHandler {
	return &UnitHandler{
		service: service,
		logger:  logger.With().Str("component", "unit_handler").Logger(),
	}
}

// Register attaches unit routes to the router group.
func (h *UnitHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *UnitHandler) create(c *fiber.Ctx) error {
	var payload dto.UnitCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	unit, err := h.service.Create(c.Context(), viewerFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create unit")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create unit")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "unit created", unit)
}

func (h *UnitHandler) delete(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid unit id")
	}

	if err := h.service.Delete(c.Context(), id, viewerFromContext(c)); err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "unit not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("unit_id", id).Msg("failed to delete unit")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete unit")
	}

	return utils.SendSuccess(c, "unit deleted", nil)
}
