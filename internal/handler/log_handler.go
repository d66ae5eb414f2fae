package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/service"
	"github.com/aula-labs/aula-api/internal/utils"
)

// LogHandler exposes the activity log endpoints: paginated listing, undo of
// delete entries, bulk purge, and a websocket feed of newly recorded entries.
type LogHandler struct {
	logs     service.LogService
	undo     service.UndoService
	streamer service.LogStreamer
	logger   zerolog.Logger
}

// NewLogHandler constructs the handler.
func NewLogHandler(logs service.LogService, undo service.UndoService, streamer service.LogStreamer, logger zerolog.Logger) *LogHandler {
	return &LogHandler{
		logs:     logs,
		undo:     undo,
		streamer: streamer,
		logger:   logger.With().Str("component", "log_handler").Logger(),
	}
}

// Register attaches log routes to the router group. Undo and purge go
// through the provided staff guard; listing and the stream do not.
func (h *LogHandler) Register(router fiber.Router, staffOnly fiber.Handler) {
	if staffOnly == nil {
		staffOnly = func(c *fiber.Ctx) error { return c.Next() }
	}

	router.Get("", h.list)
	router.Post("/:id/undo", staffOnly, h.undoEntry)
	router.Delete("", staffOnly, h.clean)

	router.Use("/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/stream", websocket.New(h.stream))
}

func (h *LogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	rowPerPage, err := parseQueryInt(c, "row_per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid row per page")
	}
	if rowPerPage <= 0 {
		rowPerPage = 25
	} else if rowPerPage > 200 {
		rowPerPage = 200
	}

	actor, err := parseQueryInt(c, "actor")
	if err != nil || actor < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor")
	}
	course, err := parseQueryInt(c, "course")
	if err != nil || course < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course")
	}
	group, err := parseQueryInt(c, "group")
	if err != nil || group < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid group")
	}

	from, err := parseQueryTime(c, "from")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from timestamp")
	}
	to, err := parseQueryTime(c, "to")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid to timestamp")
	}

	req := dto.LogListRequest{
		Page:       page,
		RowPerPage: rowPerPage,
		Event:      c.Query("event"),
		Type:       c.Query("type"),
		Actor:      uint(actor),
		Course:     uint(course),
		Group:      uint(group),
		From:       from,
		To:         to,
		Ascending:  c.QueryBool("ascending"),
	}

	response, err := h.logs.List(c.Context(), req, viewerFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list logs")
	}

	return utils.SendSuccess(c, "logs", response)
}

func (h *LogHandler) undoEntry(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid log id")
	}

	if err := h.undo.Undo(c.Context(), id, viewerFromContext(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "log entry not found")
		case errors.Is(err, service.ErrUndoTargetNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "undo target not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("log_id", id).Msg("undo failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "undo failed")
		}
	}

	return utils.SendSuccess(c, "undo applied", nil)
}

func (h *LogHandler) clean(c *fiber.Ctx) error {
	response, err := h.logs.Clean(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to clean logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to clean logs")
	}

	return utils.SendSuccess(c, "logs cleaned", response)
}

func (h *LogHandler) stream(conn *websocket.Conn) {
	entries, cancel := h.streamer.Subscribe()
	defer cancel()

	h.logger.Info().Msg("log stream connected")
	defer h.logger.Info().Msg("log stream disconnected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
