package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/service"
	"github.com/aula-labs/aula-api/internal/utils"
)

type stubLogService struct {
	listResponse dto.Paginated[dto.LogEntryResponse]
	listErr      error
	lastRequest  dto.LogListRequest
	lastViewer   service.Viewer
	cleaned      dto.LogCleanResponse
}

func (s *stubLogService) Record(ctx context.Context, record service.LogRecord) (dto.LogEntryResponse, error) {
	return dto.LogEntryResponse{}, nil
}

func (s *stubLogService) List(ctx context.Context, req dto.LogListRequest, viewer service.Viewer) (dto.Paginated[dto.LogEntryResponse], error) {
	s.lastRequest = req
	s.lastViewer = viewer
	return s.listResponse, s.listErr
}

func (s *stubLogService) Clean(ctx context.Context) (dto.LogCleanResponse, error) {
	return s.cleaned, nil
}

type stubUndoService struct {
	err    error
	lastID uint
}

func (s *stubUndoService) Undo(ctx context.Context, logID uint, viewer service.Viewer) error {
	s.lastID = logID
	return s.err
}

func newLogTestApp(logs service.LogService, undo service.UndoService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_role", "admin")
		return c.Next()
	})

	streamer := service.NewLogStreamer(nil, "", zerolog.Nop())
	h := NewLogHandler(logs, undo, streamer, zerolog.Nop())
	h.Register(app.Group("/logs"), nil)

	return app
}

func decodeResponse(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var payload utils.APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestLogHandlerList(t *testing.T) {
	logs := &stubLogService{
		listResponse: dto.Paginated[dto.LogEntryResponse]{
			Data:        []dto.LogEntryResponse{{ID: 1, Event: "COURSE_DELETION", Type: "DELETE", Action: []string{"UNDO"}}},
			CurrentPage: 1,
			TotalPage:   1,
			TotalItems:  1,
		},
	}
	app := newLogTestApp(logs, &stubUndoService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/logs?page=2&row_per_page=50&event=COURSE_DELETION&type=DELETE&actor=3", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.True(t, payload.Success)

	require.Equal(t, 2, logs.lastRequest.Page)
	require.Equal(t, 50, logs.lastRequest.RowPerPage)
	require.Equal(t, "COURSE_DELETION", logs.lastRequest.Event)
	require.Equal(t, "DELETE", logs.lastRequest.Type)
	require.EqualValues(t, 3, logs.lastRequest.Actor)
	require.EqualValues(t, 7, logs.lastViewer.ID)
}

func TestLogHandlerListRejectsBadQuery(t *testing.T) {
	app := newLogTestApp(&stubLogService{}, &stubUndoService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/logs?page=abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/logs?from=notatime", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogHandlerUndo(t *testing.T) {
	undo := &stubUndoService{}
	app := newLogTestApp(&stubLogService{}, undo)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logs/42/undo", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 42, undo.lastID)
}

func TestLogHandlerUndoNotFound(t *testing.T) {
	app := newLogTestApp(&stubLogService{}, &stubUndoService{err: service.ErrLogNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logs/42/undo", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, "log entry not found", payload.Message)
}

func TestLogHandlerUndoTargetNotFound(t *testing.T) {
	app := newLogTestApp(&stubLogService{}, &stubUndoService{err: service.ErrUndoTargetNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logs/42/undo", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLogHandlerUndoRejectsBadID(t *testing.T) {
	app := newLogTestApp(&stubLogService{}, &stubUndoService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/logs/abc/undo", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogHandlerClean(t *testing.T) {
	logs := &stubLogService{cleaned: dto.LogCleanResponse{DeletedCount: 12}}
	app := newLogTestApp(logs, &stubUndoService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/logs", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.True(t, payload.Success)
	data, err := json.Marshal(payload.Data)
	require.NoError(t, err)
	require.JSONEq(t, `{"deletedCount":12}`, string(data))
}
