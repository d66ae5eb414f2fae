package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/dto"
	"github.com/aula-labs/aula-api/internal/models"
	"github.com/aula-labs/aula-api/internal/observability"
	"github.com/aula-labs/aula-api/internal/repository"
)

// ErrLogNotFound indicates the requested log entry does not exist.
var ErrLogNotFound = errors.New("log entry not found")

// LogRecord captures the details required to append one audit entry.
type LogRecord struct {
	Event   string
	Type    string
	ActorID *uint
	Data    map[string]interface{}
}

// LogRecorder is the write-side contract entity services depend on. Callers
// treat failures as best-effort: they log and move on, the mutation itself is
// never rolled back because its audit entry could not be written.
type LogRecorder interface {
	Record(ctx context.Context, record LogRecord) (dto.LogEntryResponse, error)
}

// LogService exposes the audit trail use-cases.
type LogService interface {
	LogRecorder
	List(ctx context.Context, req dto.LogListRequest, viewer Viewer) (dto.Paginated[dto.LogEntryResponse], error)
	Clean(ctx context.Context) (dto.LogCleanResponse, error)
}

type logService struct {
	repo     repository.LogRepository
	renderer *LogRenderer
	streamer LogStreamer
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewLogService constructs the log service. Streamer and cache may be nil.
func NewLogService(repo repository.LogRepository, renderer *LogRenderer, streamer LogStreamer, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) LogService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &logService{
		repo:     repo,
		renderer: renderer,
		streamer: streamer,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "log_service").Logger(),
	}
}

func (s *logService) Record(ctx context.Context, record LogRecord) (dto.LogEntryResponse, error) {
	if strings.TrimSpace(record.Event) == "" {
		return dto.LogEntryResponse{}, fmt.Errorf("log event is required")
	}
	if strings.TrimSpace(record.Type) == "" {
		return dto.LogEntryResponse{}, fmt.Errorf("log type is required")
	}

	data := datatypes.JSONMap{}
	for key, value := range record.Data {
		data[key] = value
	}

	entry := models.LogEntry{
		Event:   record.Event,
		Type:    record.Type,
		ActorID: record.ActorID,
		Data:    data,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("event", record.Event).Msg("failed to persist log entry")
		return dto.LogEntryResponse{}, err
	}

	observability.LogsRecorded().WithLabelValues(entry.Type).Inc()

	response := dto.NewLogEntryResponse(entry)
	if s.streamer != nil {
		s.streamer.Broadcast(response)
	}

	return response, nil
}

func (s *logService) List(ctx context.Context, req dto.LogListRequest, viewer Viewer) (dto.Paginated[dto.LogEntryResponse], error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.RowPerPage
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	filter := repository.LogFilter{
		Page:      page,
		PageSize:  pageSize,
		Event:     strings.TrimSpace(req.Event),
		Type:      strings.TrimSpace(req.Type),
		From:      req.From,
		To:        req.To,
		Ascending: req.Ascending,
	}
	if req.Actor > 0 {
		filter.ActorID = &req.Actor
	}
	if req.Course > 0 {
		filter.CourseID = &req.Course
	}
	if req.Group > 0 {
		filter.GroupID = &req.Group
	}

	cacheKey := s.cacheKey(filter, viewer)
	if cacheKey != "" {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var response dto.Paginated[dto.LogEntryResponse]
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				observability.LogListCacheRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
			// Unreadable payload counts as a miss and gets rewritten below.
			observability.LogListCacheRequests().WithLabelValues("miss").Inc()
		case errors.Is(err, redis.Nil):
			observability.LogListCacheRequests().WithLabelValues("miss").Inc()
		default:
			observability.LogListCacheRequests().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("failed to read log list cache")
		}
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.Paginated[dto.LogEntryResponse]{}, err
	}

	items := make([]dto.LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := dto.NewLogEntryResponse(entry)
		if description, ok := s.renderer.Render(ctx, entry, viewer); ok {
			item.Description = description
		}
		// The undo affordance is offered on every DELETE entry; whether the
		// target is still restorable is re-verified at undo time, since list
		// time and undo time may diverge.
		if entry.Type == models.LogTypeDelete {
			item.Action = []string{"UNDO"}
		}
		items = append(items, item)
	}

	response := dto.NewPaginated(items, page, pageSize, total)

	if cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write log list cache")
			}
		}
	}

	return response, nil
}

func (s *logService) Clean(ctx context.Context) (dto.LogCleanResponse, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to purge log entries")
		return dto.LogCleanResponse{}, err
	}

	s.logger.Info().Int64("deleted", deleted).Msg("log entries purged")
	return dto.LogCleanResponse{DeletedCount: deleted}, nil
}

// cacheKey includes the viewer because descriptions render "You" for the
// viewer's own entries.
func (s *logService) cacheKey(filter repository.LogFilter, viewer Viewer) string {
	if s.cache == nil {
		return ""
	}
	actor, course, group := uint(0), uint(0), uint(0)
	if filter.ActorID != nil {
		actor = *filter.ActorID
	}
	if filter.CourseID != nil {
		course = *filter.CourseID
	}
	if filter.GroupID != nil {
		group = *filter.GroupID
	}
	from, to := int64(0), int64(0)
	if filter.From != nil {
		from = filter.From.Unix()
	}
	if filter.To != nil {
		to = filter.To.Unix()
	}
	return fmt.Sprintf("logs:list:v1:%d:%s:%s:%d:%d:%d:%d:%d:%t:%d:%d",
		viewer.ID, filter.Event, filter.Type, actor, course, group, from, to, filter.Ascending, filter.Page, filter.PageSize)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// recordBestEffort writes an audit entry without letting a log failure abort
// the mutation it describes.
func recordBestEffort(ctx context.Context, recorder LogRecorder, logger zerolog.Logger, record LogRecord) {
	if recorder == nil {
		return
	}
	if _, err := recorder.Record(ctx, record); err != nil {
		logger.Warn().Err(err).Str("event", record.Event).Msg("failed to record log entry")
	}
}

func actorRef(viewer Viewer) *uint {
	if viewer.ID == 0 {
		return nil
	}
	id := viewer.ID
	return &id
}
