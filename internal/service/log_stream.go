package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/aula-labs/aula-api/internal/dto"
)

const streamBufferSize = 16

// LogStreamer fans freshly written log entries out to live subscribers.
// Broadcast is best-effort: slow subscribers drop entries instead of blocking
// the write path.
type LogStreamer interface {
	Broadcast(entry dto.LogEntryResponse)
	Subscribe() (<-chan dto.LogEntryResponse, func())
	Start(ctx context.Context)
}

type logStreamEvent struct {
	Source string               `json:"source"`
	Entry  dto.LogEntryResponse `json:"entry"`
	SentAt time.Time            `json:"sent_at"`
}

type logStreamer struct {
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	nodeID      string

	mu          sync.RWMutex
	subscribers map[chan dto.LogEntryResponse]struct{}
}

// NewLogStreamer constructs a streamer. The NATS connection may be nil, in
// which case entries only reach subscribers on this node.
func NewLogStreamer(natsConn *nats.Conn, subject string, logger zerolog.Logger) LogStreamer {
	return &logStreamer{
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "log_streamer").Logger(),
		nodeID:      uuid.NewString(),
		subscribers: make(map[chan dto.LogEntryResponse]struct{}),
	}
}

func (s *logStreamer) Start(ctx context.Context) {
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *logStreamer) Broadcast(entry dto.LogEntryResponse) {
	s.fanout(entry)

	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(logStreamEvent{
		Source: s.nodeID,
		Entry:  entry,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode log stream event")
		return
	}

	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish log stream event")
	}
}

func (s *logStreamer) Subscribe() (<-chan dto.LogEntryResponse, func()) {
	channel := make(chan dto.LogEntryResponse, streamBufferSize)

	s.mu.Lock()
	s.subscribers[channel] = struct{}{}
	s.mu.Unlock()

	cleanup := func() {
		s.mu.Lock()
		delete(s.subscribers, channel)
		s.mu.Unlock()
	}

	return channel, cleanup
}

func (s *logStreamer) fanout(entry dto.LogEntryResponse) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for channel := range s.subscribers {
		select {
		case channel <- entry:
		default:
		}
	}
}

func (s *logStreamer) consumeNATS(ctx context.Context) {
	// Plain subscription: every node must see every entry, so no queue group.
	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		var event logStreamEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			s.logger.Warn().Err(err).Msg("invalid log stream event payload")
			return
		}
		if event.Source == s.nodeID {
			return
		}
		s.fanout(event.Entry)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to log stream subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain log stream subscription")
		}
	}()
}
