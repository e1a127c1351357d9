package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, event Event) error

// ErrMalformedEvent marks a stream entry that can never be decoded.
var ErrMalformedEvent = errors.New("malformed event")

// Subscriber consumes one stream as a member of a consumer group. Entries are
// acknowledged once handled; failed entries stay pending and are reclaimed
// after ClaimIdle.
type Subscriber struct {
	client redis.UniversalClient
	cfg    SubscriberConfig
	logger *slog.Logger
}

type SubscriberConfig struct {
	Group    string
	Consumer string
	Stream   string
	Handler  Handler

	BatchSize     int64
	BlockDuration time.Duration
	// ClaimIdle is how long an entry may stay pending with any consumer
	// before this one retries it.
	ClaimIdle time.Duration
	Logger    *slog.Logger
}

func NewSubscriber(client redis.UniversalClient, cfg SubscriberConfig) *Subscriber {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 10
	}
	if cfg.BlockDuration == 0 {
		cfg.BlockDuration = 5 * time.Second
	}
	if cfg.ClaimIdle == 0 {
		cfg.ClaimIdle = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Subscriber{
		client: client,
		cfg:    cfg,
		logger: cfg.Logger.With("stream", cfg.Stream, "group", cfg.Group, "consumer", cfg.Consumer),
	}
}

// Start consumes the stream until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.ensureGroup(ctx); err != nil {
		return err
	}
	s.logger.Info("subscriber started")

	for ctx.Err() == nil {
		if err := s.Poll(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("error reading messages", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
	s.logger.Info("subscriber stopping")
	return ctx.Err()
}

func (s *Subscriber) ensureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.cfg.Stream, s.cfg.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// Poll retries stale pending entries, then handles one batch of new ones.
func (s *Subscriber) Poll(ctx context.Context) error {
	if err := s.reclaim(ctx); err != nil {
		return err
	}

	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		Streams:  []string{s.cfg.Stream, ">"},
		Count:    s.cfg.BatchSize,
		Block:    s.cfg.BlockDuration,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		s.handleAll(ctx, stream.Messages)
	}
	return nil
}

func (s *Subscriber) reclaim(ctx context.Context) error {
	messages, _, err := s.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   s.cfg.Stream,
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		MinIdle:  s.cfg.ClaimIdle,
		Start:    "0-0",
		Count:    s.cfg.BatchSize,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to claim pending messages: %w", err)
	}
	if len(messages) > 0 {
		s.logger.Info("reclaimed pending messages", "count", len(messages))
		s.handleAll(ctx, messages)
	}
	return nil
}

func (s *Subscriber) handleAll(ctx context.Context, messages []redis.XMessage) {
	for _, message := range messages {
		err := s.process(ctx, message)
		switch {
		case errors.Is(err, ErrMalformedEvent):
			s.logger.Error("dropping malformed message", "message_id", message.ID, "error", err)
		case err != nil:
			s.logger.Warn("failed to process message", "message_id", message.ID, "error", err)
			continue
		}
		if err := s.client.XAck(ctx, s.cfg.Stream, s.cfg.Group, message.ID).Err(); err != nil {
			s.logger.Warn("failed to ack message", "message_id", message.ID, "error", err)
		}
	}
}

func (s *Subscriber) process(ctx context.Context, message redis.XMessage) error {
	event, err := Decode(message.Values)
	if err != nil {
		return err
	}
	return s.cfg.Handler(ctx, event)
}

// Decode reads the event envelope from stream message values.
func Decode(values map[string]any) (Event, error) {
	var event Event
	raw, ok := values["event"].(string)
	if !ok {
		return event, fmt.Errorf("%w: missing event field", ErrMalformedEvent)
	}
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return event, nil
}
