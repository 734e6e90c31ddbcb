package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus publishes events to a Redis stream. Each entry carries the
// bare event JSON in the "payload" field next to "type", "key" and "id".
type RedisEventBus struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379")
// stream: Name of the Redis stream to use
func NewWithRedis(ctx context.Context, url, stream string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" || stream == "" {
		return nil, fmt.Errorf("redis event bus: url and stream are required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisEventBus{
		client: client,
		stream: stream,
		maxLen: 10000,
		logger: logger.With("bus", "redis"),
	}, nil
}

// Topic returns the stream events are published to.
func (b *RedisEventBus) Topic() string { return b.stream }

// Emit appends an event to the Redis stream. The stream is trimmed
// approximately to the newest entries.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	if b.client == nil {
		return fmt.Errorf("redis event bus: client not initialized")
	}
	payload, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	values := map[string]any{
		"type":    event.Type(),
		"key":     eventKey(event),
		"payload": string(payload),
	}
	if id := eventID(event); id != "" {
		values["id"] = id
	}
	_, err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		MaxLen: b.maxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "event_type", event.Type(), "stream", b.stream)
	return nil
}

// Close closes the client.
func (b *RedisEventBus) Close() error {
	return b.client.Close()
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
