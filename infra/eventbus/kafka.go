package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds configuration for the Kafka event bus.
type KafkaConfig struct {
	Brokers string
	Topic   string
}

// KafkaEventBus publishes every event to a single Kafka topic. The message
// value is the bare event JSON, the key is the event's partitioning key and
// the event type and id go into headers.
type KafkaEventBus struct {
	brokers []string
	topic   string
	writer  *kafka.Writer
	dialer  *kafka.Dialer
	logger  *slog.Logger
}

// NewWithKafka creates a new Kafka-backed event bus and checks that the first
// broker is reachable.
func NewWithKafka(ctx context.Context, cfg KafkaConfig, logger *slog.Logger) (*KafkaEventBus, error) {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = "notification-topic"
	}
	if logger == nil {
		logger = slog.Default()
	}

	bus := &KafkaEventBus{
		brokers: brokers,
		topic:   cfg.Topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
		},
		dialer: &kafka.Dialer{Timeout: 5 * time.Second},
		logger: logger.With("bus", "kafka"),
	}

	if err := bus.ping(ctx); err != nil {
		_ = bus.Close()
		return nil, err
	}
	bus.logger.Info("Kafka event bus initialized", "brokers", brokers, "topic", cfg.Topic)
	return bus, nil
}

// Topic returns the topic events are published to.
func (b *KafkaEventBus) Topic() string { return b.topic }

// Emit publishes an event to Kafka.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	if b == nil || b.writer == nil {
		return fmt.Errorf("kafka event bus: writer not initialized")
	}
	msg, err := b.message(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	b.logger.Debug("event published", "event_type", event.Type(), "topic", b.topic)
	return nil
}

func (b *KafkaEventBus) message(event events.Event) (kafka.Message, error) {
	value, err := encodeEvent(event)
	if err != nil {
		return kafka.Message{}, err
	}
	headers := []kafka.Header{{Key: headerEventType, Value: []byte(event.Type())}}
	if id := eventID(event); id != "" {
		headers = append(headers, kafka.Header{Key: headerEventID, Value: []byte(id)})
	}
	return kafka.Message{
		Topic:   b.topic,
		Key:     []byte(eventKey(event)),
		Value:   value,
		Headers: headers,
		Time:    time.Now(),
	}, nil
}

// Close flushes and closes the writer.
func (b *KafkaEventBus) Close() error {
	if b == nil || b.writer == nil {
		return nil
	}
	return b.writer.Close()
}

func (b *KafkaEventBus) ping(ctx context.Context) error {
	conn, err := b.dialer.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()
	return nil
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
