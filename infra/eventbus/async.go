package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
)

// ErrBusClosed is returned by Emit after Close.
var ErrBusClosed = errors.New("event bus closed")

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// AsyncEventBus makes Emit fire-and-forget: events are queued and published
// by a background worker. Events that cannot be queued or published are
// handed to the dead-letter recorder.
type AsyncEventBus struct {
	next       eventbus.Bus
	name       string
	deadLetter eventbus.DeadLetterRecorder
	queue      chan queuedEvent
	logger     *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAsync wraps next. name identifies the underlying bus in dead letters.
// deadLetter may be nil, in which case failures are only logged.
func NewAsync(next eventbus.Bus, name string, queueSize int, deadLetter eventbus.DeadLetterRecorder, logger *slog.Logger) *AsyncEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	b := &AsyncEventBus{
		next:       next,
		name:       name,
		deadLetter: deadLetter,
		queue:      make(chan queuedEvent, queueSize),
		logger:     logger.With("bus", "async", "target", name),
		done:       make(chan struct{}),
	}
	go b.process()
	return b
}

// Emit queues the event and returns immediately. A full queue drops the
// event into the dead-letter store instead of blocking the caller.
func (b *AsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		err := fmt.Errorf("event queue full (%d)", cap(b.queue))
		b.logger.Warn("dropping event", "event_type", event.Type(), "error", err)
		b.recordDeadLetter(ctx, event, err)
		return nil
	}
}

// Close stops accepting events and waits until the queue is drained or ctx
// is done.
func (b *AsyncEventBus) Close(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *AsyncEventBus) process() {
	defer close(b.done)
	for item := range b.queue {
		b.publish(item)
	}
}

func (b *AsyncEventBus) publish(item queuedEvent) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while publishing: %v", r)
			b.logger.Error("publish panic recovered", "event_type", item.event.Type(), "panic", r)
			b.recordDeadLetter(item.ctx, item.event, err)
		}
	}()
	if err := b.next.Emit(item.ctx, item.event); err != nil {
		b.logger.Error("failed to publish event", "event_type", item.event.Type(), "error", err)
		b.recordDeadLetter(item.ctx, item.event, err)
		return
	}
	b.logger.Debug("event published", "event_type", item.event.Type())
}

func (b *AsyncEventBus) recordDeadLetter(ctx context.Context, event events.Event, cause error) {
	if b.deadLetter == nil {
		return
	}
	payload, err := encodeEvent(event)
	if err != nil {
		b.logger.Error("failed to encode dead letter", "event_type", event.Type(), "error", err)
	}
	letter := eventbus.DeadLetter{
		Bus:       b.name,
		EventType: event.Type(),
		Key:       eventKey(event),
		Payload:   payload,
		Err:       cause,
		FailedAt:  time.Now().UTC(),
	}
	if t, ok := b.next.(interface{ Topic() string }); ok {
		letter.Topic = t.Topic()
	}
	if err := b.deadLetter.Record(context.WithoutCancel(ctx), letter); err != nil {
		b.logger.Error("failed to record dead letter", "event_type", event.Type(), "error", err)
	}
}

var _ eventbus.Bus = (*AsyncEventBus)(nil)
