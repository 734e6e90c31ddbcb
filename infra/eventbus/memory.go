package eventbus

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
)

const defaultMemoryHistory = 1000

// MemoryEventBus keeps published events in process. It is the bus used when
// no broker is configured and it remembers the most recent events.
type MemoryEventBus struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	limit     int
	published []events.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryEventBus{
		logger: logger.With("bus", "memory"),
		limit:  defaultMemoryHistory,
	}
}

// Emit records the event, dropping the oldest one past the history limit.
func (b *MemoryEventBus) Emit(_ context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	if over := len(b.published) - b.limit; over > 0 {
		b.published = slices.Delete(b.published, 0, over)
	}
	b.mu.Unlock()

	b.logger.Info("event published", "event_type", event.Type(), "key", eventKey(event))
	return nil
}

// Published returns a copy of the retained events, oldest first.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.published)
}

// ClearPublished forgets the events emitted so far.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
