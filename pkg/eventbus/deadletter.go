package eventbus

import (
	"context"
	"time"
)

// DeadLetter is an event that could not be published.
type DeadLetter struct {
	Bus       string
	Topic     string
	EventType string
	Key       string
	Payload   []byte
	Err       error
	FailedAt  time.Time
}

// DeadLetterRecorder keeps events that could not be published so they can be
// inspected or replayed later.
type DeadLetterRecorder interface {
	Record(ctx context.Context, letter DeadLetter) error
}

// Keyed is implemented by events that carry a partitioning key.
type Keyed interface {
	Key() string
}
