package eventbus

import (
	"context"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
)

// Bus publishes events to whoever consumes them downstream.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
}
