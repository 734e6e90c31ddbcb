package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/bankdemo/pkg/domain/events"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
)

// Metadata travels next to the payload (Kafka headers, stream fields) so the
// payload itself stays exactly what consumers decode.
const (
	headerEventType = "event-type"
	headerEventID   = "event-id"
)

// encodeEvent returns the bare JSON payload of an event.
func encodeEvent(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.Type(), err)
	}
	return data, nil
}

func eventKey(event events.Event) string {
	if k, ok := event.(eventbus.Keyed); ok {
		return k.Key()
	}
	return event.Type()
}

func eventID(event events.Event) string {
	if i, ok := event.(interface{ EventID() string }); ok {
		return i.EventID()
	}
	return ""
}
