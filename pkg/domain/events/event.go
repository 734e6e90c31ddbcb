package events

// Event is anything that can be published on the event bus.
type Event interface {
	Type() string
}
