package events

import "context"

// EventPublisher defines the interface for publishing change events.
// Services depend on this rather than on *Bus so tests can pass a fake or nil.
type EventPublisher interface {
	// Publish delivers event to every subscriber
	Publish(ctx context.Context, event Event) error

	// Subscribe registers handler and returns a function that removes it
	Subscribe(handler Handler) (unsubscribe func())
}

// Compile-time verification that *Bus implements EventPublisher
var _ EventPublisher = (*Bus)(nil)
