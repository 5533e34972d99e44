package events

import "errors"

var (
	// ErrBusClosed is returned when publishing on a closed bus
	ErrBusClosed = errors.New("event bus is closed")

	// ErrNilBus is returned when publishing on a nil bus
	ErrNilBus = errors.New("event bus is nil")
)
