package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Bus is an in-process event publisher. Handlers run synchronously on the
// publishing goroutine, so once Publish returns every subscriber has seen
// the event.
type Bus struct {
	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
	closed   bool

	lastSequence atomic.Int64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Publish stamps event with a sequence number and timestamp and hands it to
// every subscriber. Handler errors are joined and returned; a failing
// handler does not stop the others.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if b == nil {
		return ErrNilBus
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	event.SequenceID = b.lastSequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	log.WithFields(log.Fields{
		"type":       event.Type,
		"op":         event.Op,
		"project_id": event.ProjectID,
		"entity_id":  event.EntityID,
		"sequence":   event.SequenceID,
	}).Debug("publishing event")

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (b *Bus) Subscribe(handler Handler) func() {
	if b == nil || handler == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// LastSequence returns the sequence number of the most recent event
func (b *Bus) LastSequence() int64 {
	if b == nil {
		return 0
	}
	return b.lastSequence.Load()
}

// Close drops all subscribers and rejects further events
func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[int]Handler)
	return nil
}
