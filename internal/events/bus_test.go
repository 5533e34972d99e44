package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ============================================================================
// Bus Tests
// ============================================================================

func TestBus_PublishReachesEverySubscriber(t *testing.T) {
	t.Parallel()
	bus := NewBus()

	var got []Event
	var mu sync.Mutex
	record := func(_ context.Context, e Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
		return nil
	}
	bus.Subscribe(record)
	bus.Subscribe(record)

	err := bus.Publish(context.Background(), Event{Type: EventIssueChanged, Op: OpCreated, ProjectID: "p1", EntityID: "i1"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ProjectID)
	assert.Equal(t, int64(1), got[0].SequenceID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestBus_SequenceIsMonotonic(t *testing.T) {
	t.Parallel()
	bus := NewBus()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), Event{Type: EventUserChanged})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), bus.LastSequence())
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventProjectChanged}))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventProjectChanged}))

	assert.Equal(t, 1, calls)
}

func TestBus_HandlerErrorsAreJoined(t *testing.T) {
	t.Parallel()
	bus := NewBus()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	reached := false
	bus.Subscribe(func(context.Context, Event) error { return errA })
	bus.Subscribe(func(context.Context, Event) error { reached = true; return nil })
	bus.Subscribe(func(context.Context, Event) error { return errB })

	err := bus.Publish(context.Background(), Event{Type: EventCommentChanged})

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, reached, "a failing handler must not stop the others")
}

func TestBus_ClosedRejectsEvents(t *testing.T) {
	t.Parallel()
	bus := NewBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(context.Background(), Event{Type: EventIssueChanged})
	assert.ErrorIs(t, err, ErrBusClosed)
}

// TestNilBusMethods verifies that calling methods on a nil *Bus doesn't panic
func TestNilBusMethods(t *testing.T) {
	t.Parallel()
	var bus *Bus

	assert.ErrorIs(t, bus.Publish(context.Background(), Event{}), ErrNilBus)
	assert.NotPanics(t, func() { bus.Subscribe(func(context.Context, Event) error { return nil })() })
	assert.Zero(t, bus.LastSequence())
	assert.NoError(t, bus.Close())
}

// ============================================================================
// PublishWithRetry Tests
// ============================================================================

type flakyPublisher struct {
	attempts  int
	failUntil int
	lastEvent Event
}

func (f *flakyPublisher) Publish(_ context.Context, event Event) error {
	f.lastEvent = event
	current := f.attempts
	f.attempts++
	if current < f.failUntil {
		return errors.New("simulated publish failure")
	}
	return nil
}

func (f *flakyPublisher) Subscribe(Handler) func() { return func() {} }

func TestPublishWithRetry_Success(t *testing.T) {
	t.Parallel()
	pub := &flakyPublisher{}

	err := PublishWithRetry(context.Background(), pub, Event{Type: EventIssueChanged, ProjectID: "p1"}, 3)

	require.NoError(t, err)
	assert.Equal(t, 1, pub.attempts)
	assert.Equal(t, "p1", pub.lastEvent.ProjectID)
}

func TestPublishWithRetry_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	pub := &flakyPublisher{failUntil: 2}

	err := PublishWithRetry(context.Background(), pub, Event{Type: EventIssueChanged}, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, pub.attempts)
}

func TestPublishWithRetry_AllAttemptsFail(t *testing.T) {
	t.Parallel()
	pub := &flakyPublisher{failUntil: 10}

	err := PublishWithRetry(context.Background(), pub, Event{Type: EventIssueChanged}, 2)

	require.Error(t, err)
	assert.Equal(t, 2, pub.attempts)
}

func TestPublishWithRetry_NilPublisher(t *testing.T) {
	t.Parallel()
	assert.NoError(t, PublishWithRetry(context.Background(), nil, Event{}, 3))
}

func TestPublishWithRetry_CancelledContext(t *testing.T) {
	t.Parallel()
	pub := &flakyPublisher{failUntil: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := PublishWithRetry(ctx, pub, Event{Type: EventIssueChanged}, 5)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, pub.attempts)
}
