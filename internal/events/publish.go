package events

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// PublishWithRetry attempts to publish an event with retry logic.
// It makes up to maxRetries attempts with exponential backoff and returns
// the error from the final attempt if all of them fail.
//
// Callers treat the returned error as non-fatal: the write that produced
// the event has already been committed.
func PublishWithRetry(ctx context.Context, publisher EventPublisher, event Event, maxRetries int) error {
	if publisher == nil {
		return nil // Silently skip if no publisher (e.g., in tests)
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := publisher.Publish(ctx, event)
		if err == nil {
			if attempt > 0 {
				log.WithFields(log.Fields{
					"attempt":    attempt + 1,
					"event_type": event.Type,
					"project_id": event.ProjectID,
				}).Debug("event published after retry")
			}
			return nil
		}

		lastErr = err

		// Don't sleep after the last attempt
		if attempt < maxRetries-1 {
			// Exponential backoff: 50ms, 100ms, 200ms
			delay := baseDelay * (1 << attempt)
			log.WithFields(log.Fields{
				"attempt":     attempt + 1,
				"max_retries": maxRetries,
				"retry_delay": delay,
			}).WithError(err).Debug("event publish failed, retrying")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	// Log final failure at warn level since this affects cached reads
	log.WithFields(log.Fields{
		"attempts":   maxRetries,
		"event_type": event.Type,
		"project_id": event.ProjectID,
	}).WithError(lastErr).Warn("event publish failed after all retries")

	return lastErr
}
