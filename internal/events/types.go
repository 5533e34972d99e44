package events

import (
	"context"
	"time"
)

// EventType indicates what kind of change occurred
type EventType string

const (
	EventUserChanged    EventType = "user_changed"
	EventProjectChanged EventType = "project_changed"
	EventIssueChanged   EventType = "issue_changed"
	EventCommentChanged EventType = "comment_changed"
)

// Op names the write that produced an event
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Event represents a database change notification
type Event struct {
	Type       EventType
	Op         Op
	ProjectID  string    // Project the change belongs to, empty for users
	EntityID   string    // ID of the changed row
	Timestamp  time.Time // When the event occurred
	SequenceID int64     // Monotonically increasing sequence number for ordering
}

// Handler reacts to a published event. A returned error is reported back to
// the publisher.
type Handler func(ctx context.Context, event Event) error
