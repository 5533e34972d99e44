package app

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
	issueservice "github.com/thenoetrevino/issueboard/internal/services/issue"
	"github.com/thenoetrevino/issueboard/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Create app with no options: owns its bus, no cache
	app := New(db)
	defer func() { _ = app.Close() }()

	if app.UserService == nil {
		t.Error("Expected UserService to be initialized")
	}
	if app.ProjectService == nil {
		t.Error("Expected ProjectService to be initialized")
	}
	if app.IssueService == nil {
		t.Error("Expected IssueService to be initialized")
	}
	if app.CommentService == nil {
		t.Error("Expected CommentService to be initialized")
	}
	if app.Events() == nil {
		t.Error("Expected an event publisher")
	}
	if app.CacheEnabled() {
		t.Error("Expected cache to be disabled without redis")
	}
}

func TestNew_UsesProvidedPublisher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	bus := events.NewBus()

	app := New(db, WithEventPublisher(bus))
	if app.Events() != bus {
		t.Error("Expected the provided publisher to be used")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// A publisher the App did not create stays open
	if err := bus.Publish(context.Background(), events.Event{Type: events.EventUserChanged}); err != nil {
		t.Errorf("Expected provided bus to remain open, got %v", err)
	}
}

func TestClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := New(db)

	if err := app.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got error: %v", err)
	}
}

func TestCacheEvictedByServiceWrites(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db := testutil.SetupTestDB(t)
	app := New(db, WithRedis(client, time.Minute))
	defer func() { _ = app.Close() }()
	if !app.CacheEnabled() {
		t.Fatal("Expected cache to be enabled")
	}

	ctx := context.Background()
	u := testutil.CreateTestUser(t, db, "ada")
	p := testutil.CreateTestProject(t, db, "Board")

	lanes, err := app.IssueService.Board(ctx, p.ID, board.Filter{})
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if lanes.Placed() != 0 {
		t.Fatalf("Expected empty board, got %d issues", lanes.Placed())
	}

	if _, err := app.IssueService.CreateIssue(ctx, issueservice.CreateIssueRequest{
		Title:      "Fresh",
		Status:     models.StatusInProgress,
		ProjectID:  p.ID,
		ReporterID: u.ID,
	}); err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}

	lanes, err = app.IssueService.Board(ctx, p.ID, board.Filter{})
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(lanes.InProgress) != 1 || lanes.InProgress[0].Title != "Fresh" {
		t.Errorf("Expected the new issue after the cache was evicted, got %+v", lanes.InProgress)
	}
}
