package issue

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/database"
	"github.com/thenoetrevino/issueboard/internal/events"
	"github.com/thenoetrevino/issueboard/internal/models"
	"github.com/thenoetrevino/issueboard/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type fixture struct {
	db       *sql.DB
	svc      Service
	bus      *events.Bus
	reporter *models.User
	project  *models.Project
}

func setup(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	bus := events.NewBus()
	f := &fixture{
		db:       db,
		svc:      NewService(database.NewRepository(db), bus, opts...),
		bus:      bus,
		reporter: testutil.CreateTestUser(t, db, "reporter"),
		project:  testutil.CreateTestProject(t, db, "Board"),
	}
	f.svc.(*service).now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) create(t *testing.T, title string, status models.Status) *models.Issue {
	t.Helper()
	i, err := f.svc.CreateIssue(context.Background(), CreateIssueRequest{
		Title:      title,
		Status:     status,
		ProjectID:  f.project.ID,
		ReporterID: f.reporter.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create issue %s: %v", title, err)
	}
	return i
}

func strPtr(s string) *string { return &s }

// countingLister records how often project issues were loaded
type countingLister struct {
	inner Lister
	calls int
}

func (c *countingLister) ListIssuesByProject(ctx context.Context, projectID string) ([]*models.Issue, error) {
	c.calls++
	return c.inner.ListIssuesByProject(ctx, projectID)
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateIssue_AppliesDefaults(t *testing.T) {
	t.Parallel()
	f := setup(t)

	i := f.create(t, "Login bug", "")

	if i.Type != models.TypeTask || i.Status != models.StatusToDo || i.Priority != models.PriorityMedium {
		t.Errorf("Expected defaults Task/To Do/Medium, got %s/%s/%s", i.Type, i.Status, i.Priority)
	}
	if i.Code != "LOGI-240101" {
		t.Errorf("Expected generated code LOGI-240101, got %q", i.Code)
	}
	if i.Reporter == nil || i.Reporter.ID != f.reporter.ID {
		t.Errorf("Expected reporter summary, got %+v", i.Reporter)
	}
	if i.AssigneeID != nil {
		t.Errorf("Expected no assignee, got %v", *i.AssigneeID)
	}
}

func TestCreateIssue_Validation(t *testing.T) {
	t.Parallel()
	f := setup(t)
	ctx := context.Background()
	base := func() CreateIssueRequest {
		return CreateIssueRequest{Title: "t", ProjectID: f.project.ID, ReporterID: f.reporter.ID}
	}

	tests := []struct {
		name   string
		mutate func(*CreateIssueRequest)
		want   error
	}{
		{"empty title", func(r *CreateIssueRequest) { r.Title = "  " }, ErrEmptyTitle},
		{"bad type", func(r *CreateIssueRequest) { r.Type = "Epic" }, ErrInvalidType},
		{"bad status", func(r *CreateIssueRequest) { r.Status = "Blocked" }, ErrInvalidStatus},
		{"bad priority", func(r *CreateIssueRequest) { r.Priority = "Critical" }, ErrInvalidPriority},
		{"no project", func(r *CreateIssueRequest) { r.ProjectID = "" }, ErrMissingProject},
		{"no reporter", func(r *CreateIssueRequest) { r.ReporterID = "" }, ErrMissingReporter},
		{"unknown project", func(r *CreateIssueRequest) { r.ProjectID = "missing" }, ErrProjectNotFound},
		{"unknown reporter", func(r *CreateIssueRequest) { r.ReporterID = "missing" }, ErrReporterNotFound},
		{"unknown assignee", func(r *CreateIssueRequest) { r.AssigneeID = strPtr("missing") }, ErrAssigneeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(&req)
			if _, err := f.svc.CreateIssue(ctx, req); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateIssue_EmptyAssigneeMeansUnassigned(t *testing.T) {
	t.Parallel()
	f := setup(t)

	i, err := f.svc.CreateIssue(context.Background(), CreateIssueRequest{
		Title: "t", ProjectID: f.project.ID, ReporterID: f.reporter.ID, AssigneeID: strPtr(""),
	})
	if err != nil {
		t.Fatalf("CreateIssue failed: %v", err)
	}
	if i.AssigneeID != nil {
		t.Errorf("Expected no assignee, got %v", *i.AssigneeID)
	}
}

// ============================================================================
// READ / UPDATE / DELETE
// ============================================================================

func TestGetIssueByID_EmbedsComments(t *testing.T) {
	t.Parallel()
	f := setup(t)
	i := f.create(t, "Fix", models.StatusToDo)
	repo := database.NewRepository(f.db)
	for _, c := range []string{"first", "second"} {
		if _, err := repo.CreateComment(context.Background(), i.ID, f.reporter.ID, c); err != nil {
			t.Fatalf("CreateComment failed: %v", err)
		}
	}

	got, err := f.svc.GetIssueByID(context.Background(), i.ID)
	if err != nil {
		t.Fatalf("GetIssueByID failed: %v", err)
	}
	if len(got.Comments) != 2 || got.Comments[0].Content != "first" {
		t.Errorf("Expected comments oldest first, got %+v", got.Comments)
	}

	if _, err := f.svc.GetIssueByID(context.Background(), "missing"); !errors.Is(err, ErrIssueNotFound) {
		t.Errorf("Expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpdateIssue_AssignThenDisconnect(t *testing.T) {
	t.Parallel()
	f := setup(t)
	i := f.create(t, "Fix", models.StatusToDo)
	assignee := testutil.CreateTestUser(t, f.db, "assignee")
	ctx := context.Background()

	updated, err := f.svc.UpdateIssue(ctx, UpdateIssueRequest{ID: i.ID, AssigneeID: &assignee.ID})
	if err != nil {
		t.Fatalf("UpdateIssue failed: %v", err)
	}
	if !updated.AssignedTo(assignee.ID) {
		t.Errorf("Expected assignee %s", assignee.ID)
	}

	cleared, err := f.svc.UpdateIssue(ctx, UpdateIssueRequest{ID: i.ID, AssigneeID: strPtr("")})
	if err != nil {
		t.Fatalf("UpdateIssue failed: %v", err)
	}
	if cleared.AssigneeID != nil {
		t.Errorf("Expected assignee removed, got %v", *cleared.AssigneeID)
	}

	if _, err := f.svc.UpdateIssue(ctx, UpdateIssueRequest{ID: i.ID, AssigneeID: strPtr("missing")}); !errors.Is(err, ErrAssigneeNotFound) {
		t.Errorf("Expected ErrAssigneeNotFound, got %v", err)
	}
}

func TestUpdateIssue_Validation(t *testing.T) {
	t.Parallel()
	f := setup(t)
	i := f.create(t, "Fix", models.StatusToDo)
	ctx := context.Background()

	bad := models.Status("Blocked")
	if _, err := f.svc.UpdateIssue(ctx, UpdateIssueRequest{ID: i.ID, Status: &bad}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	if _, err := f.svc.UpdateIssue(ctx, UpdateIssueRequest{ID: i.ID, Title: strPtr(" ")}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
	if _, err := f.svc.UpdateIssue(ctx, UpdateIssueRequest{ID: "missing", Title: strPtr("x")}); !errors.Is(err, ErrIssueNotFound) {
		t.Errorf("Expected ErrIssueNotFound, got %v", err)
	}
}

func TestUpdateIssue_MovePublishesForBothProjects(t *testing.T) {
	t.Parallel()
	f := setup(t)
	i := f.create(t, "Fix", models.StatusToDo)
	other := testutil.CreateTestProject(t, f.db, "Other")

	var projects []string
	f.bus.Subscribe(func(_ context.Context, e events.Event) error {
		projects = append(projects, e.ProjectID)
		return nil
	})

	if _, err := f.svc.UpdateIssue(context.Background(), UpdateIssueRequest{ID: i.ID, ProjectID: &other.ID}); err != nil {
		t.Fatalf("UpdateIssue failed: %v", err)
	}
	if len(projects) != 2 || projects[0] != f.project.ID || projects[1] != other.ID {
		t.Errorf("Expected events for old then new project, got %v", projects)
	}
}

func TestDeleteIssue(t *testing.T) {
	t.Parallel()
	f := setup(t)
	i := f.create(t, "Fix", models.StatusToDo)

	var deleted []events.Event
	f.bus.Subscribe(func(_ context.Context, e events.Event) error {
		deleted = append(deleted, e)
		return nil
	})

	if err := f.svc.DeleteIssue(context.Background(), i.ID); err != nil {
		t.Fatalf("DeleteIssue failed: %v", err)
	}
	if len(deleted) != 1 || deleted[0].Op != events.OpDeleted || deleted[0].ProjectID != f.project.ID {
		t.Errorf("Expected one delete event, got %+v", deleted)
	}
	if err := f.svc.DeleteIssue(context.Background(), i.ID); !errors.Is(err, ErrIssueNotFound) {
		t.Errorf("Expected ErrIssueNotFound, got %v", err)
	}
}

// ============================================================================
// BOARD
// ============================================================================

func TestBoard(t *testing.T) {
	t.Parallel()
	f := setup(t)
	a := f.create(t, "Login bug", models.StatusToDo)
	b := f.create(t, "Signup flow", models.StatusInProgress)
	c := f.create(t, "Logout", models.StatusDone)
	f.create(t, "Unrelated", models.StatusDone)

	lanes, err := f.svc.Board(context.Background(), f.project.ID, board.Filter{Search: "log"})
	if err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if len(lanes.ToDo) != 1 || lanes.ToDo[0].ID != a.ID {
		t.Errorf("Unexpected To Do lane: %+v", lanes.ToDo)
	}
	if len(lanes.InProgress) != 0 {
		t.Errorf("Expected empty In Progress lane, got %d (%s)", len(lanes.InProgress), b.ID)
	}
	if len(lanes.Done) != 1 || lanes.Done[0].ID != c.ID {
		t.Errorf("Unexpected Done lane: %+v", lanes.Done)
	}

	if _, err := f.svc.Board(context.Background(), "missing", board.Filter{}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestBoard_ReadsThroughLister(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	repo := database.NewRepository(db)
	lister := &countingLister{inner: repo}
	svc := NewService(repo, nil, WithLister(lister))
	p := testutil.CreateTestProject(t, db, "Board")

	if _, err := svc.Board(context.Background(), p.ID, board.Filter{}); err != nil {
		t.Fatalf("Board failed: %v", err)
	}
	if _, err := svc.GetIssuesByProject(context.Background(), p.ID); err != nil {
		t.Fatalf("GetIssuesByProject failed: %v", err)
	}
	if lister.calls != 2 {
		t.Errorf("Expected 2 lister calls, got %d", lister.calls)
	}
}
