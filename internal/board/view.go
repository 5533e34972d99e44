package board

import (
	"context"

	"github.com/thenoetrevino/issueboard/internal/models"
)

// Source supplies the data a board is computed from
type Source interface {
	FetchIssuesForProject(ctx context.Context, projectID string) ([]*models.Issue, error)
	FetchUsers(ctx context.Context) ([]*models.User, error)
}

// View owns the most recent fetch result and filter for one project board.
// It is not safe for concurrent use; a single caller drives it.
type View struct {
	source    Source
	projectID string

	issues []*models.Issue
	users  []*models.User
	filter Filter
}

// NewView creates a board view for projectID backed by source
func NewView(source Source, projectID string) *View {
	return &View{source: source, projectID: projectID}
}

// Refresh replaces the view's issues and users with a fresh fetch. A failed
// issue fetch leaves the view with no issues, and a failed user fetch leaves
// it with no users; the first error is returned for reporting.
func (v *View) Refresh(ctx context.Context) error {
	var firstErr error

	issues, err := v.source.FetchIssuesForProject(ctx, v.projectID)
	if err != nil {
		issues = nil
		firstErr = err
	}
	v.issues = issues

	users, err := v.source.FetchUsers(ctx)
	if err != nil {
		users = nil
		if firstErr == nil {
			firstErr = err
		}
	}
	v.users = users

	return firstErr
}

// SetFilter replaces the active filter
func (v *View) SetFilter(f Filter) {
	v.filter = f
}

// Filter returns the active filter
func (v *View) Filter() Filter {
	return v.filter
}

// Lanes recomputes the lanes from the current issues and filter
func (v *View) Lanes() Lanes {
	return ComputeLanes(v.issues, v.filter)
}

// Users returns the users from the last refresh
func (v *View) Users() []*models.User {
	return v.users
}

// UserName resolves a user id to a display name, or "" when unknown
func (v *View) UserName(id string) string {
	for _, u := range v.users {
		if u.ID == id {
			return u.Name
		}
	}
	return ""
}
