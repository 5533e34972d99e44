package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/issueboard/internal/models"
)

type fakeSource struct {
	issues    []*models.Issue
	users     []*models.User
	issuesErr error
	usersErr  error

	lastProject string
}

func (f *fakeSource) FetchIssuesForProject(_ context.Context, projectID string) ([]*models.Issue, error) {
	f.lastProject = projectID
	if f.issuesErr != nil {
		return nil, f.issuesErr
	}
	return f.issues, nil
}

func (f *fakeSource) FetchUsers(context.Context) ([]*models.User, error) {
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return f.users, nil
}

func TestView_RefreshAndFilter(t *testing.T) {
	src := &fakeSource{
		issues: fixture(),
		users:  []*models.User{{ID: "a1", Name: "Ada"}, {ID: "a2", Name: "Grace"}},
	}
	v := NewView(src, "proj-1")

	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, "proj-1", src.lastProject)

	lanes := v.Lanes()
	assert.Equal(t, len(fixture()), lanes.Placed()+lanes.Unplaced)

	v.SetFilter(Filter{AssigneeID: "a2"})
	lanes = v.Lanes()
	assert.Equal(t, []string{"3"}, ids(lanes.InProgress))
	assert.Equal(t, "a2", v.Filter().AssigneeID)

	assert.Equal(t, "Grace", v.UserName("a2"))
	assert.Equal(t, "", v.UserName("missing"))
	assert.Len(t, v.Users(), 2)
}

func TestView_FailedIssueFetchRendersEmptyLanes(t *testing.T) {
	src := &fakeSource{issues: fixture()}
	v := NewView(src, "proj-1")
	require.NoError(t, v.Refresh(context.Background()))
	require.NotZero(t, v.Lanes().Placed())

	src.issuesErr = errors.New("connection refused")
	err := v.Refresh(context.Background())

	assert.ErrorIs(t, err, src.issuesErr)
	lanes := v.Lanes()
	assert.Zero(t, lanes.Placed())
	assert.NotNil(t, lanes.ToDo)
	assert.NotNil(t, lanes.InProgress)
	assert.NotNil(t, lanes.Done)
}

func TestView_FailedUserFetchKeepsIssues(t *testing.T) {
	usersErr := errors.New("users unavailable")
	src := &fakeSource{issues: fixture(), usersErr: usersErr}
	v := NewView(src, "proj-1")

	err := v.Refresh(context.Background())

	assert.ErrorIs(t, err, usersErr)
	assert.NotZero(t, v.Lanes().Placed())
	assert.Empty(t, v.Users())
}
