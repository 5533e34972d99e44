// Package tui is the interactive board: a bubbletea program over board.View
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/models"
)

const fetchTimeout = 15 * time.Second

// Mode is what keystrokes currently drive
type Mode int

const (
	NormalMode Mode = iota
	SearchMode
)

// refreshedMsg carries a freshly fetched view back into Update
type refreshedMsg struct {
	view *board.View
	err  error
}

// Model owns one project's board and its filter. Opening another project
// means building a new Model, so filters never carry over.
type Model struct {
	ctx       context.Context
	source    board.Source
	projectID string
	title     string

	view   *board.View
	filter board.Filter
	lanes  board.Lanes

	mode   Mode
	search textinput.Model

	width  int
	loaded bool
	err    error
}

// New creates the board model for projectID. title is shown above the lanes.
func New(ctx context.Context, source board.Source, projectID, title string) Model {
	ti := textinput.New()
	ti.Placeholder = "title, description or code"
	ti.Prompt = "/ "

	return Model{
		ctx:       ctx,
		source:    source,
		projectID: projectID,
		title:     title,
		view:      board.NewView(source, projectID),
		search:    ti,
	}
}

// WithFilter returns m starting from filter f, e.g. one taken from flags
func (m Model) WithFilter(f board.Filter) Model {
	m.filter = f
	m.search.SetValue(f.Search)
	return m
}

// Init starts the first fetch
func (m Model) Init() tea.Cmd {
	return m.refresh()
}

// Filter returns the active filter
func (m Model) Filter() board.Filter {
	return m.filter
}

// Lanes returns the lanes computed from the latest fetch and filter
func (m Model) Lanes() board.Lanes {
	return m.lanes
}

// Mode returns the current input mode
func (m Model) Mode() Mode {
	return m.mode
}

// Err returns the error from the latest fetch, if any
func (m Model) Err() error {
	return m.err
}

// refresh fetches into a new View so the running model is never touched
// from the command goroutine
func (m Model) refresh() tea.Cmd {
	ctx, source, projectID := m.ctx, m.source, m.projectID
	return func() tea.Msg {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		v := board.NewView(source, projectID)
		err := v.Refresh(fetchCtx)
		return refreshedMsg{view: v, err: err}
	}
}

// apply recomputes the lanes after any data or filter change
func (m *Model) apply() {
	m.view.SetFilter(m.filter)
	m.lanes = m.view.Lanes()
}

func (m *Model) cycleStatus() {
	m.filter.Status = next(append([]models.Status{""}, models.Statuses...), m.filter.Status)
}

func (m *Model) cycleType() {
	m.filter.Type = next(append([]models.IssueType{""}, models.IssueTypes...), m.filter.Type)
}

func (m *Model) cycleAssignee() {
	ids := []string{""}
	for _, u := range m.view.Users() {
		ids = append(ids, u.ID)
	}
	m.filter.AssigneeID = next(ids, m.filter.AssigneeID)
}

func (m *Model) cycleReporter() {
	ids := []string{""}
	for _, u := range m.view.Users() {
		ids = append(ids, u.ID)
	}
	m.filter.ReporterID = next(ids, m.filter.ReporterID)
}

// next returns the value after current in values, wrapping around. An
// unknown current value restarts at the first entry.
func next[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
