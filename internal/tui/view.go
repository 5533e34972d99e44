package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/issueboard/internal/render"
)

const helpText = "/ search · s status · t type · a assignee · p reporter · c clear · r refresh · q quit"

var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Padding(0, 1)
)

// View renders the board with the active filter and key help
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if !m.loaded {
		view.Content = "Loading..."
		return view
	}

	var b strings.Builder
	b.WriteString(render.Board(m.lanes, render.BoardOptions{
		Title:     m.title,
		LaneWidth: m.laneWidth(),
		UserName:  m.view.UserName,
	}))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.filterSummary()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if m.mode == SearchMode {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(subtleStyle.Render(helpText))
	}

	view.Content = b.String()
	return view
}

func (m Model) laneWidth() int {
	if m.width <= 0 {
		return render.DefaultLaneWidth
	}
	return max(m.width/3, 20)
}

// filterSummary lists the set filter fields, or says nothing is filtered
func (m Model) filterSummary() string {
	var parts []string
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", m.filter.Search))
	}
	if m.filter.Status != "" {
		parts = append(parts, "status "+string(m.filter.Status))
	}
	if m.filter.Type != "" {
		parts = append(parts, "type "+string(m.filter.Type))
	}
	if m.filter.AssigneeID != "" {
		parts = append(parts, "assignee "+m.userLabel(m.filter.AssigneeID))
	}
	if m.filter.ReporterID != "" {
		parts = append(parts, "reporter "+m.userLabel(m.filter.ReporterID))
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return "Filters: " + strings.Join(parts, ", ")
}

func (m Model) userLabel(id string) string {
	if name := m.view.UserName(id); name != "" {
		return name
	}
	return id
}
