// Package render draws boards and issues for the terminal
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/models"
)

// DefaultLaneWidth is the width of one lane including its border
const DefaultLaneWidth = 36

const (
	subtle = "240"
	normal = "252"
	accent = "99"
)

var priorityColors = map[models.Priority]string{
	models.PriorityLow:    "108",
	models.PriorityMedium: "179",
	models.PriorityHigh:   "167",
}

// BoardOptions controls board layout
type BoardOptions struct {
	// Title is printed above the lanes when set
	Title string

	// LaneWidth defaults to DefaultLaneWidth
	LaneWidth int

	// UserName resolves assignee ids. Unresolved ids print as "unknown".
	UserName func(id string) string
}

// Board renders the three lanes side by side
//
//	To Do (2)            In Progress (0)      Done (1)
//	LOGI-250114          No issues            ...
//	Login bug
//	Bug · High · @ada
func Board(lanes board.Lanes, opts BoardOptions) string {
	width := opts.LaneWidth
	if width <= 0 {
		width = DefaultLaneWidth
	}

	columns := make([]string, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		columns = append(columns, renderLane(status, lanes.Lane(status), width, opts.UserName))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if opts.Title != "" {
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).Render(opts.Title)
		out = title + "\n" + out
	}
	if lanes.Unplaced > 0 {
		note := fmt.Sprintf("%d issue(s) with an unknown status are not shown", lanes.Unplaced)
		out += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)).Italic(true).Render(note)
	}
	return out
}

func renderLane(status models.Status, issues []*models.Issue, width int, userName func(string) string) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(normal)).
		Render(fmt.Sprintf("%s (%d)", status, len(issues)))

	// border and padding take four cells
	inner := max(width-4, 8)

	var body string
	if len(issues) == 0 {
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtle)).
			Italic(true).
			Padding(1, 0).
			Render("No issues")
	} else {
		cards := make([]string, 0, len(issues))
		for _, i := range issues {
			cards = append(cards, renderCard(i, inner, userName))
		}
		body = strings.Join(cards, "\n\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(subtle)).
		Padding(0, 1).
		Width(width).
		Render(header + "\n\n" + body)
}

func renderCard(i *models.Issue, width int, userName func(string) string) string {
	code := lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)).Render(i.Code)
	title := lipgloss.NewStyle().Bold(true).Render(wordwrap.String(i.Title, width))

	meta := []string{
		string(i.Type),
		lipgloss.NewStyle().Foreground(lipgloss.Color(priorityColor(i.Priority))).Render(string(i.Priority)),
		assigneeLabel(i, userName),
	}
	return code + "\n" + title + "\n" + strings.Join(meta, " · ")
}

func assigneeLabel(i *models.Issue, userName func(string) string) string {
	if i.AssigneeID == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)).Render("unassigned")
	}
	name := ""
	if i.Assignee != nil {
		name = i.Assignee.Name
	}
	if userName != nil {
		if n := userName(*i.AssigneeID); n != "" {
			name = n
		}
	}
	if name == "" {
		name = "unknown"
	}
	return "@" + name
}

func priorityColor(p models.Priority) string {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return normal
}
