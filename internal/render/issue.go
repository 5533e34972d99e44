package render

import (
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/thenoetrevino/issueboard/internal/models"
)

// DefaultIssueWidth is the wrap width for issue details
const DefaultIssueWidth = 80

const timeLayout = "Jan 2, 2006 3:04 PM"

// glamour renderers are costly to build, so keep one per width
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	actual, _ := rendererCache.LoadOrStore(width, renderer)
	return actual.(*glamour.TermRenderer), nil
}

// Issue renders an issue's header, fields, markdown description and
// comments. userName resolves ids when the issue carries no embedded users
// and may be nil.
func Issue(i *models.Issue, width int, userName func(id string) string) string {
	if width <= 0 {
		width = DefaultIssueWidth
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)).Render(i.Code))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).Render(wordwrap.String(i.Title, width)))
	b.WriteString("\n\n")

	reporter := "unknown"
	if i.Reporter != nil {
		reporter = i.Reporter.Name
	} else if userName != nil {
		if n := userName(i.ReporterID); n != "" {
			reporter = n
		}
	}

	fields := [][2]string{
		{"Status", string(i.Status)},
		{"Type", string(i.Type)},
		{"Priority", string(i.Priority)},
		{"Reporter", reporter},
		{"Assignee", strings.TrimPrefix(assigneeLabel(i, userName), "@")},
		{"Created", i.CreatedAt.Local().Format(timeLayout)},
		{"Updated", i.UpdatedAt.Local().Format(timeLayout)},
	}
	for _, f := range fields {
		b.WriteString(renderField(f[0], f[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle().Render("Description"))
	b.WriteString("\n")
	b.WriteString(renderDescription(i.Description, width))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle().Render(fmt.Sprintf("Comments (%d)", len(i.Comments))))
	if len(i.Comments) == 0 {
		b.WriteString("\n")
		b.WriteString(emptyStyle().Render("No comments"))
	}
	for _, c := range i.Comments {
		b.WriteString("\n")
		b.WriteString(renderComment(c, width, userName))
	}
	return b.String()
}

func renderField(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(subtle)).
		Bold(true).
		Width(10)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(normal))
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func renderDescription(description string, width int) string {
	if strings.TrimSpace(description) == "" {
		return emptyStyle().Render("No description")
	}
	renderer, err := getRenderer(width)
	if err != nil {
		return description
	}
	out, err := renderer.Render(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(out)
}

// renderComment draws one comment as a bordered card
//
//	╭──────────────────────────────────────╮
//	│ ada  Jan 2, 2025 3:04 PM (edited)    │
//	│ looks good to me                     │
//	╰──────────────────────────────────────╯
func renderComment(c *models.Comment, width int, userName func(string) string) string {
	author := "unknown"
	if c.User != nil {
		author = c.User.Name
	} else if userName != nil {
		if n := userName(c.UserID); n != "" {
			author = n
		}
	}

	header := lipgloss.NewStyle().Bold(true).Render(author) + "  " +
		lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)).Render(c.CreatedAt.Local().Format(timeLayout))
	if c.UpdatedAt.After(c.CreatedAt) {
		header += " " + emptyStyle().Render("(edited)")
	}

	inner := max(width-4, 8)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(subtle)).
		Padding(0, 1).
		Width(width).
		Render(header + "\n" + wordwrap.String(c.Content, inner))
}

func sectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true)
}

func emptyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(subtle)).Italic(true)
}
