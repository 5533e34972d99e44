package tui

import (
	tea "charm.land/bubbletea/v2"
	log "github.com/sirupsen/logrus"

	"github.com/thenoetrevino/issueboard/internal/board"
)

// Update is the bubbletea update function
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			log.WithError(msg.err).Warn("board refresh incomplete")
		}
		m.view = msg.view
		m.apply()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		if m.mode == SearchMode {
			return m.handleSearchMode(msg)
		}
		return m.handleNormalMode(msg)
	}
	return m, nil
}

func (m Model) handleNormalMode(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.mode = SearchMode
		m.search.SetValue(m.filter.Search)
		return m, m.search.Focus()
	case "s":
		m.cycleStatus()
	case "t":
		m.cycleType()
	case "a":
		m.cycleAssignee()
	case "p":
		m.cycleReporter()
	case "c", "esc":
		m.filter = board.Filter{}
		m.search.SetValue("")
	case "r":
		return m, m.refresh()
	default:
		return m, nil
	}
	m.apply()
	return m, nil
}

// handleSearchMode feeds keys to the search input and re-filters on every
// keystroke. Enter keeps the query, esc drops it.
func (m Model) handleSearchMode(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = NormalMode
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = NormalMode
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		m.apply()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Search = m.search.Value()
	m.apply()
	return m, cmd
}
