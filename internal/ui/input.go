package ui

import (
	"unicode"

	"github.com/atomicstack/systemctl-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateSearchCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.searchCursor, cmd = m.searchCursor.Update(msg)
	return cmd
}

func (m *Model) noteSearchCursorChange(before int) {
	if before != m.search.Cursor() {
		m.searchCursorDirty = true
	}
}

// editSearch applies an editing key to the search box. It reports whether the
// text changed; caret-only moves are absorbed without touching the registry.
func (m *Model) editSearch(msg tea.KeyMsg) bool {
	before := m.search.Cursor()
	defer m.noteSearchCursorChange(before)

	switch msg.String() {
	case "ctrl+w", "alt+backspace":
		if m.search.DeleteWordBackward() {
			events.Filter.WordBackspace(m.search.Text())
			return true
		}
		return false
	case "ctrl+k":
		if m.search.Clear() {
			events.Filter.Cleared()
			return true
		}
		return false
	case "ctrl+a":
		if m.search.MoveStart() {
			events.Filter.Cursor(m.search.Cursor())
		}
		return false
	case "ctrl+e":
		if m.search.MoveEnd() {
			events.Filter.Cursor(m.search.Cursor())
		}
		return false
	case "alt+b":
		if m.search.MoveWordLeft() {
			events.Filter.Cursor(m.search.Cursor())
		}
		return false
	case "alt+f":
		if m.search.MoveWordRight() {
			events.Filter.Cursor(m.search.Cursor())
		}
		return false
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if m.search.DeleteBackward() {
			events.Filter.Backspace(m.search.Text())
			return true
		}
	case tea.KeyDelete:
		if m.search.DeleteForward() {
			events.Filter.Backspace(m.search.Text())
			return true
		}
	case tea.KeyLeft:
		if m.search.MoveLeft() {
			events.Filter.Cursor(m.search.Cursor())
		}
	case tea.KeyRight:
		if m.search.MoveRight() {
			events.Filter.Cursor(m.search.Cursor())
		}
	case tea.KeySpace:
		if m.search.Insert(" ") {
			events.Filter.Append(m.search.Text())
			return true
		}
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		if m.search.Insert(string(msg.Runes)) {
			events.Filter.Append(m.search.Text())
			return true
		}
	}
	return false
}
