package ui

import (
	"slices"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{watcher: w}
		}
		return backendEventMsg{watcher: w, event: evt}
	}
}

type backendEventMsg struct {
	watcher *backend.Watcher
	event   backend.Event
}

type backendDoneMsg struct {
	watcher *backend.Watcher
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg := msg.(backendEventMsg)
	if eventMsg.watcher != m.backend {
		return nil
	}
	cmd := m.dispatch(backendAction(eventMsg.event))
	return tea.Batch(cmd, waitForBackendEvent(m.backend))
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	w := msg.(backendDoneMsg).watcher
	if w == m.backend {
		m.backend = nil
	}
	m.stopped = slices.DeleteFunc(m.stopped, func(s *backend.Watcher) bool { return s == w })
	return nil
}

// backendAction converts a poll result into the action the dispatcher merges.
func backendAction(evt backend.Event) action.Action {
	if evt.Err != nil {
		return action.RefreshFailed{Err: evt.Err}
	}
	return action.SetUnits{Units: evt.Units}
}

// startBackend launches a fresh watcher from the factory.
func (m *Model) startBackend() tea.Cmd {
	if m.newWatcher == nil || m.disp.Quitting() {
		return nil
	}
	m.backend = m.newWatcher()
	return waitForBackendEvent(m.backend)
}

// stopBackend cancels the active watcher. Its pump observes the closed channel
// and reports backendDoneMsg.
func (m *Model) stopBackend() {
	if m.backend == nil {
		return
	}
	m.backend.Stop()
	m.stopped = append(m.stopped, m.backend)
	m.backend = nil
}
