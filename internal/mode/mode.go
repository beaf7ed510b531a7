// Package mode implements the UI mode state machine and its key table.
package mode

// Mode is the active UI state. Exactly one is active at a time.
type Mode int

const (
	Search Mode = iota
	ServiceList
	Help
	ActionMenu
	Processing
	Error
)

// All lists every mode in declaration order.
var All = []Mode{Search, ServiceList, Help, ActionMenu, Processing, Error}

func (m Mode) String() string {
	switch m {
	case Search:
		return "search"
	case ServiceList:
		return "service-list"
	case Help:
		return "help"
	case ActionMenu:
		return "action-menu"
	case Processing:
		return "processing"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// interrupting reports whether m remembers the mode it interrupted.
func (m Mode) interrupting() bool {
	return m == Help || m == Error
}

// Machine tracks the current mode and a single remembered previous mode used
// by Help and Error to return to whatever they interrupted.
type Machine struct {
	current  Mode
	previous Mode
}

// NewMachine starts in Search mode.
func NewMachine() *Machine {
	return &Machine{current: Search, previous: Search}
}

func (m *Machine) Current() Mode {
	return m.current
}

// Previous is the mode Help or Error will return to.
func (m *Machine) Previous() Mode {
	return m.previous
}

// Enter switches to next and reports whether the mode changed. Entering Help
// or Error from a non-interrupting mode records it in the previous slot; the
// slot is one level deep, so Help over Error keeps Error's saved mode.
func (m *Machine) Enter(next Mode) bool {
	if next == m.current {
		return false
	}
	if next.interrupting() && !m.current.interrupting() {
		m.previous = m.current
	}
	m.current = next
	return true
}

// ToggleHelp enters Help, or leaves it for the remembered mode when already
// in Help. It never stacks.
func (m *Machine) ToggleHelp() Mode {
	if m.current == Help {
		m.current = m.previous
		return m.current
	}
	m.Enter(Help)
	return m.current
}

// ReplacePrevious rewrites the remembered mode to to when it is from, and
// reports whether it did.
func (m *Machine) ReplacePrevious(from, to Mode) bool {
	if m.previous != from {
		return false
	}
	m.previous = to
	return true
}

// DismissError leaves Error mode for the mode it interrupted.
func (m *Machine) DismissError() Mode {
	if m.current != Error {
		return m.current
	}
	m.current = dismissTarget(m.previous)
	return m.current
}

// dismissTarget resolves where a dismissed error lands. Transient modes whose
// owning operation is gone fall back to the service list.
func dismissTarget(previous Mode) Mode {
	switch previous {
	case Search, ServiceList:
		return previous
	default:
		return ServiceList
	}
}
