package theme

import (
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/charmbracelet/lipgloss"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Panel        *lipgloss.Style
	ActivePanel  *lipgloss.Style
	PanelTitle   *lipgloss.Style
	Item         *lipgloss.Style
	SelectedItem *lipgloss.Style
	Favorite     *lipgloss.Style

	StateActive   *lipgloss.Style
	StateInactive *lipgloss.Style
	StateFailed   *lipgloss.Style
	StateOther    *lipgloss.Style
	NotLoaded     *lipgloss.Style

	SearchPrompt      *lipgloss.Style
	SearchText        *lipgloss.Style
	SearchPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style

	DetailKey   *lipgloss.Style
	DetailValue *lipgloss.Style
	DetailError *lipgloss.Style

	LogTimestamp *lipgloss.Style
	LogLine      *lipgloss.Style

	Modal        *lipgloss.Style
	ErrorModal   *lipgloss.Style
	ModalTitle   *lipgloss.Style
	MenuItem     *lipgloss.Style
	MenuSelected *lipgloss.Style
	Spinner      *lipgloss.Style

	Status      *lipgloss.Style
	StatusError *lipgloss.Style
	Footer      *lipgloss.Style
}

var defaultStyles = Styles{
	Panel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")),
	),
	ActivePanel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Favorite: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	),
	StateActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	StateInactive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	StateFailed: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	StateOther: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	NotLoaded: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	),
	SearchPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SearchText: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SearchPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")),
	),
	DetailKey: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	DetailValue: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	DetailError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	),
	LogTimestamp: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	LogLine: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Modal: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
	),
	ErrorModal: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("196")).Padding(0, 1),
	),
	ModalTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	MenuItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	MenuSelected: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true),
	),
	Spinner: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	StatusError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// ForState picks the style used for a unit's activation state.
func (s *Styles) ForState(state unit.ActiveState) *lipgloss.Style {
	switch state.Kind {
	case unit.Active:
		return s.StateActive
	case unit.Failed:
		return s.StateFailed
	case unit.Inactive:
		return s.StateInactive
	default:
		return s.StateOther
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
