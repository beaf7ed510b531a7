package ui

import (
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/charmbracelet/bubbles/key"
)

// keyMap documents the key table for the help modal and the footer. Key
// resolution itself lives in mode.Resolve.
type keyMap struct {
	Quit       key.Binding
	Suspend    key.Binding
	Search     key.Binding
	Help       key.Binding
	Save       key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Back       key.Binding
	Favorite   key.Binding
	Edit       key.Binding
	Enablement key.Binding
	Logger     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	LogsTop    key.Binding
	LogsBottom key.Binding
	Cancel     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q", "q"), key.WithHelp("ctrl+c/q", "quit")),
		Suspend:    key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "suspend")),
		Search:     key.NewBinding(key.WithKeys("ctrl+f", "/"), key.WithHelp("ctrl+f, /", "search")),
		Help:       key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save favorites")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous unit")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next unit")),
		Open:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "actions")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Favorite:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle favorite")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit unit file")),
		Enablement: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "enable/disable")),
		Logger:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "toggle app log")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll logs up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll logs down")),
		LogsTop:    key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "newest log line")),
		LogsBottom: key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "oldest log line")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// forMode returns a copy with the bindings that do nothing in m disabled, so
// the footer only advertises live keys.
func (k keyMap) forMode(m mode.Mode) keyMap {
	out := k
	listOnly := m == mode.ServiceList
	out.Favorite.SetEnabled(listOnly)
	out.Edit.SetEnabled(listOnly)
	out.Enablement.SetEnabled(listOnly)
	out.Open.SetEnabled(listOnly || m == mode.Search || m == mode.ActionMenu)
	out.Up.SetEnabled(listOnly || m == mode.Search || m == mode.ActionMenu)
	out.Down.SetEnabled(listOnly || m == mode.Search || m == mode.ActionMenu)
	out.Search.SetEnabled(m != mode.Search)
	if !listOnly {
		// Plain letters are search text or unbound outside the list.
		out.Quit.SetKeys("ctrl+c", "ctrl+q")
		out.Quit.SetHelp("ctrl+c", "quit")
		out.Search.SetKeys("ctrl+f")
		out.Search.SetHelp("ctrl+f", "search")
	}
	if m == mode.Search {
		out.Up.SetKeys("up")
		out.Up.SetHelp("↑", "previous unit")
		out.Down.SetKeys("down", "tab")
		out.Down.SetHelp("↓/tab", "next unit")
		out.Open.SetKeys("enter")
	}
	out.Back.SetEnabled(m != mode.ServiceList && m != mode.Processing)
	out.Cancel.SetEnabled(m == mode.Processing)
	return out
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Search, k.Open, k.Back, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Search},
		{k.Favorite, k.Save, k.Edit, k.Enablement, k.Cancel},
		{k.ScrollUp, k.ScrollDown, k.LogsTop, k.LogsBottom, k.Logger},
		{k.Help, k.Suspend, k.Quit},
	}
}
