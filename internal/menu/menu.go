// Package menu builds the per-unit action menu.
package menu

import (
	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// Item represents a selectable menu entry bound to the action it emits.
type Item struct {
	ID     string
	Label  string
	Action action.Action
}

// Builder produces the action for a unit.
type Builder func(unit.ID) action.Action

type entry struct {
	id    string
	label string
	build Builder
}

var (
	start    = entry{"start", "Start", func(id unit.ID) action.Action { return action.StartService{ID: id} }}
	stop     = entry{"stop", "Stop", func(id unit.ID) action.Action { return action.StopService{ID: id} }}
	restart  = entry{"restart", "Restart", func(id unit.ID) action.Action { return action.RestartService{ID: id} }}
	enable   = entry{"enable", "Enable", func(id unit.ID) action.Action { return action.EnableService{ID: id} }}
	disable  = entry{"disable", "Disable", func(id unit.ID) action.Action { return action.DisableService{ID: id} }}
	copyPath = entry{"copy-path", "Copy unit file path to clipboard", func(id unit.ID) action.Action { return action.CopyUnitFilePath{ID: id} }}
)

// ForUnit lists the actions available for u: Start, Stop, Restart and Copy
// path. Enablement is toggled from the service list instead.
func ForUnit(u unit.Unit) []Item {
	entries := []entry{start, stop, restart, copyPath}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{ID: e.id, Label: e.label, Action: e.build(u.ID)})
	}
	return items
}

// EnablementToggle returns the Enable or Disable item that flips u's
// enablement state. ok is false when the state is unknown or cannot be
// flipped (static, masked, generated and similar).
func EnablementToggle(u unit.Unit) (item Item, ok bool) {
	var e entry
	switch u.Enablement {
	case "enabled", "enabled-runtime":
		e = disable
	case "disabled":
		e = enable
	default:
		return Item{}, false
	}
	return Item{ID: e.id, Label: e.label, Action: e.build(u.ID)}, true
}
