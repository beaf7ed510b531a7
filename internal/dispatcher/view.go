package dispatcher

import (
	"github.com/atomicstack/systemctl-tui/internal/menu"
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/state"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// The accessors below are for rendering and key translation. Callers must
// treat returned state as read-only.

func (d *Dispatcher) Mode() mode.Mode {
	return d.modes.Current()
}

func (d *Dispatcher) PreviousMode() mode.Mode {
	return d.modes.Previous()
}

func (d *Dispatcher) Units() *state.Registry {
	return d.units
}

func (d *Dispatcher) Logs() *state.LogState {
	return d.logs
}

// MenuItems returns the action menu entries and the highlighted index.
func (d *Dispatcher) MenuItems() ([]menu.Item, int) {
	idx, ok := d.menu.Index()
	if !ok {
		idx = -1
	}
	return d.menu.Items(), idx
}

// SelectedMenuItem is the highlighted action menu entry.
func (d *Dispatcher) SelectedMenuItem() (menu.Item, bool) {
	return d.menu.Selected()
}

// Task describes the running service action for the processing modal.
func (d *Dispatcher) Task() (label string, ticks int) {
	return d.taskLabel, d.ticks
}

func (d *Dispatcher) ErrorMessage() string {
	return d.errMsg
}

// Status is the status line text and whether it reports a failure.
func (d *Dispatcher) Status() (string, bool) {
	return d.status, d.statusIsError
}

func (d *Dispatcher) IsFavorite(id unit.ID) bool {
	return d.favorites.Has(id)
}

// FavoritesDirty reports unsaved favorite changes.
func (d *Dispatcher) FavoritesDirty() bool {
	return d.favorites.Dirty()
}

func (d *Dispatcher) Size() (width, height int) {
	return d.width, d.height
}

// KeyContext is the state the key table needs.
func (d *Dispatcher) KeyContext() mode.Context {
	idx, ok := d.units.SelectedIndex()
	return mode.Context{
		Mode:         d.modes.Current(),
		Previous:     d.modes.Previous(),
		HasSelection: ok,
		AtTop:        !ok || idx == 0,
	}
}

func (d *Dispatcher) Quitting() bool {
	return d.quitting
}

// ShowLogger reports whether the application log pane is visible.
func (d *Dispatcher) ShowLogger() bool {
	return d.showLogger
}
