package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/backend"
	"github.com/atomicstack/systemctl-tui/internal/dispatcher"
	"github.com/atomicstack/systemctl-tui/internal/journal"
	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/prefs"
	"github.com/atomicstack/systemctl-tui/internal/state"
	"github.com/atomicstack/systemctl-tui/internal/systemd"
	"github.com/atomicstack/systemctl-tui/internal/task"
	"github.com/atomicstack/systemctl-tui/internal/ui"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when stdin or stdout is not a terminal.
var ErrNoTerminal = errors.New("systemctl-tui needs an interactive terminal")

// Config describes user-provided application options.
type Config struct {
	Scope          systemd.Scope
	Patterns       []string
	UnitFileStates []string
	Refresh        time.Duration
	RenderDebounce time.Duration
	LogLines       int
	Fuzzy          bool
	Editor         string
	DataDir        string
}

// Run lists units once, then runs the Bubble Tea program until the user quits.
func Run(cfg Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNoTerminal
	}

	client := systemd.New(systemd.Options{
		Scope:          cfg.Scope,
		Patterns:       cfg.Patterns,
		UnitFileStates: cfg.UnitFileStates,
	})
	defer client.Close()

	initial, err := client.ListUnits(context.Background())
	if err != nil {
		return fmt.Errorf("list units: %w", err)
	}

	prefsPath := prefs.Path(cfg.DataDir)
	saved, err := prefs.Load(prefsPath)
	if err != nil {
		logging.Error(err)
	}
	favorites := state.NewFavoriteStore()
	favorites.SetIDs(saved.FavoriteIDs())

	var program atomic.Pointer[tea.Program]
	sink := func(a action.Action) {
		if p := program.Load(); p != nil {
			p.Send(a)
		}
	}

	sup := task.NewSupervisor(sink, journal.New(), client, task.Options{
		LogLines:          cfg.LogLines,
		IsPermissionError: systemd.IsPermissionError,
	})
	list := backend.Throttle(client.ListUnits, backend.DefaultListThrottle)

	match := state.SubstringMatch
	if cfg.Fuzzy {
		match = state.FuzzyMatch
	}
	disp := dispatcher.New(dispatcher.Options{
		Services:   client,
		Supervisor: sup,
		List:       list,
		Match:      match,
		Favorites:  favorites,
		SaveFavorites: func(ids []unit.ID) error {
			current, err := prefs.Load(prefsPath)
			if err != nil {
				current = prefs.Preferences{}
			}
			return prefs.Save(prefsPath, current.WithFavorites(ids))
		},
		Clipboard: clipboard.WriteAll,
		Editor:    cfg.Editor,
	})

	model := ui.NewModel(ui.Options{
		Dispatcher: disp,
		Supervisor: sup,
		Watch: func() *backend.Watcher {
			return backend.NewWatcher(list, cfg.Refresh)
		},
		Initial:        initial,
		RenderDebounce: cfg.RenderDebounce,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	program.Store(p)

	_, err = p.Run()
	sup.Shutdown()
	sup.Wait()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
