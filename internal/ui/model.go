package ui

import (
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/backend"
	"github.com/atomicstack/systemctl-tui/internal/dispatcher"
	"github.com/atomicstack/systemctl-tui/internal/logging/events"
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/render"
	"github.com/atomicstack/systemctl-tui/internal/task"
	"github.com/atomicstack/systemctl-tui/internal/theme"
	"github.com/atomicstack/systemctl-tui/internal/ui/command"
	uistate "github.com/atomicstack/systemctl-tui/internal/ui/state"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

type renderFlushMsg struct{}

// ExecFunc hands the terminal to an external editor and reports its exit
// through done.
type ExecFunc func(req dispatcher.ExecRequest, done func(error) tea.Msg) tea.Cmd

// Options wires the model. Dispatcher is required.
type Options struct {
	Dispatcher *dispatcher.Dispatcher
	// Supervisor is waited on during shutdown.
	Supervisor *task.Supervisor
	// Watch starts a polling watcher. It is called at startup and after every
	// resume from suspension.
	Watch func() *backend.Watcher
	// Initial is loaded into the registry as the first snapshot.
	Initial        []unit.Unit
	RenderDebounce time.Duration
	// StaticCursor disables caret blinking.
	StaticCursor bool
	Exec         ExecFunc
}

// Model adapts the dispatcher to Bubble Tea: keys become actions, effects
// become commands, and View paints through the render gate.
type Model struct {
	disp       *dispatcher.Dispatcher
	sup        *task.Supervisor
	gate       *render.Gate
	debounce   *backend.Debouncer
	bus        *command.Bus
	exec       ExecFunc
	newWatcher func() *backend.Watcher
	initial    []unit.Unit

	backend *backend.Watcher
	stopped []*backend.Watcher

	keys              keyMap
	help              help.Model
	spinner           spinner.Model
	search            uistate.SearchBox
	searchCursor      cursor.Model
	searchCursorDirty bool
	listOffset        int

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the model around a dispatcher.
func NewModel(opts Options) *Model {
	m := &Model{
		disp:       opts.Dispatcher,
		sup:        opts.Supervisor,
		gate:       render.NewGate(),
		debounce:   backend.NewDebouncer(opts.RenderDebounce),
		bus:        command.New(),
		exec:       opts.Exec,
		newWatcher: opts.Watch,
		initial:    opts.Initial,
		keys:       defaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if m.exec == nil {
		m.exec = execEditor
	}
	m.help.ShowAll = true
	if styles.Spinner != nil {
		m.spinner.Style = *styles.Spinner
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.SearchText != nil {
		c.TextStyle = *styles.SearchText
	}
	c.SetChar(" ")
	if opts.StaticCursor {
		c.SetMode(cursor.CursorStatic)
	}
	m.searchCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if initial := m.initial; initial != nil {
		m.initial = nil
		cmds = append(cmds, func() tea.Msg {
			return action.SetUnits{Units: initial, Replace: true}
		})
	}
	if cmd := m.startBackend(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.searchCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateSearchCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	} else if a, ok := msg.(action.Action); ok {
		if cmd := m.dispatch(a); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.ResumeMsg{}):     m.handleResumeMsg,
		reflect.TypeOf(cursor.BlinkMsg{}):   m.handleBlinkMsg,
		reflect.TypeOf(renderFlushMsg{}):    m.handleRenderFlushMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.searchCursorDirty {
		m.searchCursorDirty = false
		m.searchCursor.Blink = false
		m.gate.Invalidate()
		if cmd := m.searchCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// dispatch applies actions and converts the result into commands.
func (m *Model) dispatch(actions ...action.Action) tea.Cmd {
	if len(actions) == 0 {
		return nil
	}
	res := m.disp.Dispatch(actions...)
	if res.Quit {
		m.gate.Invalidate()
		m.stopBackend()
		return m.quitCmd()
	}
	cmds := make([]tea.Cmd, 0, 4)
	if res.Render {
		cmds = append(cmds, m.requestRender())
	}
	cmds = append(cmds, m.bus.ExecuteAll(actionName(actions[0]), res.Effects))
	if res.Exec != nil {
		cmds = append(cmds, m.runEditor(*res.Exec))
	}
	if res.Suspend {
		m.stopBackend()
		cmds = append(cmds, tea.Suspend)
	}
	return tea.Batch(cmds...)
}

func (m *Model) requestRender() tea.Cmd {
	switch m.debounce.Request() {
	case backend.FlushNow:
		m.gate.Invalidate()
	case backend.Schedule:
		return tea.Tick(m.debounce.Window(), func(time.Time) tea.Msg {
			return renderFlushMsg{}
		})
	}
	return nil
}

func (m *Model) handleRenderFlushMsg(tea.Msg) tea.Cmd {
	if m.debounce.Fire() {
		m.gate.Invalidate()
	}
	return nil
}

func (m *Model) handleBlinkMsg(tea.Msg) tea.Cmd {
	if m.disp.Mode() == mode.Search {
		m.gate.Invalidate()
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	return m.dispatch(action.Resize{Width: size.Width, Height: size.Height})
}

func (m *Model) handleResumeMsg(tea.Msg) tea.Cmd {
	m.gate.Reset()
	cmd := m.dispatch(action.Resume{}, action.RefreshServices{})
	return tea.Batch(cmd, m.startBackend())
}

// quitCmd waits for background work to unwind off the event loop, since
// supervised goroutines may still be delivering actions to it.
func (m *Model) quitCmd() tea.Cmd {
	sup, watchers := m.sup, m.stopped
	return func() tea.Msg {
		if sup != nil {
			sup.Wait()
		}
		for _, w := range watchers {
			w.Wait()
		}
		return tea.QuitMsg{}
	}
}

func (m *Model) runEditor(req dispatcher.ExecRequest) tea.Cmd {
	m.gate.Acquire()
	return m.exec(req, func(err error) tea.Msg {
		m.gate.Release()
		return action.EditorClosed{Err: err}
	})
}

func execEditor(req dispatcher.ExecRequest, done func(error) tea.Msg) tea.Cmd {
	argv := strings.Fields(req.Editor)
	if len(argv) == 0 {
		argv = []string{"vi"}
	}
	c := exec.Command(argv[0], append(argv[1:], req.Path)...)
	return tea.ExecProcess(c, done)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	events.UI.Key(m.disp.Mode().String(), keyMsg.String())
	return m.dispatch(m.translateKey(keyMsg)...)
}

// translateKey resolves a key against the mode table and returns the actions
// it stands for, in application order.
func (m *Model) translateKey(msg tea.KeyMsg) []action.Action {
	out := mode.Resolve(m.disp.KeyContext(), msg.String())
	var actions []action.Action
	switch out.Command {
	case mode.None:
	case mode.ActivateMenuItem:
		actions = append(actions, action.EnterMode{Mode: out.Next})
		if item, ok := m.disp.SelectedMenuItem(); ok && item.Action != nil {
			actions = append(actions, item.Action)
		}
		return actions
	case mode.ToggleHelp, mode.DismissError, mode.CancelTask:
		// These commands perform their own mode transition.
		return []action.Action{m.commandAction(out.Command)}
	case mode.EditSearch:
		if m.editSearch(msg) {
			actions = append(actions, action.SetSearch{Text: m.search.Text()})
		}
	default:
		if a := m.commandAction(out.Command); a != nil {
			actions = append(actions, a)
		}
	}
	if out.Changed {
		actions = append(actions, action.EnterMode{Mode: out.Next})
	}
	return actions
}

func (m *Model) commandAction(c mode.Command) action.Action {
	switch c {
	case mode.Quit:
		return action.Quit{}
	case mode.Suspend:
		return action.Suspend{}
	case mode.ToggleHelp:
		return action.ToggleHelp{}
	case mode.SavePreferences:
		return action.SavePreferences{}
	case mode.ScrollUp:
		return action.ScrollUp{Lines: m.logPage()}
	case mode.ScrollDown:
		return action.ScrollDown{Lines: m.logPage()}
	case mode.ScrollTop:
		return action.ScrollTop{}
	case mode.ScrollBottom:
		return action.ScrollBottom{}
	case mode.SelectNext:
		return action.SelectNext{}
	case mode.SelectPrevious:
		return action.SelectPrevious{}
	case mode.MenuNext:
		return action.MenuNext{}
	case mode.MenuPrevious:
		return action.MenuPrevious{}
	case mode.CancelTask:
		return action.CancelTask{}
	case mode.DismissError:
		return action.DismissError{}
	case mode.ToggleFavorite:
		if id, ok := m.disp.Units().SelectedID(); ok {
			return action.ToggleFavorite{ID: id}
		}
	case mode.EditUnitFile:
		if id, ok := m.disp.Units().SelectedID(); ok {
			return action.EditUnitFile{ID: id}
		}
	case mode.ToggleEnablement:
		if id, ok := m.disp.Units().SelectedID(); ok {
			return action.ToggleEnablement{ID: id}
		}
	case mode.ToggleLogger:
		return action.ToggleLogger{}
	}
	return nil
}

func (m *Model) logPage() int {
	return m.layout().logRows
}

func actionName(a action.Action) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", a), "action.")
}
