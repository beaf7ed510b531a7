// Package dispatcher is the single owner of application state. It drains an
// action queue in arrival order, applies each action to the unit registry,
// the mode machine, the log buffer and the task supervisor, and reports what
// the surrounding loop should do next.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/logging/events"
	"github.com/atomicstack/systemctl-tui/internal/menu"
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/state"
	"github.com/atomicstack/systemctl-tui/internal/task"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// Services is the service-manager collaborator.
type Services interface {
	ListUnits(ctx context.Context) ([]unit.Unit, error)
	Start(ctx context.Context, id unit.ID) error
	Stop(ctx context.Context, id unit.ID) error
	Restart(ctx context.Context, id unit.ID) error
	Enable(ctx context.Context, id unit.ID) error
	Disable(ctx context.Context, id unit.ID) error
	UnitFilePath(ctx context.Context, id unit.ID) (string, error)
}

// Effect is work the loop runs off the dispatch goroutine. Its action, when
// non-nil, is dispatched on completion.
type Effect func() action.Action

// ExecRequest asks the loop to hand the terminal to an editor.
type ExecRequest struct {
	Editor string
	Path   string
}

// Result tells the loop what the dispatched actions require.
type Result struct {
	Render  bool
	Quit    bool
	Suspend bool
	Effects []Effect
	Exec    *ExecRequest
}

// Options wires collaborators. Services and Supervisor are required.
type Options struct {
	Services   Services
	Supervisor *task.Supervisor
	// List overrides Services.ListUnits for refreshes, typically with a
	// throttled lister.
	List      func(ctx context.Context) ([]unit.Unit, error)
	Match     state.Matcher
	Favorites state.FavoriteStore
	// SaveFavorites persists the favorite ids.
	SaveFavorites func([]unit.ID) error
	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error
	Editor    string
	Context   context.Context
}

type handler func(action.Action)

// Dispatcher is not safe for concurrent use. Background work reaches it only
// through actions.
type Dispatcher struct {
	opts     Options
	ctx      context.Context
	handlers map[reflect.Type]handler

	queue []action.Action
	res   Result

	units     *state.Registry
	modes     *mode.Machine
	logs      *state.LogState
	menu      state.List[menu.Item]
	sup       *task.Supervisor
	favorites state.FavoriteStore
	followed  unit.ID

	width, height int
	taskLabel     string
	ticks         int
	errMsg        string
	status        string
	statusIsError bool
	quitting      bool
	showLogger    bool
}

// New returns a dispatcher in Search mode with an empty registry.
func New(opts Options) *Dispatcher {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.List == nil && opts.Services != nil {
		opts.List = opts.Services.ListUnits
	}
	if opts.Favorites == nil {
		opts.Favorites = state.NewFavoriteStore()
	}
	d := &Dispatcher{
		opts:      opts,
		ctx:       opts.Context,
		units:     state.NewRegistry(opts.Match),
		modes:     mode.NewMachine(),
		logs:      state.NewLogState(state.DefaultMaxLogLines),
		menu:      state.NewList[menu.Item](nil),
		sup:       opts.Supervisor,
		favorites: opts.Favorites,
	}
	d.registerHandlers()
	return d
}

func (d *Dispatcher) registerHandlers() {
	d.handlers = map[reflect.Type]handler{}
	on := func(sample action.Action, h handler) {
		d.handlers[reflect.TypeOf(sample)] = h
	}

	on(action.Quit{}, d.handleQuit)
	on(action.Suspend{}, d.handleSuspend)
	on(action.Resume{}, d.handleResume)
	on(action.Render{}, func(action.Action) { d.render() })
	on(action.Resize{}, d.handleResize)

	on(action.EnterMode{}, d.handleEnterMode)
	on(action.ToggleHelp{}, d.handleToggleHelp)
	on(action.EnterError{}, d.handleEnterError)
	on(action.DismissError{}, d.handleDismissError)

	on(action.SetUnits{}, d.handleSetUnits)
	on(action.SetUnitFilePath{}, d.handleSetUnitFilePath)
	on(action.SetLogs{}, d.handleSetLogs)
	on(action.AppendLogLine{}, d.handleAppendLogLine)
	on(action.RefreshFailed{}, d.handleRefreshFailed)

	on(action.StartService{}, d.handleServiceAction)
	on(action.StopService{}, d.handleServiceAction)
	on(action.RestartService{}, d.handleServiceAction)
	on(action.EnableService{}, d.handleServiceAction)
	on(action.DisableService{}, d.handleServiceAction)
	on(action.CopyUnitFilePath{}, d.handleCopyUnitFilePath)
	on(action.EditUnitFile{}, d.handleEditUnitFile)
	on(action.EditorClosed{}, d.handleEditorClosed)
	on(action.CancelTask{}, d.handleCancelTask)
	on(action.RefreshServices{}, d.handleRefreshServices)
	on(action.ToggleFavorite{}, d.handleToggleFavorite)
	on(action.ToggleEnablement{}, d.handleToggleEnablement)
	on(action.ToggleLogger{}, func(action.Action) { d.showLogger = !d.showLogger; d.render() })
	on(action.SavePreferences{}, d.handleSavePreferences)
	on(action.Notice{}, d.handleNotice)

	on(action.SpinnerTick{}, d.handleSpinnerTick)
	on(action.TaskFinished{}, d.handleTaskFinished)

	on(action.SelectNext{}, func(action.Action) { d.units.SelectNext(); d.render() })
	on(action.SelectPrevious{}, func(action.Action) { d.units.SelectPrevious(); d.render() })
	on(action.SelectIndex{}, func(a action.Action) { d.units.SelectIndex(a.(action.SelectIndex).Index); d.render() })
	on(action.SetSearch{}, d.handleSetSearch)
	on(action.MenuNext{}, d.handleMenuMove)
	on(action.MenuPrevious{}, d.handleMenuMove)
	on(action.ScrollUp{}, d.handleScroll)
	on(action.ScrollDown{}, d.handleScroll)
	on(action.ScrollTop{}, d.handleScroll)
	on(action.ScrollBottom{}, d.handleScroll)
}

// Dispatch enqueues actions and applies the queue until it is empty,
// including follow-up actions produced along the way.
func (d *Dispatcher) Dispatch(actions ...action.Action) Result {
	for _, a := range actions {
		if a != nil {
			d.queue = append(d.queue, a)
		}
	}
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		d.apply(next)
	}
	res := d.res
	d.res = Result{}
	return res
}

func (d *Dispatcher) apply(a action.Action) {
	typ := reflect.TypeOf(a)
	h, ok := d.handlers[typ]
	if !ok {
		logging.Logger().Debug("unhandled action", "action", typ.String())
		return
	}
	events.Action.Apply(typ.Name())
	h(a)
	d.syncFollow()
}

func (d *Dispatcher) enqueue(a action.Action) {
	if a != nil {
		d.queue = append(d.queue, a)
	}
}

func (d *Dispatcher) render() {
	d.res.Render = true
}

func (d *Dispatcher) effect(e Effect) {
	d.res.Effects = append(d.res.Effects, e)
}

// syncFollow points the log buffer and the journal follower at the selected
// unit whenever the selection changes.
func (d *Dispatcher) syncFollow() {
	id, _ := d.units.SelectedID()
	if id == d.followed {
		return
	}
	d.followed = id
	d.logs.Reset(id)
	if d.sup == nil {
		return
	}
	if id.IsZero() {
		d.sup.StopFollow()
		return
	}
	events.Unit.Select(id.String())
	d.sup.Follow(id)
}

func (d *Dispatcher) enterMode(next mode.Mode) {
	from := d.modes.Current()
	if d.modes.Enter(next) {
		events.UI.Mode(from.String(), next.String())
	}
	d.render()
}

func (d *Dispatcher) handleQuit(action.Action) {
	if d.quitting {
		return
	}
	d.quitting = true
	events.App.Quit(len(d.queue))
	if d.sup != nil {
		d.sup.Shutdown()
	}
	d.res.Quit = true
}

func (d *Dispatcher) handleSuspend(action.Action) {
	events.App.Suspend()
	d.res.Suspend = true
}

func (d *Dispatcher) handleResume(action.Action) {
	events.App.Resume()
	d.render()
}

func (d *Dispatcher) handleResize(a action.Action) {
	r := a.(action.Resize)
	d.width, d.height = r.Width, r.Height
	d.render()
}

func (d *Dispatcher) handleEnterMode(a action.Action) {
	next := a.(action.EnterMode).Mode
	switch next {
	case mode.ActionMenu:
		u, ok := d.units.Selected()
		if !ok {
			return
		}
		d.menu.SetItems(menu.ForUnit(u))
		d.menu.Select(0)
	case mode.Processing:
		if d.sup == nil || d.sup.Current() == "" {
			return
		}
	case mode.Error:
		return
	}
	d.enterMode(next)
}

func (d *Dispatcher) handleToggleHelp(action.Action) {
	from := d.modes.Current()
	to := d.modes.ToggleHelp()
	events.UI.Mode(from.String(), to.String())
	d.render()
}

func (d *Dispatcher) handleEnterError(a action.Action) {
	d.errMsg = a.(action.EnterError).Message
	events.Action.Error(errors.New(d.errMsg))
	d.enterMode(mode.Error)
}

func (d *Dispatcher) handleDismissError(action.Action) {
	from := d.modes.Current()
	to := d.modes.DismissError()
	if from != to {
		events.UI.Mode(from.String(), to.String())
		d.errMsg = ""
	}
	d.render()
}

func (d *Dispatcher) handleSetUnits(a action.Action) {
	set := a.(action.SetUnits)
	if set.Replace {
		d.units.ReplaceAll(set.Units)
		events.Unit.Replace(len(set.Units))
	} else {
		d.units.Merge(set.Units)
		events.Unit.Merge(len(set.Units), d.units.Len())
	}
	if d.statusIsError {
		d.status, d.statusIsError = "", false
	}
	d.render()
}

func (d *Dispatcher) handleSetUnitFilePath(a action.Action) {
	set := a.(action.SetUnitFilePath)
	events.Unit.FilePath(set.ID.String(), set.Path, set.Err)
	if d.units.SetFilePath(set.ID, unit.FilePath{Path: set.Path, Err: set.Err}) {
		d.render()
	}
}

func (d *Dispatcher) handleSetLogs(a action.Action) {
	set := a.(action.SetLogs)
	if !d.logs.Set(set.ID, set.Lines) {
		events.Log.Stale(set.ID.String(), d.logs.Unit().String())
		return
	}
	events.Log.Loaded(set.ID.String(), len(set.Lines))
	d.render()
}

func (d *Dispatcher) handleAppendLogLine(a action.Action) {
	line := a.(action.AppendLogLine)
	if !d.logs.Append(line.ID, line.Line) {
		events.Log.Stale(line.ID.String(), d.logs.Unit().String())
		return
	}
	d.render()
}

func (d *Dispatcher) handleRefreshFailed(a action.Action) {
	err := a.(action.RefreshFailed).Err
	events.Unit.RefreshError(err)
	logging.Logger().Warn("refresh units", "err", err)
	d.status, d.statusIsError = fmt.Sprintf("Refresh failed: %v", err), true
	d.render()
}

var verbs = map[reflect.Type]struct {
	verb  string
	label string
}{
	reflect.TypeOf(action.StartService{}):   {"start", "Starting"},
	reflect.TypeOf(action.StopService{}):    {"stop", "Stopping"},
	reflect.TypeOf(action.RestartService{}): {"restart", "Restarting"},
	reflect.TypeOf(action.EnableService{}):  {"enable", "Enabling"},
	reflect.TypeOf(action.DisableService{}): {"disable", "Disabling"},
}

func (d *Dispatcher) operation(a action.Action) (unit.ID, task.Operation) {
	s := d.opts.Services
	switch v := a.(type) {
	case action.StartService:
		return v.ID, func(ctx context.Context) error { return s.Start(ctx, v.ID) }
	case action.StopService:
		return v.ID, func(ctx context.Context) error { return s.Stop(ctx, v.ID) }
	case action.RestartService:
		return v.ID, func(ctx context.Context) error { return s.Restart(ctx, v.ID) }
	case action.EnableService:
		return v.ID, func(ctx context.Context) error { return s.Enable(ctx, v.ID) }
	case action.DisableService:
		return v.ID, func(ctx context.Context) error { return s.Disable(ctx, v.ID) }
	}
	return unit.ID{}, nil
}

func (d *Dispatcher) handleServiceAction(a action.Action) {
	id, op := d.operation(a)
	if op == nil || id.IsZero() || d.sup == nil || d.quitting {
		return
	}
	v := verbs[reflect.TypeOf(a)]
	_, follow := d.sup.Run(id, v.verb, op)
	d.taskLabel = fmt.Sprintf("%s %s", v.label, id.Name)
	d.ticks = 0
	d.enqueue(follow)
}

func (d *Dispatcher) handleCancelTask(action.Action) {
	if d.sup != nil && d.sup.Cancel() {
		d.status, d.statusIsError = "Cancelled: "+d.taskLabel, false
	}
	d.taskLabel = ""
	d.modes.ReplacePrevious(mode.Processing, mode.ServiceList)
	d.enterMode(mode.ServiceList)
}

func (d *Dispatcher) handleSpinnerTick(a action.Action) {
	if d.sup == nil || a.(action.SpinnerTick).TaskID != d.sup.Current() {
		return
	}
	d.ticks++
	if d.modes.Current() == mode.Processing {
		d.render()
	}
}

func (d *Dispatcher) handleTaskFinished(a action.Action) {
	done := a.(action.TaskFinished)
	if d.sup == nil || !d.sup.Release(done.TaskID) {
		events.Task.Discard(done.TaskID, d.currentTask())
		return
	}
	d.taskLabel = ""
	// Help or Error opened over Processing must not return to it.
	d.modes.ReplacePrevious(mode.Processing, mode.ServiceList)
	switch done.Outcome {
	case action.Failed:
		d.enqueue(action.EnterError{Message: done.Message})
	default:
		if d.modes.Current() == mode.Processing {
			d.enterMode(mode.ServiceList)
		}
		d.render()
	}
}

func (d *Dispatcher) currentTask() string {
	if d.sup == nil {
		return ""
	}
	return d.sup.Current()
}

func (d *Dispatcher) handleRefreshServices(action.Action) {
	if d.opts.List == nil || d.quitting {
		return
	}
	list, ctx := d.opts.List, d.ctx
	d.effect(func() action.Action {
		units, err := list(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return action.RefreshFailed{Err: err}
		}
		return action.SetUnits{Units: units}
	})
}

func (d *Dispatcher) handleCopyUnitFilePath(a action.Action) {
	id := a.(action.CopyUnitFilePath).ID
	u, ok := d.units.Get(id)
	if !ok {
		return
	}
	if u.FilePath != nil && u.FilePath.Err != "" {
		d.enqueue(action.EnterError{Message: fmt.Sprintf("Unit file path unavailable for %s: %s", id.Name, u.FilePath.Err)})
		return
	}
	copyText := d.opts.Clipboard
	if copyText == nil {
		return
	}
	var known string
	if u.FilePath != nil {
		known = u.FilePath.Path
	}
	services, ctx := d.opts.Services, d.ctx
	d.effect(func() action.Action {
		path := known
		if path == "" {
			resolved, err := services.UnitFilePath(ctx, id)
			if err != nil {
				return action.EnterError{Message: fmt.Sprintf("Unit file path unavailable for %s: %v", id.Name, err)}
			}
			path = resolved
		}
		if err := copyText(path); err != nil {
			return action.EnterError{Message: fmt.Sprintf("Failed to copy to clipboard: %v", err)}
		}
		return action.Notice{Text: "Copied " + path + " to clipboard"}
	})
}

func (d *Dispatcher) handleEditUnitFile(a action.Action) {
	id := a.(action.EditUnitFile).ID
	u, ok := d.units.Get(id)
	if !ok {
		return
	}
	if u.FilePath == nil || u.FilePath.Path == "" {
		msg := fmt.Sprintf("No unit file path known for %s yet", id.Name)
		if u.FilePath != nil && u.FilePath.Err != "" {
			msg = fmt.Sprintf("Unit file path unavailable for %s: %s", id.Name, u.FilePath.Err)
		}
		d.enqueue(action.EnterError{Message: msg})
		return
	}
	d.res.Exec = &ExecRequest{Editor: d.opts.Editor, Path: u.FilePath.Path}
}

func (d *Dispatcher) handleEditorClosed(a action.Action) {
	if err := a.(action.EditorClosed).Err; err != nil {
		d.enqueue(action.EnterError{Message: fmt.Sprintf("Editor exited: %v", err)})
	}
	d.enqueue(action.RefreshServices{})
	d.render()
}

func (d *Dispatcher) handleToggleFavorite(a action.Action) {
	id := a.(action.ToggleFavorite).ID
	if _, ok := d.units.Get(id); !ok {
		return
	}
	on := d.favorites.Toggle(id)
	events.Unit.Favorite(id.String(), on)
	d.render()
}

func (d *Dispatcher) handleToggleEnablement(a action.Action) {
	u, ok := d.units.Get(a.(action.ToggleEnablement).ID)
	if !ok {
		return
	}
	item, ok := menu.EnablementToggle(u)
	if !ok {
		state := u.Enablement
		if state == "" {
			state = "unknown"
		}
		d.enqueue(action.Notice{Text: fmt.Sprintf("Cannot enable or disable %s (unit file is %s)", u.ID.Name, state)})
		return
	}
	d.enqueue(item.Action)
}

func (d *Dispatcher) handleSavePreferences(action.Action) {
	save := d.opts.SaveFavorites
	if save == nil {
		return
	}
	ids := d.favorites.IDs()
	d.favorites.MarkClean()
	d.effect(func() action.Action {
		if err := save(ids); err != nil {
			return action.EnterError{Message: fmt.Sprintf("Failed to save preferences: %v", err)}
		}
		return action.Notice{Text: fmt.Sprintf("Saved %d favorite(s)", len(ids))}
	})
}

func (d *Dispatcher) handleNotice(a action.Action) {
	d.status, d.statusIsError = a.(action.Notice).Text, false
	events.Action.Success(d.status)
	d.render()
}

func (d *Dispatcher) handleSetSearch(a action.Action) {
	text := a.(action.SetSearch).Text
	if text == d.units.Search() {
		return
	}
	d.units.SetSearch(text)
	d.render()
}

func (d *Dispatcher) handleMenuMove(a action.Action) {
	if d.modes.Current() != mode.ActionMenu {
		return
	}
	if _, ok := a.(action.MenuNext); ok {
		d.menu.Next()
	} else {
		d.menu.Previous()
	}
	idx, _ := d.menu.Index()
	id, _ := d.units.SelectedID()
	events.UI.MenuCursor(id.String(), idx)
	d.render()
}

func (d *Dispatcher) handleScroll(a action.Action) {
	switch v := a.(type) {
	case action.ScrollUp:
		d.logs.ScrollUp(max(v.Lines, 1))
	case action.ScrollDown:
		d.logs.ScrollDown(max(v.Lines, 1))
	case action.ScrollTop:
		d.logs.ScrollTop()
	case action.ScrollBottom:
		d.logs.ScrollBottom()
	}
	d.render()
}
