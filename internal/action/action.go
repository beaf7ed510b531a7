// Package action defines the closed set of messages that drive every state
// transition. Actions are plain data; they are applied by the dispatcher and
// double as bubbletea messages when background work sends them to the program.
package action

import (
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// Action is implemented only by the types in this package.
type Action interface {
	isAction()
}

// Lifecycle.
type (
	Quit    struct{}
	Suspend struct{}
	Resume  struct{}
	Render  struct{}
	Resize  struct{ Width, Height int }
)

// Mode transitions.
type (
	EnterMode  struct{ Mode mode.Mode }
	ToggleHelp struct{}
	EnterError struct{ Message string }
	// DismissError leaves Error mode for the mode it interrupted.
	DismissError struct{}
)

// Data updates.
type (
	// SetUnits merges a snapshot into the registry, or replaces it wholesale
	// when Replace is set.
	SetUnits struct {
		Units   []unit.Unit
		Replace bool
	}
	SetUnitFilePath struct {
		ID   unit.ID
		Path string
		Err  string
	}
	SetLogs struct {
		ID    unit.ID
		Lines []string
	}
	AppendLogLine struct {
		ID   unit.ID
		Line string
	}
	// RefreshFailed records a failed periodic listing without leaving the
	// current mode.
	RefreshFailed struct{ Err error }
)

// User commands.
type (
	StartService     struct{ ID unit.ID }
	StopService      struct{ ID unit.ID }
	RestartService   struct{ ID unit.ID }
	EnableService    struct{ ID unit.ID }
	DisableService   struct{ ID unit.ID }
	CopyUnitFilePath struct{ ID unit.ID }
	EditUnitFile     struct{ ID unit.ID }
	// EditorClosed reports the external editor exiting.
	EditorClosed    struct{ Err error }
	CancelTask      struct{}
	RefreshServices struct{}
	ToggleFavorite  struct{ ID unit.ID }
	// ToggleEnablement enables a disabled unit file or disables an enabled one.
	ToggleEnablement struct{ ID unit.ID }
	// ToggleLogger shows or hides the application log pane.
	ToggleLogger    struct{}
	SavePreferences struct{}
	// Notice shows a transient message in the status line.
	Notice struct{ Text string }
)

// Task lifecycle, sent by the task supervisor.
type (
	SpinnerTick  struct{ TaskID string }
	TaskFinished struct {
		TaskID  string
		Label   string
		Outcome Outcome
		Message string
	}
)

// Scroll and selection.
type (
	SelectNext     struct{}
	SelectPrevious struct{}
	SelectIndex    struct{ Index int }
	SetSearch      struct{ Text string }
	MenuNext       struct{}
	MenuPrevious   struct{}
	ScrollUp       struct{ Lines int }
	ScrollDown     struct{ Lines int }
	ScrollTop      struct{}
	ScrollBottom   struct{}
)

// Outcome is how a supervised task ended.
type Outcome int

const (
	Succeeded Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (Quit) isAction()             {}
func (Suspend) isAction()          {}
func (Resume) isAction()           {}
func (Render) isAction()           {}
func (Resize) isAction()           {}
func (EnterMode) isAction()        {}
func (ToggleHelp) isAction()       {}
func (EnterError) isAction()       {}
func (DismissError) isAction()     {}
func (SetUnits) isAction()         {}
func (SetUnitFilePath) isAction()  {}
func (SetLogs) isAction()          {}
func (AppendLogLine) isAction()    {}
func (RefreshFailed) isAction()    {}
func (StartService) isAction()     {}
func (StopService) isAction()      {}
func (RestartService) isAction()   {}
func (EnableService) isAction()    {}
func (DisableService) isAction()   {}
func (CopyUnitFilePath) isAction() {}
func (EditUnitFile) isAction()     {}
func (EditorClosed) isAction()     {}
func (CancelTask) isAction()       {}
func (RefreshServices) isAction()  {}
func (ToggleFavorite) isAction()   {}
func (ToggleEnablement) isAction() {}
func (ToggleLogger) isAction()     {}
func (SavePreferences) isAction()  {}
func (Notice) isAction()           {}
func (SpinnerTick) isAction()      {}
func (TaskFinished) isAction()     {}
func (SelectNext) isAction()       {}
func (SelectPrevious) isAction()   {}
func (SelectIndex) isAction()      {}
func (SetSearch) isAction()        {}
func (MenuNext) isAction()         {}
func (MenuPrevious) isAction()     {}
func (ScrollUp) isAction()         {}
func (ScrollDown) isAction()       {}
func (ScrollTop) isAction()        {}
func (ScrollBottom) isAction()     {}
