package mode

// Command is an intra-mode effect requested by a key press.
type Command int

const (
	None Command = iota
	Quit
	Suspend
	ToggleHelp
	SavePreferences
	ScrollUp
	ScrollDown
	ScrollTop
	ScrollBottom
	SelectNext
	SelectPrevious
	MenuNext
	MenuPrevious
	ActivateMenuItem
	CancelTask
	DismissError
	ToggleFavorite
	EditUnitFile
	EditSearch
	ToggleEnablement
	ToggleLogger
)

// Context is the slice of application state the key table depends on.
type Context struct {
	Mode         Mode
	Previous     Mode
	HasSelection bool
	// AtTop is true when the selection is the first filtered unit or there is
	// no selection at all.
	AtTop bool
}

// Outcome is the result of resolving a key. Next is only meaningful when
// Changed is set.
type Outcome struct {
	Command Command
	Next    Mode
	Changed bool
}

// Resolve maps a key (in bubbletea's KeyMsg.String form) to an outcome. It is
// pure so the whole table can be checked mode by mode.
func Resolve(ctx Context, key string) Outcome {
	if out, ok := resolveGlobal(ctx, key); ok {
		return out
	}
	switch ctx.Mode {
	case ServiceList:
		return resolveServiceList(ctx, key)
	case Search:
		return resolveSearch(ctx, key)
	case ActionMenu:
		return resolveActionMenu(ctx, key)
	case Processing:
		if key == "esc" {
			return Outcome{Command: CancelTask, Next: ServiceList, Changed: true}
		}
	case Help:
		if key == "esc" || key == "enter" {
			return Outcome{Command: ToggleHelp, Next: ctx.Previous, Changed: ctx.Previous != Help}
		}
	case Error:
		if key == "esc" || key == "enter" {
			next := dismissTarget(ctx.Previous)
			return Outcome{Command: DismissError, Next: next, Changed: true}
		}
	}
	return Outcome{}
}

func resolveGlobal(ctx Context, key string) (Outcome, bool) {
	switch key {
	case "ctrl+c", "ctrl+q":
		return Outcome{Command: Quit}, true
	case "ctrl+z":
		return Outcome{Command: Suspend}, true
	case "ctrl+f":
		return to(ctx, None, Search), true
	case "?", "f1":
		next := Help
		if ctx.Mode == Help {
			next = ctx.Previous
		}
		return Outcome{Command: ToggleHelp, Next: next, Changed: next != ctx.Mode}, true
	case "ctrl+s":
		return Outcome{Command: SavePreferences}, true
	case "ctrl+l":
		return Outcome{Command: ToggleLogger}, true
	case "pgup", "ctrl+u":
		return Outcome{Command: ScrollUp}, true
	case "pgdown", "ctrl+d":
		return Outcome{Command: ScrollDown}, true
	case "home":
		return Outcome{Command: ScrollTop}, true
	case "end":
		return Outcome{Command: ScrollBottom}, true
	}
	return Outcome{}, false
}

func resolveServiceList(ctx Context, key string) Outcome {
	switch key {
	case "q":
		return Outcome{Command: Quit}
	case "up", "k":
		if ctx.AtTop {
			return to(ctx, None, Search)
		}
		return Outcome{Command: SelectPrevious}
	case "down", "j":
		return Outcome{Command: SelectNext}
	case "/":
		return to(ctx, None, Search)
	case "enter", " ":
		if ctx.HasSelection {
			return to(ctx, None, ActionMenu)
		}
	case "f":
		if ctx.HasSelection {
			return Outcome{Command: ToggleFavorite}
		}
	case "e":
		if ctx.HasSelection {
			return Outcome{Command: EditUnitFile}
		}
	case "t":
		if ctx.HasSelection {
			return Outcome{Command: ToggleEnablement}
		}
	}
	return Outcome{}
}

func resolveSearch(ctx Context, key string) Outcome {
	switch key {
	case "esc":
		return to(ctx, None, ServiceList)
	case "enter":
		if ctx.HasSelection {
			return to(ctx, None, ActionMenu)
		}
		return Outcome{}
	case "down", "tab":
		return to(ctx, SelectNext, ServiceList)
	case "up":
		return to(ctx, SelectPrevious, ServiceList)
	}
	return Outcome{Command: EditSearch}
}

func resolveActionMenu(ctx Context, key string) Outcome {
	switch key {
	case "esc":
		return to(ctx, None, ServiceList)
	case "down", "j":
		return Outcome{Command: MenuNext}
	case "up", "k":
		return Outcome{Command: MenuPrevious}
	case "enter", " ":
		return to(ctx, ActivateMenuItem, ServiceList)
	}
	return Outcome{}
}

func to(ctx Context, cmd Command, next Mode) Outcome {
	return Outcome{Command: cmd, Next: next, Changed: next != ctx.Mode}
}
