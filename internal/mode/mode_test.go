package mode

import "testing"

var keyUniverse = []string{
	"ctrl+c", "ctrl+q", "ctrl+z", "ctrl+f", "?", "f1", "ctrl+s",
	"pgup", "pgdown", "ctrl+u", "ctrl+d", "home", "end",
	"q", "up", "k", "down", "j", "/", "enter", " ", "f", "e",
	"esc", "tab", "a", "x", "left", "backspace", "t", "ctrl+l",
}

type transitionKey struct {
	mode Mode
	key  string
}

func expectedTransitions() map[transitionKey]Mode {
	want := map[transitionKey]Mode{
		{ServiceList, "/"}:     Search,
		{ServiceList, "enter"}: ActionMenu,
		{ServiceList, " "}:     ActionMenu,
		{Search, "esc"}:        ServiceList,
		{Search, "enter"}:      ActionMenu,
		{Search, "down"}:       ServiceList,
		{Search, "tab"}:        ServiceList,
		{Search, "up"}:         ServiceList,
		{ActionMenu, "esc"}:    ServiceList,
		{ActionMenu, "enter"}:  ServiceList,
		{ActionMenu, " "}:      ServiceList,
		{Processing, "esc"}:    ServiceList,
		{Help, "esc"}:          ServiceList,
		{Help, "enter"}:        ServiceList,
		{Error, "esc"}:         ServiceList,
		{Error, "enter"}:       ServiceList,
	}
	for _, m := range All {
		if m != Search {
			want[transitionKey{m, "ctrl+f"}] = Search
		}
		next := Help
		if m == Help {
			next = ServiceList
		}
		want[transitionKey{m, "?"}] = next
		want[transitionKey{m, "f1"}] = next
	}
	return want
}

func TestResolveTableIsExhaustive(t *testing.T) {
	want := expectedTransitions()
	for _, m := range All {
		ctx := Context{Mode: m, Previous: ServiceList, HasSelection: true}
		for _, key := range keyUniverse {
			out := Resolve(ctx, key)
			next, listed := want[transitionKey{m, key}]
			if !listed {
				if out.Changed {
					t.Fatalf("%s x %q: unexpected transition to %s", m, key, out.Next)
				}
				continue
			}
			if !out.Changed || out.Next != next {
				t.Fatalf("%s x %q: expected transition to %s, got %+v", m, key, next, out)
			}
		}
	}
}

func TestResolveUpAtTopFocusesSearch(t *testing.T) {
	out := Resolve(Context{Mode: ServiceList, HasSelection: true, AtTop: true}, "up")
	if !out.Changed || out.Next != Search || out.Command != None {
		t.Fatalf("expected search focus, got %+v", out)
	}
	out = Resolve(Context{Mode: ServiceList, HasSelection: true}, "k")
	if out.Changed || out.Command != SelectPrevious {
		t.Fatalf("expected select previous, got %+v", out)
	}
}

func TestResolveEnterWithoutSelectionIsNoop(t *testing.T) {
	for _, m := range []Mode{Search, ServiceList} {
		out := Resolve(Context{Mode: m}, "enter")
		if out.Changed || out.Command != None {
			t.Fatalf("%s: expected no-op, got %+v", m, out)
		}
	}
}

func TestResolveSearchEditsText(t *testing.T) {
	for _, key := range []string{"q", "j", "k", "a", "/", "backspace", "left"} {
		out := Resolve(Context{Mode: Search}, key)
		if out.Command != EditSearch || out.Changed {
			t.Fatalf("%q: expected search edit, got %+v", key, out)
		}
	}
}

func TestResolveSearchArrowsMoveSelection(t *testing.T) {
	out := Resolve(Context{Mode: Search, HasSelection: true}, "down")
	if out.Command != SelectNext || out.Next != ServiceList {
		t.Fatalf("expected select next into list, got %+v", out)
	}
	out = Resolve(Context{Mode: Search, HasSelection: true}, "up")
	if out.Command != SelectPrevious || out.Next != ServiceList {
		t.Fatalf("expected select previous into list, got %+v", out)
	}
}

func TestResolveActionMenuActivates(t *testing.T) {
	out := Resolve(Context{Mode: ActionMenu}, "enter")
	if out.Command != ActivateMenuItem || out.Next != ServiceList {
		t.Fatalf("expected activate + service list, got %+v", out)
	}
	if out := Resolve(Context{Mode: ActionMenu}, "j"); out.Command != MenuNext {
		t.Fatalf("expected menu next, got %+v", out)
	}
}

func TestResolveProcessingEscCancels(t *testing.T) {
	out := Resolve(Context{Mode: Processing}, "esc")
	if out.Command != CancelTask || out.Next != ServiceList {
		t.Fatalf("expected cancel, got %+v", out)
	}
	if out := Resolve(Context{Mode: Processing}, "q"); out.Command != None {
		t.Fatalf("expected q ignored while processing, got %+v", out)
	}
}

func TestResolveEnablementToggleOnlyInList(t *testing.T) {
	out := Resolve(Context{Mode: ServiceList, HasSelection: true}, "t")
	if out.Command != ToggleEnablement || out.Changed {
		t.Fatalf("expected enablement toggle, got %+v", out)
	}
	if out := Resolve(Context{Mode: ServiceList}, "t"); out.Command != None {
		t.Fatalf("expected no toggle without a selection, got %+v", out)
	}
	if out := Resolve(Context{Mode: Search, HasSelection: true}, "t"); out.Command != EditSearch {
		t.Fatalf("expected t to edit search text, got %+v", out)
	}
}

func TestResolveLoggerToggleIsGlobal(t *testing.T) {
	for _, m := range All {
		out := Resolve(Context{Mode: m, Previous: ServiceList}, "ctrl+l")
		if out.Command != ToggleLogger || out.Changed {
			t.Fatalf("%s: expected logger toggle without a mode change, got %+v", m, out)
		}
	}
}

func TestResolveQuitKeys(t *testing.T) {
	for _, m := range All {
		for _, key := range []string{"ctrl+c", "ctrl+q"} {
			if out := Resolve(Context{Mode: m}, key); out.Command != Quit {
				t.Fatalf("%s x %q: expected quit, got %+v", m, key, out)
			}
		}
	}
	if out := Resolve(Context{Mode: ServiceList}, "q"); out.Command != Quit {
		t.Fatalf("expected q to quit from the list")
	}
}

func TestMachineStartsInSearch(t *testing.T) {
	m := NewMachine()
	if m.Current() != Search {
		t.Fatalf("expected search, got %s", m.Current())
	}
}

func TestMachineHelpToggleDoesNotStack(t *testing.T) {
	m := NewMachine()
	m.Enter(ServiceList)
	if got := m.ToggleHelp(); got != Help {
		t.Fatalf("expected help, got %s", got)
	}
	if got := m.ToggleHelp(); got != ServiceList {
		t.Fatalf("expected return to service list, got %s", got)
	}
	m.Enter(ActionMenu)
	m.ToggleHelp()
	m.Enter(Help)
	if got := m.ToggleHelp(); got != ActionMenu {
		t.Fatalf("expected return to action menu, got %s", got)
	}
}

func TestMachineErrorRemembersInterruptedMode(t *testing.T) {
	m := NewMachine()
	m.Enter(Error)
	if m.Previous() != Search {
		t.Fatalf("expected previous search, got %s", m.Previous())
	}
	if got := m.DismissError(); got != Search {
		t.Fatalf("expected search after dismiss, got %s", got)
	}

	m.Enter(Processing)
	m.Enter(Error)
	if got := m.DismissError(); got != ServiceList {
		t.Fatalf("expected processing error to land on service list, got %s", got)
	}
}

func TestMachineHelpOverErrorKeepsSlot(t *testing.T) {
	m := NewMachine()
	m.Enter(ServiceList)
	m.Enter(Error)
	m.ToggleHelp()
	if m.Current() != Help {
		t.Fatalf("expected help, got %s", m.Current())
	}
	if got := m.ToggleHelp(); got != ServiceList {
		t.Fatalf("expected service list, got %s", got)
	}
}

func TestMachineEnterSameModeIsNoop(t *testing.T) {
	m := NewMachine()
	if m.Enter(Search) {
		t.Fatalf("expected no change entering current mode")
	}
}

func TestMachineReplacePrevious(t *testing.T) {
	m := NewMachine()
	m.Enter(Processing)
	m.ToggleHelp()
	if m.ReplacePrevious(ActionMenu, Search) {
		t.Fatalf("expected no replacement for a different saved mode")
	}
	if !m.ReplacePrevious(Processing, ServiceList) {
		t.Fatalf("expected saved processing to be replaced")
	}
	if got := m.ToggleHelp(); got != ServiceList {
		t.Fatalf("expected help to close onto service list, got %s", got)
	}
}
