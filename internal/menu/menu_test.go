package menu

import (
	"testing"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

func TestForUnitDefaultItems(t *testing.T) {
	id := unit.ID{Name: "sshd.service"}
	items := ForUnit(unit.Unit{ID: id})
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	want := []action.Action{
		action.StartService{ID: id},
		action.StopService{ID: id},
		action.RestartService{ID: id},
		action.CopyUnitFilePath{ID: id},
	}
	for i, item := range items {
		if item.Action != want[i] {
			t.Fatalf("item %d: expected %#v, got %#v", i, want[i], item.Action)
		}
		if item.Label == "" {
			t.Fatalf("item %d has no label", i)
		}
	}
}

func TestForUnitStaysAtFourItemsWhenEnablementKnown(t *testing.T) {
	id := unit.ID{Name: "cups.service"}
	for _, state := range []string{"enabled", "disabled", "static", ""} {
		items := ForUnit(unit.Unit{ID: id, Enablement: state})
		if len(items) != 4 {
			t.Fatalf("enablement %q: expected 4 items, got %d", state, len(items))
		}
		for _, item := range items {
			switch item.Action.(type) {
			case action.EnableService, action.DisableService:
				t.Fatalf("enablement %q: unexpected %s item in menu", state, item.Label)
			}
		}
	}
}

func TestEnablementToggle(t *testing.T) {
	id := unit.ID{Name: "cups.service", Scope: unit.User}
	cases := []struct {
		state string
		want  action.Action
	}{
		{"enabled", action.DisableService{ID: id}},
		{"enabled-runtime", action.DisableService{ID: id}},
		{"disabled", action.EnableService{ID: id}},
		{"static", nil},
		{"masked", nil},
		{"", nil},
	}
	for _, tc := range cases {
		item, ok := EnablementToggle(unit.Unit{ID: id, Enablement: tc.state})
		if tc.want == nil {
			if ok {
				t.Fatalf("%q: expected no toggle, got %#v", tc.state, item)
			}
			continue
		}
		if !ok || item.Action != tc.want || item.Label == "" {
			t.Fatalf("%q: expected %#v, got %#v (ok=%v)", tc.state, tc.want, item, ok)
		}
	}
}
