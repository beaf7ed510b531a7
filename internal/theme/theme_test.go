package theme

import (
	"testing"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

func TestForState(t *testing.T) {
	s := Default()
	cases := map[string]any{
		"active":     s.StateActive,
		"failed":     s.StateFailed,
		"inactive":   s.StateInactive,
		"activating": s.StateOther,
		"":           s.StateOther,
	}
	for raw, want := range cases {
		if got := s.ForState(unit.ParseActiveState(raw)); got != want {
			t.Fatalf("state %q: unexpected style", raw)
		}
	}
}
