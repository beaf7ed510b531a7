package testutil

import (
	"reflect"
	"sync"

	"github.com/atomicstack/systemctl-tui/internal/action"
)

// Recorder collects actions delivered to a sink.
type Recorder struct {
	mu      sync.Mutex
	actions []action.Action
}

// Sink records a.
func (r *Recorder) Sink(a action.Action) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
}

// Actions returns a copy of everything recorded so far.
func (r *Recorder) Actions() []action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]action.Action(nil), r.actions...)
}

// Drain returns and forgets everything recorded so far.
func (r *Recorder) Drain() []action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.actions
	r.actions = nil
	return out
}

// Count returns how many recorded actions share the dynamic type of sample.
func (r *Recorder) Count(sample action.Action) int {
	want := reflect.TypeOf(sample)
	n := 0
	for _, a := range r.Actions() {
		if reflect.TypeOf(a) == want {
			n++
		}
	}
	return n
}
