package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// Call records one service-manager operation.
type Call struct {
	Verb string
	ID   unit.ID
}

// FakeServices is an in-memory service manager.
type FakeServices struct {
	mu      sync.Mutex
	units   []unit.Unit
	listErr error
	opErr   error
	paths   map[unit.ID]string
	block   bool
	calls   []Call
	lists   int
	started chan Call
}

// NewFakeServices returns a manager listing units.
func NewFakeServices(units ...unit.Unit) *FakeServices {
	return &FakeServices{
		units:   units,
		paths:   make(map[unit.ID]string),
		started: make(chan Call, 64),
	}
}

// SetUnits changes the next listing.
func (f *FakeServices) SetUnits(units ...unit.Unit) {
	f.mu.Lock()
	f.units = units
	f.mu.Unlock()
}

// SetListError makes listings fail.
func (f *FakeServices) SetListError(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

// SetOpError makes every operation fail with err.
func (f *FakeServices) SetOpError(err error) {
	f.mu.Lock()
	f.opErr = err
	f.mu.Unlock()
}

// SetBlocking makes operations wait for their context to be cancelled.
func (f *FakeServices) SetBlocking(block bool) {
	f.mu.Lock()
	f.block = block
	f.mu.Unlock()
}

// SetPath registers a unit-file path.
func (f *FakeServices) SetPath(id unit.ID, path string) {
	f.mu.Lock()
	f.paths[id] = path
	f.mu.Unlock()
}

// Started delivers each operation as it begins.
func (f *FakeServices) Started() <-chan Call {
	return f.started
}

// Calls returns the operations invoked so far.
func (f *FakeServices) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lists returns how many times ListUnits ran.
func (f *FakeServices) Lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *FakeServices) ListUnits(ctx context.Context) ([]unit.Unit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]unit.Unit, len(f.units))
	for i, u := range f.units {
		out[i] = u.Clone()
	}
	return out, nil
}

func (f *FakeServices) Start(ctx context.Context, id unit.ID) error {
	return f.op(ctx, "start", id)
}

func (f *FakeServices) Stop(ctx context.Context, id unit.ID) error {
	return f.op(ctx, "stop", id)
}

func (f *FakeServices) Restart(ctx context.Context, id unit.ID) error {
	return f.op(ctx, "restart", id)
}

func (f *FakeServices) Enable(ctx context.Context, id unit.ID) error {
	return f.op(ctx, "enable", id)
}

func (f *FakeServices) Disable(ctx context.Context, id unit.ID) error {
	return f.op(ctx, "disable", id)
}

func (f *FakeServices) UnitFilePath(ctx context.Context, id unit.ID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path, ok := f.paths[id]
	if !ok {
		return "", errors.New("no unit file")
	}
	return path, nil
}

func (f *FakeServices) op(ctx context.Context, verb string, id unit.ID) error {
	f.mu.Lock()
	call := Call{Verb: verb, ID: id}
	f.calls = append(f.calls, call)
	block, err := f.block, f.opErr
	f.mu.Unlock()

	select {
	case f.started <- call:
	default:
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

// FakeJournal serves canned lines and hand-fed follow streams.
type FakeJournal struct {
	mu       sync.Mutex
	recent   map[unit.ID][]string
	streams  map[unit.ID]chan string
	requests []unit.ID
}

func NewFakeJournal() *FakeJournal {
	return &FakeJournal{
		recent:  make(map[unit.ID][]string),
		streams: make(map[unit.ID]chan string),
	}
}

// SetRecent registers the history returned for id.
func (j *FakeJournal) SetRecent(id unit.ID, lines ...string) {
	j.mu.Lock()
	j.recent[id] = lines
	j.mu.Unlock()
}

// Stream returns the channel feeding id's follow subscription.
func (j *FakeJournal) Stream(id unit.ID) chan string {
	j.mu.Lock()
	defer j.mu.Unlock()
	ch, ok := j.streams[id]
	if !ok {
		ch = make(chan string, 16)
		j.streams[id] = ch
	}
	return ch
}

// Requests lists the ids whose history was fetched, in order.
func (j *FakeJournal) Requests() []unit.ID {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]unit.ID(nil), j.requests...)
}

func (j *FakeJournal) Recent(ctx context.Context, id unit.ID, max int) ([]string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.requests = append(j.requests, id)
	lines := j.recent[id]
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	return append([]string(nil), lines...), nil
}

func (j *FakeJournal) Follow(ctx context.Context, id unit.ID) (<-chan string, error) {
	src := j.Stream(id)
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case line := <-src:
				select {
				case out <- line:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
