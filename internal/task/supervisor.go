// Package task runs background work for the dispatch loop: one cancellable
// service action at a time, and a redirectable journal follower. Results only
// ever reach application state as actions delivered through a Sink.
package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/logging/events"
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/google/uuid"
)

// PermissionHint is appended to failures caused by missing privileges.
const PermissionHint = "\n\nTry running this tool with sudo."

// ErrCancelled may be returned by an operation that noticed cancellation on
// its own. It is reported as a cancelled outcome.
var ErrCancelled = errors.New("task cancelled")

// Sink delivers actions to the dispatch loop. It may block until the loop
// accepts the action.
type Sink func(action.Action)

// Operation is a service-manager call. It must return once ctx is cancelled.
type Operation func(ctx context.Context) error

// Options tunes supervisor timing. Zero values select the defaults.
type Options struct {
	TickInterval    time.Duration
	RefreshCount    int
	RefreshInterval time.Duration
	LogDebounce     time.Duration
	LogLines        int
	// IsPermissionError classifies failures that deserve the sudo hint.
	IsPermissionError func(error) bool
	NewID             func() string
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = 200 * time.Millisecond
	}
	if o.RefreshCount < 0 {
		o.RefreshCount = 0
	} else if o.RefreshCount == 0 {
		o.RefreshCount = 3
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = time.Second
	}
	if o.LogDebounce <= 0 {
		o.LogDebounce = 100 * time.Millisecond
	}
	if o.LogLines <= 0 {
		o.LogLines = 500
	}
	if o.IsPermissionError == nil {
		o.IsPermissionError = looksLikePermissionError
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

type handle struct {
	id     string
	cancel context.CancelFunc
}

// Supervisor owns the task slot. Run, Cancel, Release, Current, Follow and
// StopFollow must only be called from the dispatch loop.
type Supervisor struct {
	sink Sink
	opts Options

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	slot *handle
	logs *follower
}

// NewSupervisor starts the log follower and returns a supervisor with an
// empty slot. logs and paths may be nil to disable log following.
func NewSupervisor(sink Sink, logs LogSource, paths PathResolver, opts Options) *Supervisor {
	opts = opts.withDefaults()
	ctx, stop := context.WithCancel(context.Background())
	s := &Supervisor{sink: sink, opts: opts, ctx: ctx, stop: stop}
	if logs != nil {
		s.logs = newFollower(sink, logs, paths, opts.LogDebounce, opts.LogLines)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.logs.run(ctx)
		}()
	}
	return s
}

// Run places a fresh handle in the slot and starts op. Any previous handle is
// orphaned, not cancelled. It returns the task id and the action that moves
// the UI into Processing.
func (s *Supervisor) Run(id unit.ID, verb string, op Operation) (string, action.Action) {
	ctx, cancel := context.WithCancel(s.ctx)
	h := &handle{id: s.opts.NewID(), cancel: cancel}
	s.slot = h
	events.Task.Start(h.id, verb, id.String())

	s.wg.Add(1)
	go s.run(ctx, h, id, verb, op)
	return h.id, action.EnterMode{Mode: mode.Processing}
}

// Cancel takes the current handle out of the slot and signals it. It does not
// wait for the operation to unwind.
func (s *Supervisor) Cancel() bool {
	h := s.slot
	s.slot = nil
	if h == nil {
		return false
	}
	events.Task.Cancel(h.id)
	h.cancel()
	return true
}

// Current returns the id of the task in the slot, or "".
func (s *Supervisor) Current() string {
	if s.slot == nil {
		return ""
	}
	return s.slot.id
}

// Release empties the slot when taskID still owns it. A false result means
// the task was cancelled or superseded and its result is stale.
func (s *Supervisor) Release(taskID string) bool {
	if s.slot == nil || s.slot.id != taskID {
		return false
	}
	s.slot = nil
	return true
}

// Follow redirects the journal follower to id.
func (s *Supervisor) Follow(id unit.ID) {
	if s.logs != nil {
		events.Log.Redirect(id.String())
		s.logs.redirect(id)
	}
}

// StopFollow abandons the current journal follow.
func (s *Supervisor) StopFollow() {
	if s.logs != nil {
		s.logs.redirect(unit.ID{})
	}
}

// Shutdown signals every background goroutine to stop. Use Wait to block until
// they have exited.
func (s *Supervisor) Shutdown() {
	if h := s.slot; h != nil {
		s.slot = nil
		h.cancel()
	}
	s.stop()
}

// Wait blocks until every goroutine started by the supervisor has exited.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) run(ctx context.Context, h *handle, id unit.ID, verb string, op Operation) {
	defer s.wg.Done()
	defer h.cancel()

	tickDone := make(chan struct{})
	tickStopped := s.tick(h.id, tickDone)

	outcome, msg := s.race(ctx, id, verb, op)
	close(tickDone)
	<-tickStopped

	events.Task.Finish(h.id, outcome.String(), msg)
	if outcome == action.Cancelled {
		logging.Logger().Warn("task cancelled", "task", h.id, "unit", id.String(), "verb", verb)
	}
	s.emit(action.TaskFinished{TaskID: h.id, Label: verb, Outcome: outcome, Message: msg})
	s.refreshBurst(h.id)
}

// race runs op and reports cancellation as soon as ctx is done, discarding
// whatever op returns afterwards.
func (s *Supervisor) race(ctx context.Context, id unit.ID, verb string, op Operation) (action.Outcome, string) {
	done := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		done <- op(ctx)
	}()

	select {
	case <-ctx.Done():
		return action.Cancelled, ""
	case err := <-done:
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrCancelled) {
			return action.Cancelled, ""
		}
		if err == nil {
			return action.Succeeded, ""
		}
		return action.Failed, s.describe(id, verb, err)
	}
}

func (s *Supervisor) describe(id unit.ID, verb string, err error) string {
	msg := fmt.Sprintf("Failed to %s %s: %v", verb, id.Name, err)
	if s.opts.IsPermissionError(err) {
		msg += PermissionHint
	}
	return msg
}

func (s *Supervisor) tick(taskID string, done <-chan struct{}) <-chan struct{} {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(s.opts.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.emit(action.SpinnerTick{TaskID: taskID})
			}
		}
	}()
	return stopped
}

// refreshBurst requests one immediate refresh, then a fixed number of delayed
// ones so state changes made by the service manager show up quickly.
func (s *Supervisor) refreshBurst(taskID string) {
	s.emit(action.RefreshServices{})
	for i := 1; i <= s.opts.RefreshCount; i++ {
		timer := time.NewTimer(s.opts.RefreshInterval)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		events.Task.Refresh(taskID, i)
		s.emit(action.RefreshServices{})
	}
}

func (s *Supervisor) emit(a action.Action) {
	if s.ctx.Err() != nil {
		return
	}
	s.sink(a)
}

func looksLikePermissionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "AccessDenied") ||
		strings.Contains(msg, "Access denied") ||
		strings.Contains(msg, "InteractiveAuthorizationRequired")
}
