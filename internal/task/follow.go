package task

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// NoLogsMessage replaces an empty journal result.
const NoLogsMessage = "No logs found/available. Maybe try relaunching with `sudo systemctl-tui`"

// LogSource is the journal collaborator.
type LogSource interface {
	Recent(ctx context.Context, id unit.ID, max int) ([]string, error)
	// Follow streams new lines until ctx is cancelled, then closes the channel.
	Follow(ctx context.Context, id unit.ID) (<-chan string, error)
}

// PathResolver looks up a unit's file path.
type PathResolver interface {
	UnitFilePath(ctx context.Context, id unit.ID) (string, error)
}

// follower serves the most recent redirect request only. A redirect abandons
// the previous stream, then waits for a quiet period before starting the
// next one so fast scrolling does not spawn a journalctl per row.
type follower struct {
	sink     Sink
	src      LogSource
	paths    PathResolver
	debounce time.Duration
	lines    int

	requests chan unit.ID
}

func newFollower(sink Sink, src LogSource, paths PathResolver, debounce time.Duration, lines int) *follower {
	return &follower{
		sink:     sink,
		src:      src,
		paths:    paths,
		debounce: debounce,
		lines:    lines,
		requests: make(chan unit.ID, 1),
	}
}

// redirect replaces any pending request with id. A zero id stops following.
func (f *follower) redirect(id unit.ID) {
	for {
		select {
		case f.requests <- id:
			return
		default:
		}
		select {
		case <-f.requests:
		default:
		}
	}
}

func (f *follower) run(ctx context.Context) {
	var wg sync.WaitGroup
	cancel := context.CancelFunc(func() {})
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		var id unit.ID
		select {
		case <-ctx.Done():
			return
		case id = <-f.requests:
		}
		cancel()

		id, ok := f.settle(ctx, id)
		if !ok {
			return
		}
		if id.IsZero() {
			continue
		}

		var streamCtx context.Context
		streamCtx, cancel = context.WithCancel(ctx)
		wg.Add(1)
		go func(id unit.ID) {
			defer wg.Done()
			f.stream(streamCtx, id)
		}(id)
	}
}

// settle drains redirects until none arrives for the debounce window.
func (f *follower) settle(ctx context.Context, id unit.ID) (unit.ID, bool) {
	timer := time.NewTimer(f.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return id, false
		case id = <-f.requests:
			timer.Reset(f.debounce)
		case <-timer.C:
			return id, true
		}
	}
}

func (f *follower) stream(ctx context.Context, id unit.ID) {
	if f.paths != nil {
		path, err := f.paths.UnitFilePath(ctx, id)
		if ctx.Err() != nil {
			return
		}
		msg := action.SetUnitFilePath{ID: id, Path: path}
		if err != nil {
			msg.Err = err.Error()
		}
		f.emit(ctx, msg)
	}

	lines, err := f.src.Recent(ctx, id, f.lines)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logging.Logger().Warn("fetch recent logs", "unit", id.String(), "err", err)
	}
	if len(lines) == 0 {
		lines = []string{NoLogsMessage}
	}
	f.emit(ctx, action.SetLogs{ID: id, Lines: lines})

	ch, err := f.src.Follow(ctx, id)
	if err != nil {
		if ctx.Err() == nil {
			logging.Logger().Warn("follow logs", "unit", id.String(), "err", err)
		}
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-ch:
			if !ok {
				return
			}
			f.emit(ctx, action.AppendLogLine{ID: id, Line: line})
		}
	}
}

func (f *follower) emit(ctx context.Context, a action.Action) {
	if ctx.Err() != nil {
		return
	}
	f.sink(a)
}
