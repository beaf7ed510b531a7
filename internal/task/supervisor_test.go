package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/mode"
	"github.com/atomicstack/systemctl-tui/internal/testutil"
	"github.com/atomicstack/systemctl-tui/internal/unit"
	"go.uber.org/goleak"
)

var sshd = unit.ID{Name: "sshd.service"}

func finished(t *testing.T, rec *testutil.Recorder) []action.TaskFinished {
	t.Helper()
	var out []action.TaskFinished
	for _, a := range rec.Actions() {
		if f, ok := a.(action.TaskFinished); ok {
			out = append(out, f)
		}
	}
	return out
}

func blockUntilCancelled(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunSucceedsAndSchedulesRefreshBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{})

		id, follow := s.Run(sshd, "start", func(ctx context.Context) error { return nil })
		if enter, ok := follow.(action.EnterMode); !ok || enter.Mode != mode.Processing {
			t.Fatalf("expected EnterMode(Processing), got %#v", follow)
		}
		if s.Current() != id {
			t.Fatalf("expected slot to hold %s, got %s", id, s.Current())
		}

		synctest.Wait()
		done := finished(t, rec)
		if len(done) != 1 || done[0].Outcome != action.Succeeded || done[0].TaskID != id {
			t.Fatalf("unexpected completion %#v", done)
		}
		if n := rec.Count(action.RefreshServices{}); n != 1 {
			t.Fatalf("expected one immediate refresh, got %d", n)
		}

		time.Sleep(3500 * time.Millisecond)
		synctest.Wait()
		if n := rec.Count(action.RefreshServices{}); n != 4 {
			t.Fatalf("expected 4 refreshes after the burst, got %d", n)
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestRunTicksWhileRunning(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})

		s.Run(sshd, "restart", blockUntilCancelled)
		time.Sleep(900 * time.Millisecond)
		synctest.Wait()
		if n := rec.Count(action.SpinnerTick{}); n != 4 {
			t.Fatalf("expected 4 ticks in 900ms, got %d", n)
		}

		if !s.Cancel() {
			t.Fatalf("expected cancel to take a handle")
		}
		synctest.Wait()
		ticks := rec.Count(action.SpinnerTick{})
		time.Sleep(time.Second)
		synctest.Wait()
		if rec.Count(action.SpinnerTick{}) != ticks {
			t.Fatalf("expected ticks to stop after completion")
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestCancelReportsCancelledAndEmptiesSlot(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})

		id, _ := s.Run(sshd, "stop", blockUntilCancelled)
		if !s.Cancel() {
			t.Fatalf("expected cancel to succeed")
		}
		if s.Current() != "" {
			t.Fatalf("expected empty slot after cancel")
		}
		if s.Cancel() {
			t.Fatalf("expected second cancel to be a no-op")
		}
		synctest.Wait()

		done := finished(t, rec)
		if len(done) != 1 || done[0].Outcome != action.Cancelled {
			t.Fatalf("expected cancelled outcome, got %#v", done)
		}
		if s.Release(id) {
			t.Fatalf("expected cancelled task to be stale")
		}
		if rec.Count(action.RefreshServices{}) != 1 {
			t.Fatalf("expected cancelled task to still request a refresh")
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestLateResultAfterCancelIsDiscarded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})

		s.Run(sshd, "start", func(ctx context.Context) error {
			<-ctx.Done()
			return errors.New("unit failed to start")
		})
		s.Cancel()
		synctest.Wait()

		done := finished(t, rec)
		if len(done) != 1 || done[0].Outcome != action.Cancelled || done[0].Message != "" {
			t.Fatalf("expected late error to be discarded, got %#v", done)
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestNewRunOrphansPreviousHandle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})

		var firstCancelled atomic.Bool
		first, _ := s.Run(sshd, "start", func(ctx context.Context) error {
			<-ctx.Done()
			firstCancelled.Store(true)
			return ctx.Err()
		})
		second, _ := s.Run(sshd, "stop", blockUntilCancelled)
		if s.Current() != second {
			t.Fatalf("expected slot to hold the newest task")
		}

		s.Cancel()
		synctest.Wait()
		if firstCancelled.Load() {
			t.Fatalf("expected cancel to reach only the newest handle")
		}
		if s.Release(first) {
			t.Fatalf("expected orphaned task to be stale")
		}

		s.Shutdown()
		s.Wait()
		if !firstCancelled.Load() {
			t.Fatalf("expected shutdown to stop the orphaned task")
		}
	})
}

func TestFailureCarriesPermissionHint(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})

		id, _ := s.Run(sshd, "restart", func(ctx context.Context) error {
			return errors.New("org.freedesktop.DBus.Error.AccessDenied: not allowed")
		})
		synctest.Wait()

		done := finished(t, rec)
		if len(done) != 1 || done[0].Outcome != action.Failed {
			t.Fatalf("expected failure, got %#v", done)
		}
		msg := done[0].Message
		if !strings.HasPrefix(msg, "Failed to restart sshd.service") || !strings.HasSuffix(msg, PermissionHint) {
			t.Fatalf("unexpected message %q", msg)
		}
		if !s.Release(id) {
			t.Fatalf("expected finished task to still own the slot")
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestPlainFailureHasNoHint(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})
		s.Run(sshd, "start", func(ctx context.Context) error { return errors.New("unit not found") })
		synctest.Wait()
		done := finished(t, rec)
		if len(done) != 1 || strings.Contains(done[0].Message, "sudo") {
			t.Fatalf("unexpected completion %#v", done)
		}
		s.Shutdown()
		s.Wait()
	})
}

func TestShutdownLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	rec := &testutil.Recorder{}
	journal := testutil.NewFakeJournal()
	s := NewSupervisor(rec.Sink, journal, nil, Options{
		TickInterval:    time.Millisecond,
		RefreshInterval: time.Millisecond,
		LogDebounce:     time.Millisecond,
	})
	s.Follow(sshd)
	testutil.WaitFor(t, time.Second, "log history", func() bool {
		return rec.Count(action.SetLogs{}) == 1
	})
	s.Run(sshd, "start", blockUntilCancelled)
	s.Run(sshd, "stop", blockUntilCancelled)

	s.Shutdown()
	s.Wait()
}

func TestSelfReportedCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, nil, nil, Options{RefreshCount: -1})
		s.Run(sshd, "stop", func(ctx context.Context) error { return fmt.Errorf("job aborted: %w", ErrCancelled) })
		synctest.Wait()
		done := finished(t, rec)
		if len(done) != 1 || done[0].Outcome != action.Cancelled {
			t.Fatalf("expected cancelled outcome, got %#v", done)
		}
		s.Shutdown()
		s.Wait()
	})
}
