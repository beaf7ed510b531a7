package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/unit"
	"go.uber.org/goleak"
)

func TestWatcherPollsOnInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		w := NewWatcher(func(ctx context.Context) ([]unit.Unit, error) {
			calls.Add(1)
			return []unit.Unit{{ID: unit.ID{Name: "a.service"}}}, nil
		}, time.Second)

		synctest.Wait()
		if calls.Load() != 0 {
			t.Fatalf("expected no poll before the first interval")
		}

		time.Sleep(time.Second)
		evt := <-w.Events()
		if evt.Kind != KindUnits || len(evt.Units) != 1 || evt.Err != nil {
			t.Fatalf("unexpected event %#v", evt)
		}

		time.Sleep(time.Second)
		evt = <-w.Events()
		if calls.Load() != 2 {
			t.Fatalf("expected 2 polls, got %d", calls.Load())
		}

		w.Stop()
		w.Wait()
		if _, ok := <-w.Events(); ok {
			t.Fatalf("expected events channel to close after stop")
		}
	})
}

func TestWatcherForwardsErrors(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("dbus gone")
		w := NewWatcher(func(ctx context.Context) ([]unit.Unit, error) {
			return nil, boom
		}, time.Second)
		time.Sleep(time.Second)
		evt := <-w.Events()
		if !errors.Is(evt.Err, boom) {
			t.Fatalf("expected error event, got %#v", evt)
		}
		w.Stop()
		w.Wait()
	})
}

func TestWatcherStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := NewWatcher(func(ctx context.Context) ([]unit.Unit, error) {
		return nil, nil
	}, time.Millisecond)
	<-w.Events()
	w.Stop()
	w.Wait()
	for range w.Events() {
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var stamps []time.Time
		list := Throttle(func(ctx context.Context) ([]unit.Unit, error) {
			stamps = append(stamps, time.Now())
			return nil, nil
		}, 250*time.Millisecond)

		for i := 0; i < 3; i++ {
			if _, err := list(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if len(stamps) != 3 {
			t.Fatalf("expected 3 calls, got %d", len(stamps))
		}
		for i := 1; i < len(stamps); i++ {
			if gap := stamps[i].Sub(stamps[i-1]); gap < 250*time.Millisecond {
				t.Fatalf("expected calls 250ms apart, got %v", gap)
			}
		}
	})
}

func TestThrottleHonoursCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		list := Throttle(func(ctx context.Context) ([]unit.Unit, error) { return nil, nil }, time.Hour)
		if _, err := list(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if _, err := list(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline error, got %v", err)
		}
	})
}

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(16 * time.Millisecond)
	if d.Request() != Schedule {
		t.Fatalf("expected first request to schedule a flush")
	}
	for i := 0; i < 5; i++ {
		if d.Request() != Coalesced {
			t.Fatalf("expected burst to coalesce")
		}
	}
	if !d.Fire() {
		t.Fatalf("expected a pending flush")
	}
	if d.Pending() {
		t.Fatalf("expected pending flag cleared")
	}
	if d.Request() != Schedule {
		t.Fatalf("expected a new window after firing")
	}
}

func TestDebouncerZeroWindowFlushesImmediately(t *testing.T) {
	d := NewDebouncer(0)
	for i := 0; i < 3; i++ {
		if d.Request() != FlushNow {
			t.Fatalf("expected immediate flush")
		}
	}
	if d.Fire() {
		t.Fatalf("expected nothing pending")
	}
}
