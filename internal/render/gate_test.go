package render

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFrameDrawsOnlyWhenDirty(t *testing.T) {
	g := NewGate()
	n := 0
	draw := func() string {
		n++
		return "frame"
	}
	if got := g.Frame(draw); got != "frame" {
		t.Fatalf("expected frame, got %q", got)
	}
	g.Frame(draw)
	g.Frame(draw)
	if n != 1 {
		t.Fatalf("expected a single draw, got %d", n)
	}
	g.Invalidate()
	g.Invalidate()
	g.Frame(draw)
	if n != 2 || g.Draws() != 2 {
		t.Fatalf("expected invalidations to coalesce into one draw, got %d", n)
	}
}

func TestFrameNeverDrawsConcurrently(t *testing.T) {
	g := NewGate()
	var inFlight, maxInFlight atomic.Int32
	draw := func() string {
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return "x"
	}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				g.Invalidate()
				g.Frame(draw)
			}
		}()
	}
	wg.Wait()
	if maxInFlight.Load() != 1 {
		t.Fatalf("expected at most one draw in flight, saw %d", maxInFlight.Load())
	}
}

func TestAcquiredTerminalServesCachedFrame(t *testing.T) {
	g := NewGate()
	g.Frame(func() string { return "before" })
	g.Acquire()
	g.Invalidate()
	called := false
	if got := g.Frame(func() string { called = true; return "during" }); got != "before" {
		t.Fatalf("expected cached frame while terminal is held, got %q", got)
	}
	if called {
		t.Fatalf("expected no draw while terminal is held")
	}
	g.Release()
	if got := g.Frame(func() string { return "after" }); got != "after" {
		t.Fatalf("expected redraw after release, got %q", got)
	}
}

func TestResetClearsFrame(t *testing.T) {
	g := NewGate()
	g.Frame(func() string { return "old" })
	g.Reset()
	if got := g.Frame(func() string { return "new" }); got != "new" {
		t.Fatalf("expected redraw after reset, got %q", got)
	}
}
