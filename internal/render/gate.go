// Package render serializes terminal paints.
package render

import (
	"sync"
	"sync/atomic"
)

// Gate lets at most one draw run at a time and guards the terminal while an
// external program (an editor) owns it. Requests arriving while a draw is in
// flight or the terminal is released are not queued; they see the last frame.
type Gate struct {
	term  sync.Mutex
	dirty atomic.Bool
	frame atomic.Pointer[string]
	draws atomic.Int64
}

// NewGate returns a gate whose first Frame call draws.
func NewGate() *Gate {
	g := &Gate{}
	empty := ""
	g.frame.Store(&empty)
	g.dirty.Store(true)
	return g
}

// Invalidate marks the cached frame stale so the next Frame redraws.
func (g *Gate) Invalidate() {
	g.dirty.Store(true)
}

// Frame returns the current frame, calling draw first when it is stale and
// the terminal is free. draw must only read application state.
func (g *Gate) Frame(draw func() string) string {
	if !g.term.TryLock() {
		return *g.frame.Load()
	}
	defer g.term.Unlock()
	if g.dirty.CompareAndSwap(true, false) {
		out := draw()
		g.frame.Store(&out)
		g.draws.Add(1)
	}
	return *g.frame.Load()
}

// Acquire takes exclusive ownership of the terminal, waiting for an in-flight
// draw to finish.
func (g *Gate) Acquire() {
	g.term.Lock()
}

// Release hands the terminal back and forces a full redraw.
func (g *Gate) Release() {
	g.dirty.Store(true)
	g.term.Unlock()
}

// Reset drops the cached frame, used when the terminal is re-initialised.
func (g *Gate) Reset() {
	empty := ""
	g.frame.Store(&empty)
	g.dirty.Store(true)
}

// Draws counts how many times draw has run.
func (g *Gate) Draws() int64 {
	return g.draws.Load()
}
