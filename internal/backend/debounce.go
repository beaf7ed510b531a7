package backend

import "time"

// Decision tells the caller what to do with a render request.
type Decision int

const (
	// FlushNow means render immediately.
	FlushNow Decision = iota
	// Schedule means start a timer for Window and call Fire when it expires.
	Schedule
	// Coalesced means a flush is already pending; nothing to do.
	Coalesced
)

// Debouncer coalesces bursts of render requests into one flush per window.
// It holds a single pending flag and is owned by the dispatch loop.
type Debouncer struct {
	window  time.Duration
	pending bool
}

// NewDebouncer returns a debouncer. A zero window flushes every request.
func NewDebouncer(window time.Duration) *Debouncer {
	if window < 0 {
		window = 0
	}
	return &Debouncer{window: window}
}

// Window is the coalescing delay.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Request registers a render request.
func (d *Debouncer) Request() Decision {
	if d.window == 0 {
		return FlushNow
	}
	if d.pending {
		return Coalesced
	}
	d.pending = true
	return Schedule
}

// Fire clears the pending flag once the scheduled timer expires. It reports
// whether a flush was pending.
func (d *Debouncer) Fire() bool {
	was := d.pending
	d.pending = false
	return was
}

// Pending reports whether a flush is scheduled.
func (d *Debouncer) Pending() bool {
	return d.pending
}
