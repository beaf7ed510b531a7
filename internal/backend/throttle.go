package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// DefaultListThrottle spaces consecutive unit listings.
const DefaultListThrottle = 250 * time.Millisecond

// throttle ensures a minimum interval between successive operations.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return nil
	}
	for {
		t.mu.Lock()
		wait := time.Until(t.next)
		if wait <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Throttle wraps list so that calls through the returned lister, from any
// goroutine, start at least interval apart. The periodic poll and the refresh
// burst after a service action share one throttled lister.
func Throttle(list Lister, interval time.Duration) Lister {
	t := newThrottle(interval)
	return func(ctx context.Context) ([]unit.Unit, error) {
		if err := t.wait(ctx); err != nil {
			return nil, err
		}
		return list(ctx)
	}
}
