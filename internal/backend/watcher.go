package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindUnits Kind = iota
)

// Event conveys a refreshed unit snapshot or the error that prevented it.
type Event struct {
	Kind  Kind
	Units []unit.Unit
	Err   error
}

// Lister fetches a unit snapshot from the service manager.
type Lister func(ctx context.Context) ([]unit.Unit, error)

// Watcher lists units at a fixed interval and publishes events. The first
// poll happens one interval after start; the initial load is the caller's.
type Watcher struct {
	list     Lister
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a backend watcher that polls list every interval.
func NewWatcher(list Lister, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		list:     list,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll(KindUnits, w.list)

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events. It is closed once the watcher
// has stopped.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current fetch
// completes; use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll(kind Kind, fetch Lister) {
	defer w.wg.Done()

	emit := func() bool {
		units, err := fetch(w.ctx)
		if w.ctx.Err() != nil {
			return false
		}
		evt := Event{Kind: kind, Units: units, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
