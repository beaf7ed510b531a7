// Package testutil provides fakes and polling helpers shared by package tests.
package testutil

import (
	"testing"
	"time"
)

// WaitFor polls cond every few milliseconds until it holds or timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		if cond() {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %s", what)
		case <-time.After(5 * time.Millisecond):
		}
	}
}
