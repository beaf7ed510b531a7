// Package journal reads unit logs through journalctl.
package journal

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/atomicstack/systemctl-tui/internal/logging"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

// Reader runs journalctl for one unit at a time.
type Reader struct {
	// Binary defaults to "journalctl".
	Binary string
}

// New returns a reader using the journalctl found on PATH.
func New() *Reader {
	return &Reader{Binary: "journalctl"}
}

func (r *Reader) binary() string {
	if r == nil || r.Binary == "" {
		return "journalctl"
	}
	return r.Binary
}

func unitArgs(id unit.ID) []string {
	if id.Scope == unit.User {
		return []string{"--user-unit", id.Name}
	}
	return []string{"-u", id.Name}
}

func recentArgs(id unit.ID, max int) []string {
	args := append([]string{"--quiet"}, unitArgs(id)...)
	return append(args, "--output=short-iso", "--lines="+strconv.Itoa(max))
}

func followArgs(id unit.ID) []string {
	args := append([]string{"--quiet"}, unitArgs(id)...)
	return append(args, "--output=short-iso", "--follow", "--lines=0")
}

// Recent returns up to max of the newest lines, oldest first.
func (r *Reader) Recent(ctx context.Context, id unit.ID, max int) ([]string, error) {
	cmd := exec.CommandContext(ctx, r.binary(), recentArgs(id, max)...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("journalctl %s: %w", id.Name, err)
	}
	return splitLines(string(out)), nil
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Follow streams lines written after the call until ctx is cancelled. The
// channel is closed once journalctl exits.
func (r *Reader) Follow(ctx context.Context, id unit.ID) (<-chan string, error) {
	cmd := exec.CommandContext(ctx, r.binary(), followArgs(id)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("journalctl stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start journalctl: %w", err)
	}

	ch := make(chan string, 64)
	go func() {
		defer close(ch)
		defer func() {
			if err := cmd.Wait(); err != nil && ctx.Err() == nil {
				logging.Logger().Debug("journalctl exited", "unit", id.String(), "err", err)
			}
		}()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case ch <- scanner.Text():
			}
		}
	}()
	return ch, nil
}
