package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/unit"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestArgs(t *testing.T) {
	global := unit.ID{Name: "sshd.service"}
	user := unit.ID{Name: "pipewire.service", Scope: unit.User}

	require.Equal(t,
		[]string{"--quiet", "-u", "sshd.service", "--output=short-iso", "--lines=500"},
		recentArgs(global, 500))
	require.Equal(t,
		[]string{"--quiet", "--user-unit", "pipewire.service", "--output=short-iso", "--follow", "--lines=0"},
		followArgs(user))
}

func TestSplitLines(t *testing.T) {
	require.Nil(t, splitLines(""))
	require.Nil(t, splitLines("\n"))
	require.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb\n"))
}

// fakeJournalctl writes a script that prints its arguments and then the given
// body output.
func fakeJournalctl(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journalctl")
	script := "#!/bin/sh\necho \"args: $*\"\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRecentRunsBinary(t *testing.T) {
	r := &Reader{Binary: fakeJournalctl(t, "echo '2024-01-02T15:04:05+0000 host sshd[1]: ready'")}
	lines, err := r.Recent(context.Background(), unit.ID{Name: "sshd.service"}, 10)
	require.NoError(t, err)
	require.Equal(t, []string{
		"args: --quiet -u sshd.service --output=short-iso --lines=10",
		"2024-01-02T15:04:05+0000 host sshd[1]: ready",
	}, lines)
}

func TestRecentReportsFailure(t *testing.T) {
	r := &Reader{Binary: fakeJournalctl(t, "exit 1")}
	_, err := r.Recent(context.Background(), unit.ID{Name: "sshd.service"}, 10)
	require.Error(t, err)
}

func TestFollowStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := &Reader{Binary: fakeJournalctl(t, "echo first\nexec sleep 30")}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := r.Follow(ctx, unit.ID{Name: "sshd.service"})
	require.NoError(t, err)

	var got []string
	for len(got) < 2 {
		select {
		case line := <-ch:
			got = append(got, line)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for lines, got %v", got)
		}
	}
	require.Equal(t, "first", got[1])

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected channel to close after cancel")
	}
}
