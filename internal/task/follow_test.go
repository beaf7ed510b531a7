package task

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/atomicstack/systemctl-tui/internal/action"
	"github.com/atomicstack/systemctl-tui/internal/testutil"
	"github.com/atomicstack/systemctl-tui/internal/unit"
)

func logActions(rec *testutil.Recorder) (sets []action.SetLogs, appends []action.AppendLogLine, paths []action.SetUnitFilePath) {
	for _, a := range rec.Actions() {
		switch v := a.(type) {
		case action.SetLogs:
			sets = append(sets, v)
		case action.AppendLogLine:
			appends = append(appends, v)
		case action.SetUnitFilePath:
			paths = append(paths, v)
		}
	}
	return sets, appends, paths
}

func TestFollowDebouncesToLatestRedirect(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := unit.ID{Name: "a.service"}
		b := unit.ID{Name: "b.service"}
		journal := testutil.NewFakeJournal()
		journal.SetRecent(b, "2024-01-02T15:04:05+0000 host b[1]: ready")
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, journal, nil, Options{})

		s.Follow(a)
		time.Sleep(50 * time.Millisecond)
		s.Follow(b)
		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		if got := journal.Requests(); len(got) != 1 || got[0] != b {
			t.Fatalf("expected only %v to be fetched, got %v", b, got)
		}
		sets, _, _ := logActions(rec)
		if len(sets) != 1 || sets[0].ID != b || len(sets[0].Lines) != 1 {
			t.Fatalf("unexpected history %#v", sets)
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestFollowStreamsUntilRedirected(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := unit.ID{Name: "a.service"}
		b := unit.ID{Name: "b.service"}
		journal := testutil.NewFakeJournal()
		journal.SetRecent(a, "one")
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, journal, nil, Options{})

		s.Follow(a)
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		journal.Stream(a) <- "two"
		synctest.Wait()

		_, appends, _ := logActions(rec)
		if len(appends) != 1 || appends[0].ID != a || appends[0].Line != "two" {
			t.Fatalf("expected streamed line for a, got %#v", appends)
		}

		s.Follow(b)
		synctest.Wait()
		journal.Stream(a) <- "three"
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		_, appends, _ = logActions(rec)
		for _, line := range appends {
			if line.Line == "three" {
				t.Fatalf("expected abandoned stream to stay silent")
			}
		}
		sets, _, _ := logActions(rec)
		if len(sets) != 2 || sets[1].ID != b || sets[1].Lines[0] != NoLogsMessage {
			t.Fatalf("expected empty history placeholder for b, got %#v", sets)
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestStopFollowAbandonsStream(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := unit.ID{Name: "a.service"}
		journal := testutil.NewFakeJournal()
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, journal, nil, Options{})

		s.Follow(a)
		time.Sleep(150 * time.Millisecond)
		s.StopFollow()
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		journal.Stream(a) <- "late"
		synctest.Wait()

		if _, appends, _ := logActions(rec); len(appends) != 0 {
			t.Fatalf("expected no lines after stop, got %#v", appends)
		}

		s.Shutdown()
		s.Wait()
	})
}

func TestFollowResolvesUnitFilePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := unit.ID{Name: "a.service"}
		b := unit.ID{Name: "b.service"}
		services := testutil.NewFakeServices()
		services.SetPath(a, "/etc/systemd/system/a.service")
		rec := &testutil.Recorder{}
		s := NewSupervisor(rec.Sink, testutil.NewFakeJournal(), services, Options{})

		s.Follow(a)
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		s.Follow(b)
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		_, _, paths := logActions(rec)
		if len(paths) != 2 {
			t.Fatalf("expected two path results, got %#v", paths)
		}
		if paths[0].ID != a || paths[0].Path != "/etc/systemd/system/a.service" || paths[0].Err != "" {
			t.Fatalf("unexpected path result %#v", paths[0])
		}
		if paths[1].ID != b || paths[1].Err == "" {
			t.Fatalf("expected resolution error for b, got %#v", paths[1])
		}

		s.Shutdown()
		s.Wait()
	})
}
