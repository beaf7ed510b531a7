package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTraceWritesOnlyWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trace.log")
	if err := Configure(path); err != nil {
		t.Fatalf("configure: %v", err)
	}
	t.Cleanup(func() {
		SetTraceEnabled(false)
		resetPath()
	})

	Trace("ignored", nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file before tracing is enabled, got %v", err)
	}

	SetTraceEnabled(true)
	Trace("unit.select", map[string]interface{}{"unit": "global:a.service"})
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"event":"unit.select"`) {
		t.Fatalf("expected trace entry, got %s", data)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := Configure(path); err != nil {
		t.Fatalf("configure: %v", err)
	}
	t.Cleanup(func() {
		SetLevel(slog.LevelInfo)
		resetPath()
	})

	SetLevel(slog.LevelWarn)
	Logger().Info("hidden")
	Error(errors.New("boom"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("expected info to be filtered, got %s", data)
	}
	if !strings.Contains(string(data), "boom") {
		t.Fatalf("expected error entry, got %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel("debug"); err != nil || l != slog.LevelDebug {
		t.Fatalf("expected debug, got %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func resetPath() {
	traceMu.Lock()
	logPath = ""
	traceMu.Unlock()
}

func TestConfigureEmptyFallsBackToDefault(t *testing.T) {
	t.Cleanup(resetPath)
	if err := Configure(""); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if Path() != defaultLogFile {
		t.Fatalf("expected %q, got %q", defaultLogFile, Path())
	}
}

func TestRecentKeepsNewestEntries(t *testing.T) {
	t.Cleanup(func() {
		recent.mu.Lock()
		recent.lines = nil
		recent.mu.Unlock()
	})

	for i := 0; i < RecentCapacity+5; i++ {
		Logger().Info("refresh", "n", i)
	}
	got := Recent()
	if len(got) != RecentCapacity {
		t.Fatalf("expected %d entries, got %d", RecentCapacity, len(got))
	}
	if !strings.Contains(got[0], "n=5") || !strings.Contains(got[len(got)-1], fmt.Sprintf("n=%d", RecentCapacity+4)) {
		t.Fatalf("expected oldest entries to be dropped, got %q .. %q", got[0], got[len(got)-1])
	}
	if strings.HasSuffix(got[0], "\n") {
		t.Fatalf("expected trailing newline trimmed, got %q", got[0])
	}

	got[0] = "mutated"
	if Recent()[0] == "mutated" {
		t.Fatal("expected Recent to return a copy")
	}
}
