package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "systemctl-tui.log"

// RecentCapacity is how many formatted entries Recent keeps.
const RecentCapacity = 200

var (
	traceMu      sync.Mutex
	traceEnabled bool
	// logPath stays empty until Configure is called; writes are dropped.
	logPath string

	level  = new(slog.LevelVar)
	recent = &ring{limit: RecentCapacity}
	logger = slog.New(slog.NewTextHandler(io.MultiWriter(recent, fileWriter{}), &slog.HandlerOptions{Level: level}))
)

// ring keeps the last limit entries written by the text handler, which emits
// one entry per Write.
type ring struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func (r *ring) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	r.mu.Lock()
	r.lines = append(r.lines, line)
	if over := len(r.lines) - r.limit; over > 0 {
		r.lines = append(r.lines[:0], r.lines[over:]...)
	}
	r.mu.Unlock()
	return len(p), nil
}

func (r *ring) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Recent returns the newest entries written by Logger, oldest first. Entries
// are kept even when no log file is configured.
func Recent() []string {
	return recent.snapshot()
}

// fileWriter appends to the configured log file, reopening it per write so a
// later Configure takes effect immediately.
type fileWriter struct{}

func (fileWriter) Write(p []byte) (int, error) {
	path := currentPath()
	if path == "" {
		return len(p), nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.Write(p)
}

func currentPath() string {
	traceMu.Lock()
	defer traceMu.Unlock()
	return logPath
}

// Path returns the active log file path.
func Path() string {
	return currentPath()
}

// Logger returns the leveled logger writing to the shared log file.
func Logger() *slog.Logger {
	return logger
}

// SetLevel changes the minimum level written by Logger.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// Error writes errors to the shared log file.
func Error(err error) {
	if err == nil {
		return
	}
	logger.Error(err.Error())
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	traceMu.Lock()
	traceEnabled = enabled
	traceMu.Unlock()
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	traceMu.Lock()
	enabled := traceEnabled
	path := logPath
	traceMu.Unlock()
	if !enabled || path == "" {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	_ = json.NewEncoder(f).Encode(entry)
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) error {
	traceMu.Lock()
	defer traceMu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logPath = defaultLogFile
		return fmt.Errorf("create log directory: %w", err)
	}
	logPath = path
	return nil
}
