package state

import "github.com/atomicstack/systemctl-tui/internal/unit"

// DefaultMaxLogLines bounds the buffer kept for a followed unit.
const DefaultMaxLogLines = 10000

// LogState buffers journal lines for the selected unit. Lines addressed to any
// other unit are dropped.
type LogState struct {
	unit     unit.ID
	lines    []string
	offset   int
	maxLines int
}

// NewLogState returns an empty buffer holding at most maxLines lines.
func NewLogState(maxLines int) *LogState {
	if maxLines <= 0 {
		maxLines = DefaultMaxLogLines
	}
	return &LogState{maxLines: maxLines}
}

// Reset points the buffer at id and clears it.
func (l *LogState) Reset(id unit.ID) {
	l.unit = id
	l.lines = nil
	l.offset = 0
}

// Unit is the id lines are currently accepted for.
func (l *LogState) Unit() unit.ID {
	return l.unit
}

// Set replaces the buffer when id is current.
func (l *LogState) Set(id unit.ID, lines []string) bool {
	if id.IsZero() || id != l.unit {
		return false
	}
	l.lines = append([]string(nil), lines...)
	l.trim()
	l.offset = 0
	return true
}

// Append adds one line when id is current.
func (l *LogState) Append(id unit.ID, line string) bool {
	if id.IsZero() || id != l.unit {
		return false
	}
	l.lines = append(l.lines, line)
	l.trim()
	return true
}

// Lines returns the buffered lines, oldest first.
func (l *LogState) Lines() []string {
	return l.lines
}

// Offset is the scroll offset in lines from the newest entry.
func (l *LogState) Offset() int {
	return l.offset
}

func (l *LogState) ScrollUp(n int) {
	l.offset -= n
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *LogState) ScrollDown(n int) {
	l.offset += n
	if max := len(l.lines) - 1; l.offset > max {
		l.offset = max
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *LogState) ScrollTop() {
	l.offset = 0
}

func (l *LogState) ScrollBottom() {
	l.offset = 0
	if len(l.lines) > 0 {
		l.offset = len(l.lines) - 1
	}
}

func (l *LogState) trim() {
	if over := len(l.lines) - l.maxLines; over > 0 {
		l.lines = append([]string(nil), l.lines[over:]...)
	}
}
