package logger

import (
	"sync"

	"plm-connector/internal/config"
)

// LogBuffer keeps the most recent rendered log lines for the operator console.
// It is a fixed-size ring; once full, the oldest line is overwritten.
type LogBuffer struct {
	mu    sync.RWMutex
	lines []string
	next  int
	full  bool
}

// NewLogBuffer creates a ring holding at most capacity lines.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &LogBuffer{lines: make([]string, capacity)}
}

// NewLogBufferFromConfig is the fx constructor.
func NewLogBufferFromConfig(cfg *config.Config) *LogBuffer {
	return NewLogBuffer(cfg.LogBufferLines)
}

// Append stores a line, evicting the oldest one when the ring is full.
func (b *LogBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines[b.next] = line
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
}

// Tail returns up to n of the most recent lines, oldest first.
func (b *LogBuffer) Tail(n int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	size := b.next
	if b.full {
		size = len(b.lines)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]string, 0, n)
	start := (b.next - n + len(b.lines)) % len(b.lines)
	for i := 0; i < n; i++ {
		out = append(out, b.lines[(start+i)%len(b.lines)])
	}
	return out
}
