// internal/traffic/log.go
package traffic

import (
	"sync"
	"time"
)

// DefaultMax is the capacity used when none is configured.
const DefaultMax = 60

// Log is a bounded FIFO of entries. Oldest entries are evicted first.
type Log struct {
	mu      sync.RWMutex
	max     int
	entries []Entry
	now     func() time.Time
}

// New creates a log holding at most max entries. max <= 0 selects DefaultMax.
func New(max int) *Log {
	if max <= 0 {
		max = DefaultMax
	}
	return &Log{max: max, now: time.Now}
}

// SetClock replaces the timestamp source.
func (l *Log) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// SetMax changes capacity, trimming the oldest entries if needed.
func (l *Log) SetMax(max int) {
	if max <= 0 {
		max = DefaultMax
	}
	l.mu.Lock()
	l.max = max
	l.trimLocked()
	l.mu.Unlock()
}

func (l *Log) Max() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.max
}

// Add appends e. A zero At is stamped with the log clock.
func (l *Log) Add(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.At.IsZero() {
		e.At = l.now()
	}
	l.entries = append(l.entries, e)
	l.trimLocked()
}

// AddFrame records a raw frame. The byte slice is copied.
func (l *Log) AddFrame(dir Direction, mode string, b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	l.Add(Entry{Dir: dir, Mode: mode, Bytes: cp})
}

func (l *Log) AddLine(text string) {
	l.Add(Entry{Dir: Info, Text: text})
}

func (l *Log) AddError(text string) {
	l.Add(Entry{Dir: Error, Text: text})
}

func (l *Log) trimLocked() {
	if over := len(l.entries) - l.max; over > 0 {
		// shift down so the backing array does not grow without bound
		n := copy(l.entries, l.entries[over:])
		for i := n; i < len(l.entries); i++ {
			l.entries[i] = Entry{}
		}
		l.entries = l.entries[:n]
	}
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines renders every entry, oldest first.
func (l *Log) Lines() []string {
	entries := l.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
