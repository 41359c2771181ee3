package core

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// ActivityCapacity bounds the audit trail. The oldest entry is evicted
// once the cap is reached.
const ActivityCapacity = 50

// DefaultActor is recorded when no admin identity is bound.
const DefaultActor = "Admin"

// ActivityLog is the append-and-truncate audit trail behind the
// dashboard's recent-activity panel. Entries are kept newest-first in a
// fixed-capacity ring so the log never grows past ActivityCapacity.
type ActivityLog struct {
	mu      sync.Mutex
	entries [ActivityCapacity]ActivityEntry
	head    int // index of the newest entry
	size    int
	nowFn   func() time.Time
}

// NewActivityLog constructs an empty log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{nowFn: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the log clock. Intended for tests.
func (l *ActivityLog) SetClock(now func() time.Time) {
	if now != nil {
		l.nowFn = now
	}
}

// Record appends an entry describing an accepted mutation. An empty
// actor defaults to DefaultActor.
func (l *ActivityLog) Record(action, detail, actor string) ActivityEntry {
	if actor == "" {
		actor = DefaultActor
	}
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	entry := ActivityEntry{
		ID:        "act-" + hex.EncodeToString(b[:]),
		Timestamp: l.now(),
		User:      actor,
		Action:    action,
		Detail:    detail,
	}

	l.mu.Lock()
	l.head = (l.head + ActivityCapacity - 1) % ActivityCapacity
	l.entries[l.head] = entry
	if l.size < ActivityCapacity {
		l.size++
	}
	l.mu.Unlock()
	return entry
}

func (l *ActivityLog) now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nowFn()
}

// Recent returns up to n entries, newest first. n <= 0 returns all
// retained entries.
func (l *ActivityLog) Recent(n int) []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > l.size {
		n = l.size
	}
	out := make([]ActivityEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, l.entries[(l.head+i)%ActivityCapacity])
	}
	return out
}

// Len reports the number of retained entries.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
