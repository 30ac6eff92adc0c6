package memory

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of exchanges retained when no capacity is configured.
const DefaultCapacity = 10

// Ledger is a fixed-capacity, append-only log of recent exchanges.
// When full, appending evicts the oldest entry.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	nextSeq uint64
	cap     int
	now     func() time.Time
}

// NewLedger creates a ledger holding at most capacity entries.
// A capacity below 1 falls back to DefaultCapacity.
func NewLedger(capacity int) *Ledger {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		entries: make([]Entry, 0, capacity),
		nextSeq: 1,
		cap:     capacity,
		now:     time.Now,
	}
}

// Append stamps the entry with the next sequence number and records it,
// trimming the ledger back to capacity. The stored entry is returned.
func (l *Ledger) Append(e Entry) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.Seq = l.nextSeq
	l.nextSeq++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = l.now()
	}

	if len(l.entries) == l.cap {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.cap-1]
	}
	l.entries = append(l.entries, e)
	return e
}

// Snapshot returns a copy of the retained entries, oldest first.
func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Capacity returns the configured maximum number of entries.
func (l *Ledger) Capacity() int {
	return l.cap
}
