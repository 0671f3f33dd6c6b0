package schedule

import (
	"slices"
	"sync"
	"time"
)

// CategoryStatus is the published view of one category after a cycle.
type CategoryStatus struct {
	Category   string    `json:"category"`
	Snapshot   *Snapshot `json:"snapshot,omitempty"`
	Outcome    string    `json:"outcome"`
	LastFetch  time.Time `json:"last_fetch,omitzero"`
	LastChange time.Time `json:"last_change,omitzero"`
	LastError  string    `json:"last_error,omitempty"`
}

// NotificationRecord is a dispatched notification as shown to status readers.
type NotificationRecord struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
	Error    string    `json:"error,omitempty"`
}

// Board is a read model the poll loop publishes to after each category.
// Unlike Store it is safe for concurrent readers.
type Board struct {
	mu        sync.RWMutex
	order     []string
	status    map[string]CategoryStatus
	recent    []NotificationRecord
	limit     int
	cycles    int
	lastCycle time.Time
	version   uint64
}

// NewBoard creates a board for categories (kept in the given order) that
// remembers at most limit recent notifications.
func NewBoard(categories []string, limit int) *Board {
	if limit < 1 {
		limit = 1
	}
	b := &Board{
		order:  slices.Clone(categories),
		status: make(map[string]CategoryStatus, len(categories)),
		limit:  limit,
	}
	for _, c := range categories {
		b.status[c] = CategoryStatus{Category: c, Outcome: "pending"}
	}
	return b
}

// Publish replaces the status of st.Category. A nil snapshot keeps the
// previously published one so a failed fetch does not hide known state.
func (b *Board) Publish(st CategoryStatus) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	prev, known := b.status[st.Category]
	if !known {
		b.order = append(b.order, st.Category)
	}
	if st.Snapshot == nil {
		st.Snapshot = prev.Snapshot
	}
	if st.LastChange.IsZero() {
		st.LastChange = prev.LastChange
	}
	b.status[st.Category] = st
	b.version++
}

// Record appends a dispatched notification, dropping the oldest past limit.
func (b *Board) Record(rec NotificationRecord) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recent = append(b.recent, rec)
	if over := len(b.recent) - b.limit; over > 0 {
		b.recent = slices.Delete(b.recent, 0, over)
	}
	b.version++
}

// CompleteCycle marks the end of a poll cycle.
func (b *Board) CompleteCycle(at time.Time) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cycles++
	b.lastCycle = at
	b.version++
}

// Categories returns every category status in processing order.
func (b *Board) Categories() []CategoryStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]CategoryStatus, 0, len(b.order))
	for _, c := range b.order {
		out = append(out, b.status[c])
	}
	return out
}

// Category returns the status of one category.
func (b *Board) Category(name string) (CategoryStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	st, ok := b.status[name]
	return st, ok
}

// Recent returns the remembered notifications, newest first.
func (b *Board) Recent() []NotificationRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]NotificationRecord, len(b.recent))
	copy(out, b.recent)
	slices.Reverse(out)
	return out
}

// Cycles returns the number of completed cycles and when the last one ended.
func (b *Board) Cycles() (int, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cycles, b.lastCycle
}

// Version changes whenever anything on the board changes.
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}
