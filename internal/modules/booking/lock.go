package booking

import (
	"fmt"
	"sync"
	"time"
)

// slotLocks serializes the check-then-insert sequence per (field, date).
// Without it two concurrent creations for overlapping ranges could both pass
// the availability check and both insert. On Postgres the exclusion index is
// the cross-instance backstop; this lock keeps a single instance correct on
// any storage backend.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *slotLocks) lock(fieldID int64, date time.Time) func() {
	key := fmt.Sprintf("%d:%s", fieldID, date.Format("2006-01-02"))

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
