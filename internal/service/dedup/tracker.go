package dedup

import (
	"sync"
)

// Tracker records which alert ids already produced a notification during
// one recipient session. It is safe for concurrent use; Admit is an atomic
// check-and-insert so two racing callbacks cannot both win the same id.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		seen: make(map[string]struct{}),
	}
}

// Admit marks id as notified and reports whether this call was the first
// to do so.
func (t *Tracker) Admit(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return false
	}
	t.seen[id] = struct{}{}
	return true
}

func (t *Tracker) Seen(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.seen[id]
	return ok
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.seen)
}

// Clear forgets every id. Called on session teardown only.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen = make(map[string]struct{})
}
