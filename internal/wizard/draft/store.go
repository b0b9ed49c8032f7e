package draft

import (
	"sync"
)

// Store holds the live draft for a wizard session. Updates go through Apply,
// which bumps a monotonically increasing revision and notifies subscribers.
// Safe for concurrent use from the host's event goroutine and timers.
type Store struct {
	mu          sync.RWMutex
	current     Draft
	revision    uint64
	nextSubID   int
	subscribers map[int]func()
}

// NewStore builds a store seeded with an initial draft.
func NewStore(initial Draft) *Store {
	return &Store{
		current:     initial,
		subscribers: make(map[int]func()),
	}
}

// Current returns the draft as of now.
func (s *Store) Current() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Revision returns the number of updates applied so far.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Apply replaces the draft with update(current), bumps the revision and
// notifies subscribers. Notifications run outside the lock, so a subscriber
// may call back into the store.
func (s *Store) Apply(update func(Draft) Draft) {
	s.mu.Lock()
	s.current = update(s.current)
	s.revision++
	notify := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn()
	}
}

// Subscribe registers a change callback and returns its cancel function.
// Callbacks receive no payload; read the store for current state.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
