package owner

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps the initial implementation lightweight and testable. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	owners map[uuid.UUID]Owner
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{owners: make(map[uuid.UUID]Owner)}
}

func (s *InMemoryStore) Save(_ context.Context, o Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[o.ID] = o
	return nil
}

func (s *InMemoryStore) FindManagedBy(_ context.Context, ownerID, actorID uuid.UUID) (Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.owners[ownerID]
	if !ok || o.ManagerID != actorID {
		return Owner{}, ErrNotFound
	}
	return o, nil
}
