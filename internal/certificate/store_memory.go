package certificate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore backs unit tests and development mode.
type InMemoryStore struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]Certificate
	byAttempt map[uuid.UUID]uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:      make(map[uuid.UUID]Certificate),
		byAttempt: make(map[uuid.UUID]uuid.UUID),
	}
}

func (s *InMemoryStore) CreateOrFind(_ context.Context, cert Certificate) (Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existingID, ok := s.byAttempt[cert.AttemptID]; ok {
		return s.byID[existingID], nil
	}
	s.byID[cert.ID] = cert
	s.byAttempt[cert.AttemptID] = cert.ID
	return cert, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.byID[id]
	if !ok {
		return Certificate{}, ErrNotFound
	}
	return cert, nil
}

func (s *InMemoryStore) FindByAttempt(_ context.Context, attemptID uuid.UUID) (Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byAttempt[attemptID]
	if !ok {
		return Certificate{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryStore) Revoke(_ context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	if cert.RevokedAt != nil {
		return false, nil
	}
	cert.RevokedAt = &at
	cert.RevocationReason = reason
	s.byID[id] = cert
	return true, nil
}
