package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"permitdesk/internal/verification"
)

// In-memory stores back unit tests and development mode. They intentionally
// favor clarity over performance.

type InMemoryAttemptStore struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]verification.Attempt
}

func NewInMemoryAttemptStore() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{attempts: make(map[uuid.UUID]verification.Attempt)}
}

func (s *InMemoryAttemptStore) Create(_ context.Context, a verification.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ID] = a
	return nil
}

func (s *InMemoryAttemptStore) FindByID(_ context.Context, id uuid.UUID) (verification.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	if !ok {
		return verification.Attempt{}, verification.ErrNotFound
	}
	return a, nil
}

func (s *InMemoryAttemptStore) FindLatestByOwner(_ context.Context, ownerID uuid.UUID) (verification.Attempt, error) {
	return s.findLatest(ownerID, func(verification.Attempt) bool { return true })
}

func (s *InMemoryAttemptStore) FindLatestInProgress(_ context.Context, ownerID uuid.UUID) (verification.Attempt, error) {
	return s.findLatest(ownerID, func(a verification.Attempt) bool {
		return a.Status == verification.AttemptInProgress
	})
}

func (s *InMemoryAttemptStore) FindLatestVerified(_ context.Context, ownerID uuid.UUID) (verification.Attempt, error) {
	return s.findLatest(ownerID, func(a verification.Attempt) bool {
		return a.Status == verification.AttemptVerified
	})
}

func (s *InMemoryAttemptStore) findLatest(ownerID uuid.UUID, match func(verification.Attempt) bool) (verification.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var candidates []verification.Attempt
	for _, a := range s.attempts {
		if a.OwnerID == ownerID && match(a) {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return verification.Attempt{}, verification.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].StartedAt.After(candidates[j].StartedAt)
	})
	return candidates[0], nil
}

func (s *InMemoryAttemptStore) SaveDraft(_ context.Context, attemptID uuid.UUID, draft verification.DraftPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptID]
	if !ok {
		return verification.ErrNotFound
	}
	a.Draft = &draft
	s.attempts[attemptID] = a
	return nil
}

func (s *InMemoryAttemptStore) Finalize(_ context.Context, attemptID uuid.UUID, p verification.FinalizeParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptID]
	if !ok {
		return false, verification.ErrNotFound
	}
	if a.Status != verification.AttemptInProgress {
		return false, nil
	}
	switch p.Decision {
	case verification.DecisionVerified:
		a.Status = verification.AttemptVerified
	case verification.DecisionRejected:
		a.Status = verification.AttemptRejected
	case verification.DecisionNeedsInfo:
		a.Status = verification.AttemptNeedsInfo
	}
	a.Decision = p.Decision
	a.DecisionReason = p.DecisionReason
	a.AdditionalInfoRequested = p.AdditionalInfoRequested
	a.Sections = p.Sections
	finalizedAt := p.FinalizedAt
	a.FinalizedAt = &finalizedAt
	s.attempts[attemptID] = a
	return true, nil
}

func (s *InMemoryAttemptStore) Reopen(_ context.Context, attemptID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptID]
	if !ok {
		return false, verification.ErrNotFound
	}
	if a.Status != verification.AttemptNeedsInfo {
		return false, nil
	}
	a.Status = verification.AttemptInProgress
	a.Decision = ""
	a.FinalizedAt = nil
	s.attempts[attemptID] = a
	return true, nil
}

type InMemoryHistoryStore struct {
	mu     sync.RWMutex
	events []verification.HistoryEvent
}

func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{}
}

func (s *InMemoryHistoryStore) Append(_ context.Context, event verification.HistoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryHistoryStore) ListByAttempt(_ context.Context, attemptID uuid.UUID) ([]verification.HistoryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []verification.HistoryEvent
	for _, e := range s.events {
		if e.AttemptID == attemptID {
			out = append(out, e)
		}
	}
	return out, nil
}

type docKey struct {
	attemptID  uuid.UUID
	documentID string
}

type InMemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[docKey]verification.DocumentRecord
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[docKey]verification.DocumentRecord)}
}

func (s *InMemoryDocumentStore) Upsert(_ context.Context, rec verification.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := docKey{attemptID: rec.AttemptID, documentID: rec.DocumentID}
	if existing, ok := s.docs[key]; ok {
		rec.ID = existing.ID
	}
	s.docs[key] = rec
	return nil
}

func (s *InMemoryDocumentStore) ListByAttempt(_ context.Context, attemptID uuid.UUID) ([]verification.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []verification.DocumentRecord
	for _, rec := range s.docs {
		if rec.AttemptID == attemptID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out, nil
}

// InMemoryDraftCache mirrors the redis draft cache for tests.
type InMemoryDraftCache struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]verification.DraftPayload
}

func NewInMemoryDraftCache() *InMemoryDraftCache {
	return &InMemoryDraftCache{drafts: make(map[uuid.UUID]verification.DraftPayload)}
}

func (c *InMemoryDraftCache) Put(_ context.Context, ownerID uuid.UUID, draft verification.DraftPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[ownerID] = draft
	return nil
}

func (c *InMemoryDraftCache) Get(_ context.Context, ownerID uuid.UUID) (verification.DraftPayload, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drafts[ownerID]
	if !ok {
		return verification.DraftPayload{}, verification.ErrNotFound
	}
	return d, nil
}

func (c *InMemoryDraftCache) Invalidate(_ context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, ownerID)
	return nil
}
