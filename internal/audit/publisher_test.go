package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (s *failingStore) Append(context.Context, Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("sink down")
}

func (s *failingStore) ListByEntity(context.Context, string, string) ([]Event, error) {
	return nil, nil
}

func TestEmitSyncStampsIDAndTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	err := pub.Emit(context.Background(), Event{
		Action:   string(ActionAttemptCreated),
		Entity:   "verification_attempt",
		EntityID: "abc",
	})
	require.NoError(t, err)

	events := store.All()
	require.Len(t, events, 1)
	assert.NotZero(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestEmitAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(16))

	for i := 0; i < 10; i++ {
		require.NoError(t, pub.Emit(context.Background(), Event{
			Action:   string(ActionDraftSaved),
			Entity:   "verification_attempt",
			EntityID: "abc",
		}))
	}
	pub.Close()

	assert.Len(t, store.All(), 10)
}

func TestEmitNeverFailsCaller(t *testing.T) {
	store := &failingStore{}
	pub := NewPublisher(store, WithAsyncBuffer(4))
	defer pub.Close()

	err := pub.Emit(context.Background(), Event{Action: string(ActionStatusRead)})
	assert.NoError(t, err, "audit failures must not surface to the hot path")

	// Give the worker a moment to hit the failing sink.
	time.Sleep(20 * time.Millisecond)
}
