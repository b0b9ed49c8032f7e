//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"permitdesk/internal/verification"
	"permitdesk/internal/verification/store"
	"permitdesk/pkg/testutil/containers"
)

type RedisDraftCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *store.RedisDraftCache
}

func TestRedisDraftCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisDraftCacheSuite))
}

func (s *RedisDraftCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = store.NewRedisDraftCache(s.redis.Client, time.Minute)
}

func (s *RedisDraftCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisDraftCacheSuite) TestPutGetInvalidate() {
	ctx := context.Background()
	ownerID := uuid.New()

	draft := verification.DraftPayload{
		Checklists: map[verification.Category][]verification.ChecklistItem{
			verification.CategoryIdentity: {
				{ID: "id-photo", Text: "Photo matches ID", Checked: true},
			},
		},
		CurrentStep: 3,
	}
	s.Require().NoError(s.cache.Put(ctx, ownerID, draft))

	got, err := s.cache.Get(ctx, ownerID)
	s.Require().NoError(err)
	s.Equal(3, got.CurrentStep)
	s.True(got.Checklists[verification.CategoryIdentity][0].Checked)

	s.Require().NoError(s.cache.Invalidate(ctx, ownerID))
	_, err = s.cache.Get(ctx, ownerID)
	s.ErrorIs(err, verification.ErrNotFound)
}

func (s *RedisDraftCacheSuite) TestLastWriteWins() {
	ctx := context.Background()
	ownerID := uuid.New()

	s.Require().NoError(s.cache.Put(ctx, ownerID, verification.DraftPayload{CurrentStep: 1}))
	s.Require().NoError(s.cache.Put(ctx, ownerID, verification.DraftPayload{CurrentStep: 4}))

	got, err := s.cache.Get(ctx, ownerID)
	s.Require().NoError(err)
	s.Equal(4, got.CurrentStep)
}

func (s *RedisDraftCacheSuite) TestMissIsNotFound() {
	_, err := s.cache.Get(context.Background(), uuid.New())
	s.ErrorIs(err, verification.ErrNotFound)
}

func (s *RedisDraftCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	ownerID := uuid.New()
	short := store.NewRedisDraftCache(s.redis.Client, 100*time.Millisecond)

	s.Require().NoError(short.Put(ctx, ownerID, verification.DraftPayload{CurrentStep: 2}))

	s.Require().Eventually(func() bool {
		_, err := short.Get(ctx, ownerID)
		return err != nil
	}, 2*time.Second, 50*time.Millisecond)
}
