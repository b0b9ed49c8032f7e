package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"permitdesk/internal/verification"
)

// RedisDraftCache keeps the latest draft snapshot per owner hot, with a TTL
// so abandoned drafts age out. Writes are last-write-wins, matching the
// storage semantics for drafts.
type RedisDraftCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftCache(client *redis.Client, ttl time.Duration) *RedisDraftCache {
	return &RedisDraftCache{client: client, ttl: ttl}
}

func draftKey(ownerID uuid.UUID) string {
	return "verification:draft:" + ownerID.String()
}

func (c *RedisDraftCache) Put(ctx context.Context, ownerID uuid.UUID, draft verification.DraftPayload) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft for cache: %w", err)
	}
	if err := c.client.Set(ctx, draftKey(ownerID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache draft: %w", err)
	}
	return nil
}

func (c *RedisDraftCache) Get(ctx context.Context, ownerID uuid.UUID) (verification.DraftPayload, error) {
	payload, err := c.client.Get(ctx, draftKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return verification.DraftPayload{}, verification.ErrNotFound
		}
		return verification.DraftPayload{}, fmt.Errorf("get cached draft: %w", err)
	}
	var draft verification.DraftPayload
	if err := json.Unmarshal(payload, &draft); err != nil {
		return verification.DraftPayload{}, fmt.Errorf("unmarshal cached draft: %w", err)
	}
	return draft, nil
}

func (c *RedisDraftCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	if err := c.client.Del(ctx, draftKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached draft: %w", err)
	}
	return nil
}
