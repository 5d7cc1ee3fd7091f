package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"edumate/internal/model"
)

// RecordListCache caches the two unfiltered chat history listings (all and
// pinned-only). A short-lived dirty marker suppresses re-population while a
// write is in flight.
type RecordListCache struct {
	client         *redisv9.Client
	listTTL        time.Duration
	dirtyMarkerTTL time.Duration
}

func NewRecordListCache(client *redisv9.Client, listTTL, dirtyMarkerTTL time.Duration) *RecordListCache {
	if listTTL <= 0 {
		listTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &RecordListCache{
		client:         client,
		listTTL:        listTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *RecordListCache) GetList(ctx context.Context, pinnedOnly bool) ([]model.ChatRecord, bool, error) {
	raw, err := c.client.Get(ctx, listKey(pinnedOnly)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get record list failed: %w", err)
	}

	var records []model.ChatRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached record list failed: %w", err)
	}
	return records, true, nil
}

func (c *RecordListCache) SetList(ctx context.Context, pinnedOnly bool, records []model.ChatRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal record list cache failed: %w", err)
	}
	if err := c.client.Set(ctx, listKey(pinnedOnly), payload, c.listTTL).Err(); err != nil {
		return fmt.Errorf("redis set record list failed: %w", err)
	}
	return nil
}

// Invalidate drops both listings; any write can change either of them.
func (c *RecordListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, listKey(false), listKey(true)).Err(); err != nil {
		return fmt.Errorf("redis delete record lists failed: %w", err)
	}
	return nil
}

func (c *RecordListCache) MarkDirty(ctx context.Context) error {
	if err := c.client.Set(ctx, dirtyKey, "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *RecordListCache) IsDirty(ctx context.Context) (bool, error) {
	exists, err := c.client.Exists(ctx, dirtyKey).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

const dirtyKey = "chats:list:dirty"

func listKey(pinnedOnly bool) string {
	if pinnedOnly {
		return "chats:list:pinned"
	}
	return "chats:list:all"
}
