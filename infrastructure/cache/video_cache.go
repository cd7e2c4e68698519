package cache

import (
	"context"
	"encoding/json"
	"time"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"

	"github.com/redis/go-redis/v9"
)

// VideoCache keeps video-list pages in Redis for a short TTL so dashboard
// refreshes don't burn API quota. A nil client degrades to a permanent miss.
type VideoCache struct {
	rdb *redis.Client
}

func NewVideoCache(rdb *redis.Client) repository.IVideoCache {
	return &VideoCache{rdb: rdb}
}

func (c *VideoCache) GetVideoList(ctx context.Context, key string) (*model.VideoList, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var list model.VideoList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	return &list, true
}

func (c *VideoCache) SetVideoList(ctx context.Context, key string, list *model.VideoList, ttl time.Duration) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, raw, ttl).Err()
}
