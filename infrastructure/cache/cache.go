package cache

import (
	"context"

	"tiktok-studio/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

// NewCache connects to Redis. The dashboard treats the cache as optional:
// callers must tolerate a nil client.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without video list cache")
		return nil, err
	}
	return rdb, nil
}
