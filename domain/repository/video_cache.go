package repository

import (
	"context"
	"time"

	"tiktok-studio/domain/model"
)

// IVideoCache is a short-lived cache for video-list pages. Implementations
// must tolerate an unavailable backend by missing, never by failing the read
// path.
type IVideoCache interface {
	GetVideoList(ctx context.Context, key string) (*model.VideoList, bool)
	SetVideoList(ctx context.Context, key string, list *model.VideoList, ttl time.Duration)
}
