package usecase

import (
	"context"
	"fmt"
	"time"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"
)

const videoListTTL = 60 * time.Second

// IVideoUsecase serves the dashboard's read endpoints: profile, video pages
// and creator posting permissions.
type IVideoUsecase interface {
	GetUser(ctx context.Context, session *model.Session) (*model.User, error)
	ListVideos(ctx context.Context, session *model.Session, cursor int64, maxCount int) (*model.VideoList, error)
	QueryVideos(ctx context.Context, session *model.Session, videoIDs []string) ([]model.Video, error)
	GetCreatorInfo(ctx context.Context, session *model.Session) (*model.CreatorInfo, error)
}

type videoUsecase struct {
	tiktok repository.ITikTok
	cache  repository.IVideoCache
}

// NewVideoUsecase wires the read path. cache may be nil (no caching).
func NewVideoUsecase(tiktok repository.ITikTok, cache repository.IVideoCache) IVideoUsecase {
	return &videoUsecase{tiktok: tiktok, cache: cache}
}

func (u *videoUsecase) GetUser(ctx context.Context, session *model.Session) (*model.User, error) {
	return u.tiktok.GetUserInfo(ctx, session.AccessToken)
}

// ListVideos serves a cursor page, with a short-TTL cache in front of the
// platform API. Cache misses and cache failures both fall through.
func (u *videoUsecase) ListVideos(ctx context.Context, session *model.Session, cursor int64, maxCount int) (*model.VideoList, error) {
	key := fmt.Sprintf("videos:%s:%d:%d", session.OpenID, cursor, maxCount)
	if u.cache != nil {
		if list, ok := u.cache.GetVideoList(ctx, key); ok {
			return list, nil
		}
	}
	list, err := u.tiktok.ListVideos(ctx, session.AccessToken, cursor, maxCount)
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		u.cache.SetVideoList(ctx, key, list, videoListTTL)
	}
	return list, nil
}

func (u *videoUsecase) QueryVideos(ctx context.Context, session *model.Session, videoIDs []string) ([]model.Video, error) {
	return u.tiktok.QueryVideos(ctx, session.AccessToken, videoIDs)
}

// GetCreatorInfo is fetched fresh per posting session and never cached: the
// allowed privacy levels and restriction flags must reflect the account's
// current state.
func (u *videoUsecase) GetCreatorInfo(ctx context.Context, session *model.Session) (*model.CreatorInfo, error) {
	return u.tiktok.GetCreatorInfo(ctx, session.AccessToken)
}
