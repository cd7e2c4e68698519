package repository

import (
	"context"
	"io"

	"tiktok-studio/domain/model"
)

// ITikTok defines the typed request wrappers over the TikTok open API.
// All methods are stateless: the caller supplies the bearer token. A non-2xx
// HTTP status surfaces as a transport error; a 2xx body whose embedded error
// code is not "ok" surfaces as a domain error. No retries at this layer.
type ITikTok interface {
	// OAuth
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*model.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
	RevokeToken(ctx context.Context, accessToken string) error

	// Read endpoints
	GetUserInfo(ctx context.Context, accessToken string) (*model.User, error)
	ListVideos(ctx context.Context, accessToken string, cursor int64, maxCount int) (*model.VideoList, error)
	QueryVideos(ctx context.Context, accessToken string, videoIDs []string) ([]model.Video, error)
	GetCreatorInfo(ctx context.Context, accessToken string) (*model.CreatorInfo, error)

	// Post initialization
	InitVideoPost(ctx context.Context, accessToken string, opts *model.VideoPostOptions, videoSize, chunkSize int64) (*model.PostInit, error)
	InitDraftVideoPost(ctx context.Context, accessToken string, videoSize, chunkSize int64) (*model.PostInit, error)
	InitPhotoPost(ctx context.Context, accessToken string, opts *model.PhotoPostOptions) (*model.PostInit, error)

	// Upload and status
	UploadChunk(ctx context.Context, uploadURL, contentType string, start, end, total int64, body io.Reader) error
	GetPostStatus(ctx context.Context, accessToken, publishID string) (*model.PostStatusInfo, error)
}
