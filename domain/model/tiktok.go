package model

// APIError is the error object embedded in every TikTok v2 response body.
// A 2xx response still carries one; code "ok" is the success sentinel.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

// OK reports whether the embedded error denotes success.
func (e *APIError) OK() bool {
	return e == nil || e.Code == "" || e.Code == "ok"
}

// TokenResponse is returned by the /oauth/token/ endpoint for both the
// authorization_code and refresh_token grants.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	OpenID           string `json:"open_id"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
}

// User combines the user.info.basic, user.info.profile and user.info.stats
// field sets requested by the dashboard.
type User struct {
	OpenID         string `json:"open_id"`
	UnionID        string `json:"union_id,omitempty"`
	AvatarURL      string `json:"avatar_url"`
	AvatarURL100   string `json:"avatar_url_100,omitempty"`
	AvatarLargeURL string `json:"avatar_large_url,omitempty"`
	DisplayName    string `json:"display_name"`
	BioDescription string `json:"bio_description,omitempty"`
	ProfileLink    string `json:"profile_deep_link,omitempty"`
	IsVerified     bool   `json:"is_verified,omitempty"`
	Username       string `json:"username,omitempty"`
	FollowerCount  int64  `json:"follower_count,omitempty"`
	FollowingCount int64  `json:"following_count,omitempty"`
	LikesCount     int64  `json:"likes_count,omitempty"`
	VideoCount     int64  `json:"video_count,omitempty"`
}

// Video is a published post as returned by /video/list/ and /video/query/.
type Video struct {
	ID               string `json:"id"`
	CreateTime       int64  `json:"create_time"`
	CoverImageURL    string `json:"cover_image_url,omitempty"`
	ShareURL         string `json:"share_url,omitempty"`
	VideoDescription string `json:"video_description,omitempty"`
	Duration         int64  `json:"duration,omitempty"`
	Height           int64  `json:"height,omitempty"`
	Width            int64  `json:"width,omitempty"`
	Title            string `json:"title,omitempty"`
	LikeCount        int64  `json:"like_count,omitempty"`
	CommentCount     int64  `json:"comment_count,omitempty"`
	ShareCount       int64  `json:"share_count,omitempty"`
	ViewCount        int64  `json:"view_count,omitempty"`
}

// VideoList is the page payload of /video/list/.
type VideoList struct {
	Videos  []Video `json:"videos"`
	Cursor  int64   `json:"cursor"`
	HasMore bool    `json:"has_more"`
}

// PrivacyLevel enumerates TikTok post visibility options.
type PrivacyLevel string

const (
	PrivacyPublic          PrivacyLevel = "PUBLIC_TO_EVERYONE"
	PrivacyMutualFollow    PrivacyLevel = "MUTUAL_FOLLOW_FRIENDS"
	PrivacyFollowerOfOwner PrivacyLevel = "FOLLOWER_OF_CREATOR"
	PrivacySelfOnly        PrivacyLevel = "SELF_ONLY"
)

// CreatorInfo describes what posting options the account is permitted to use.
// Fetched fresh per posting session, never cached.
type CreatorInfo struct {
	CreatorAvatarURL        string         `json:"creator_avatar_url"`
	CreatorUsername         string         `json:"creator_username"`
	CreatorNickname         string         `json:"creator_nickname"`
	PrivacyLevelOptions     []PrivacyLevel `json:"privacy_level_options"`
	CommentDisabled         bool           `json:"comment_disabled"`
	DuetDisabled            bool           `json:"duet_disabled"`
	StitchDisabled          bool           `json:"stitch_disabled"`
	MaxVideoPostDurationSec int64          `json:"max_video_post_duration_sec"`
}
