package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"

	"github.com/google/go-querystring/query"
)

const (
	defaultAuthURL = "https://www.tiktok.com/v2/auth/authorize/"
	defaultAPIBase = "https://open.tiktokapis.com/v2"
)

var userInfoFields = []string{
	"open_id", "union_id", "avatar_url", "avatar_url_100", "avatar_large_url",
	"display_name", "bio_description", "profile_deep_link", "is_verified",
	"username", "follower_count", "following_count", "likes_count", "video_count",
}

var videoListFields = []string{
	"id", "create_time", "cover_image_url", "share_url", "video_description",
	"duration", "height", "width", "title", "like_count", "comment_count",
	"share_count", "view_count",
}

var videoQueryFields = []string{
	"id", "create_time", "cover_image_url", "share_url", "video_description",
	"duration", "title", "like_count", "comment_count", "share_count", "view_count",
}

// AuthError carries the identity provider's error code and description from a
// failed token exchange or refresh.
type AuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *AuthError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Code != "" {
		return e.Code
	}
	return "token request failed"
}

// PlatformError is a domain-level failure: the platform answered 2xx but the
// embedded error code was not "ok". HTTP success does not imply request
// success.
type PlatformError struct {
	model.APIError
}

func (e *PlatformError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Config represents TikTok open API client configuration.
type Config struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	APIBase      string
	HTTPClient   *http.Client
}

// Client implements repository.ITikTok over the TikTok open API v2.
// It is stateless: every call takes the bearer token it should use.
type Client struct {
	clientKey    string
	clientSecret string
	redirectURI  string
	scopes       []string
	authURL      string
	apiBase      string
	httpClient   *http.Client
}

// NewClient creates a new TikTok API client.
func NewClient(cfg *Config) repository.ITikTok {
	c := &Client{
		clientKey:    cfg.ClientKey,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		scopes:       cfg.Scopes,
		authURL:      cfg.AuthURL,
		apiBase:      cfg.APIBase,
		httpClient:   cfg.HTTPClient,
	}
	if c.authURL == "" {
		c.authURL = defaultAuthURL
	}
	if c.apiBase == "" {
		c.apiBase = defaultAPIBase
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

// AuthorizationURL builds the consent-screen redirect for the given CSRF state.
func (c *Client) AuthorizationURL(state string) string {
	q := url.Values{}
	q.Set("client_key", c.clientKey)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(c.scopes, ","))
	q.Set("redirect_uri", c.redirectURI)
	q.Set("state", state)
	return c.authURL + "?" + q.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*model.TokenResponse, error) {
	form := url.Values{}
	form.Set("client_key", c.clientKey)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.redirectURI)
	return c.token(ctx, form)
}

// RefreshToken obtains a fresh token pair from a refresh token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	form := url.Values{}
	form.Set("client_key", c.clientKey)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.token(ctx, form)
}

func (c *Client) token(ctx context.Context, form url.Values) (*model.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/oauth/token/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var authErr AuthError
		if jsonErr := json.Unmarshal(body, &authErr); jsonErr == nil && (authErr.Code != "" || authErr.Description != "") {
			return nil, &authErr
		}
		return nil, &AuthError{Code: resp.Status}
	}

	var tokens model.TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokens.AccessToken == "" {
		var authErr AuthError
		if jsonErr := json.Unmarshal(body, &authErr); jsonErr == nil && authErr.Code != "" {
			return nil, &authErr
		}
		return nil, &AuthError{Code: "empty_access_token"}
	}
	return &tokens, nil
}

// RevokeToken invalidates an access token. Callers treat failure as
// best-effort: logout must succeed locally even when revocation does not.
func (c *Client) RevokeToken(ctx context.Context, accessToken string) error {
	form := url.Values{}
	form.Set("client_key", c.clientKey)
	form.Set("client_secret", c.clientSecret)
	form.Set("token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/oauth/revoke/", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revoke failed: %s", resp.Status)
	}
	return nil
}

type fieldsParams struct {
	Fields string `url:"fields"`
}

func fieldsQuery(fields []string) string {
	v, _ := query.Values(fieldsParams{Fields: strings.Join(fields, ",")})
	return v.Encode()
}

// GetUserInfo fetches the basic+profile+stats field selection.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*model.User, error) {
	var out struct {
		Data struct {
			User model.User `json:"user"`
		} `json:"data"`
		Error model.APIError `json:"error"`
	}
	endpoint := c.apiBase + "/user/info/?" + fieldsQuery(userInfoFields)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &out); err != nil {
		return nil, err
	}
	if !out.Error.OK() {
		return nil, &PlatformError{out.Error}
	}
	return &out.Data.User, nil
}

// ListVideos pages the creator's published posts.
func (c *Client) ListVideos(ctx context.Context, accessToken string, cursor int64, maxCount int) (*model.VideoList, error) {
	if maxCount <= 0 || maxCount > 20 {
		maxCount = 20
	}
	payload := map[string]interface{}{"max_count": maxCount}
	if cursor > 0 {
		payload["cursor"] = cursor
	}
	var out struct {
		Data  model.VideoList `json:"data"`
		Error model.APIError  `json:"error"`
	}
	endpoint := c.apiBase + "/video/list/?" + fieldsQuery(videoListFields)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, payload, &out); err != nil {
		return nil, err
	}
	if !out.Error.OK() {
		return nil, &PlatformError{out.Error}
	}
	return &out.Data, nil
}

// QueryVideos fetches specific videos by id, capped at 20 per call.
func (c *Client) QueryVideos(ctx context.Context, accessToken string, videoIDs []string) ([]model.Video, error) {
	if len(videoIDs) > 20 {
		videoIDs = videoIDs[:20]
	}
	payload := map[string]interface{}{
		"filters": map[string]interface{}{"video_ids": videoIDs},
	}
	var out struct {
		Data struct {
			Videos []model.Video `json:"videos"`
		} `json:"data"`
		Error model.APIError `json:"error"`
	}
	endpoint := c.apiBase + "/video/query/?" + fieldsQuery(videoQueryFields)
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, payload, &out); err != nil {
		return nil, err
	}
	if !out.Error.OK() {
		return nil, &PlatformError{out.Error}
	}
	return out.Data.Videos, nil
}

// GetCreatorInfo queries posting permissions and restrictions for the account.
func (c *Client) GetCreatorInfo(ctx context.Context, accessToken string) (*model.CreatorInfo, error) {
	var out struct {
		Data  model.CreatorInfo `json:"data"`
		Error model.APIError    `json:"error"`
	}
	endpoint := c.apiBase + "/post/publish/creator_info/query/"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, struct{}{}, &out); err != nil {
		return nil, err
	}
	if !out.Error.OK() {
		return nil, &PlatformError{out.Error}
	}
	return &out.Data, nil
}

func totalChunkCount(videoSize, chunkSize int64) int64 {
	return (videoSize + chunkSize - 1) / chunkSize
}

// InitVideoPost starts a direct FILE_UPLOAD video post and returns the
// publish id plus the upload URL for the byte-range PUTs.
func (c *Client) InitVideoPost(ctx context.Context, accessToken string, opts *model.VideoPostOptions, videoSize, chunkSize int64) (*model.PostInit, error) {
	coverTs := opts.VideoCoverTimestampMs
	if coverTs == 0 {
		coverTs = 1000
	}
	payload := map[string]interface{}{
		"post_info": map[string]interface{}{
			"title":                    opts.Title,
			"privacy_level":            opts.PrivacyLevel,
			"disable_duet":             opts.DisableDuet,
			"disable_stitch":           opts.DisableStitch,
			"disable_comment":          opts.DisableComment,
			"video_cover_timestamp_ms": coverTs,
			"brand_content_toggle":     opts.BrandContentToggle,
			"brand_organic_toggle":     opts.BrandOrganicToggle,
		},
		"source_info": map[string]interface{}{
			"source":            "FILE_UPLOAD",
			"video_size":        videoSize,
			"chunk_size":        chunkSize,
			"total_chunk_count": totalChunkCount(videoSize, chunkSize),
		},
	}
	return c.postInit(ctx, accessToken, c.apiBase+"/post/publish/video/init/", payload)
}

// InitDraftVideoPost starts an inbox (draft) upload: no post_info, the
// creator finishes the post inside the TikTok app.
func (c *Client) InitDraftVideoPost(ctx context.Context, accessToken string, videoSize, chunkSize int64) (*model.PostInit, error) {
	payload := map[string]interface{}{
		"source_info": map[string]interface{}{
			"source":            "FILE_UPLOAD",
			"video_size":        videoSize,
			"chunk_size":        chunkSize,
			"total_chunk_count": totalChunkCount(videoSize, chunkSize),
		},
	}
	return c.postInit(ctx, accessToken, c.apiBase+"/post/publish/inbox/video/init/", payload)
}

// InitPhotoPost starts a photo-carousel post. TikTok pulls the images from
// the staged URLs asynchronously, so there is no upload URL in the response.
func (c *Client) InitPhotoPost(ctx context.Context, accessToken string, opts *model.PhotoPostOptions) (*model.PostInit, error) {
	postInfo := map[string]interface{}{
		"privacy_level":        opts.PrivacyLevel,
		"disable_comment":      opts.DisableComment,
		"auto_add_music":       opts.AutoAddMusic,
		"brand_content_toggle": opts.BrandContentToggle,
		"brand_organic_toggle": opts.BrandOrganicToggle,
	}
	if opts.Title != "" {
		postInfo["title"] = opts.Title
	}
	if opts.Description != "" {
		postInfo["description"] = opts.Description
	}
	payload := map[string]interface{}{
		"media_type": "PHOTO",
		"post_mode":  opts.PostMode,
		"post_info":  postInfo,
		"source_info": map[string]interface{}{
			"source":            "PULL_FROM_URL",
			"photo_images":      opts.PhotoImages,
			"photo_cover_index": opts.PhotoCoverIndex,
		},
	}
	return c.postInit(ctx, accessToken, c.apiBase+"/post/publish/content/init/", payload)
}

func (c *Client) postInit(ctx context.Context, accessToken, endpoint string, payload interface{}) (*model.PostInit, error) {
	var out struct {
		Data  model.PostInit `json:"data"`
		Error model.APIError `json:"error"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, payload, &out); err != nil {
		return nil, err
	}
	if !out.Error.OK() {
		return nil, &PlatformError{out.Error}
	}
	return &out.Data, nil
}

// UploadChunk PUTs one byte range to the upload URL returned by a video init.
// The range header must exactly tile the file: Content-Range: bytes start-(end-1)/total.
func (c *Client) UploadChunk(ctx context.Context, uploadURL, contentType string, start, end, total int64, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "video/mp4"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, total))
	req.ContentLength = end - start

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chunk upload failed: %s", resp.Status)
	}
	return nil
}

// GetPostStatus fetches the processing status of a publish job.
func (c *Client) GetPostStatus(ctx context.Context, accessToken, publishID string) (*model.PostStatusInfo, error) {
	payload := map[string]interface{}{"publish_id": publishID}
	var out struct {
		Data  model.PostStatusInfo `json:"data"`
		Error model.APIError       `json:"error"`
	}
	endpoint := c.apiBase + "/post/publish/status/fetch/"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, payload, &out); err != nil {
		return nil, err
	}
	if !out.Error.OK() {
		return nil, &PlatformError{out.Error}
	}
	return &out.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, accessToken string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("tiktok api %s: %s", endpoint, resp.Status)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
