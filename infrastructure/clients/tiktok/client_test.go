package tiktok_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"
	tiktokclient "tiktok-studio/infrastructure/clients/tiktok"
)

func newTestClient(handler http.Handler) (*httptest.Server, repository.ITikTok) {
	srv := httptest.NewServer(handler)
	client := tiktokclient.NewClient(&tiktokclient.Config{
		ClientKey:    "key-123",
		ClientSecret: "secret-456",
		RedirectURI:  "https://example.com/auth/callback",
		Scopes:       []string{"user.info.basic", "video.list", "video.publish"},
		APIBase:      srv.URL,
		HTTPClient:   srv.Client(),
	})
	return srv, client
}

func TestAuthorizationURL(t *testing.T) {
	client := tiktokclient.NewClient(&tiktokclient.Config{
		ClientKey:   "key-123",
		RedirectURI: "https://example.com/auth/callback",
		Scopes:      []string{"user.info.basic", "video.list"},
	})

	raw := client.AuthorizationURL("csrf-state")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "www.tiktok.com", parsed.Host)
	assert.Equal(t, "/v2/auth/authorize/", parsed.Path)
	q := parsed.Query()
	assert.Equal(t, "key-123", q.Get("client_key"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "user.info.basic,video.list", q.Get("scope"))
	assert.Equal(t, "https://example.com/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "csrf-state", q.Get("state"))
}

func TestExchangeCode(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "key-123", r.PostForm.Get("client_key"))
		assert.Equal(t, "secret-456", r.PostForm.Get("client_secret"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "https://example.com/auth/callback", r.PostForm.Get("redirect_uri"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "act-1",
			"refresh_token": "rft-1",
			"open_id":       "open-1",
			"expires_in":    86400,
			"scope":         "user.info.basic",
			"token_type":    "Bearer",
		})
	}))
	defer srv.Close()

	tokens, err := client.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "act-1", tokens.AccessToken)
	assert.Equal(t, "rft-1", tokens.RefreshToken)
	assert.Equal(t, "open-1", tokens.OpenID)
	assert.Equal(t, int64(86400), tokens.ExpiresIn)
}

func TestExchangeCode_ProviderError(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Authorization code is expired.",
		})
	}))
	defer srv.Close()

	_, err := client.ExchangeCode(context.Background(), "stale-code")
	require.Error(t, err)

	var authErr *tiktokclient.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "invalid_grant", authErr.Code)
	assert.Equal(t, "Authorization code is expired.", authErr.Error())
}

func TestExchangeCode_EmptyAccessToken(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some provider failures come back as 200 with an error body.
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_request"})
	}))
	defer srv.Close()

	_, err := client.ExchangeCode(context.Background(), "bad-code")
	require.Error(t, err)

	var authErr *tiktokclient.AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "invalid_request", authErr.Code)
}

func TestGetUserInfo(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/info/", r.URL.Path)
		assert.Equal(t, "Bearer act-1", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Query().Get("fields"), "display_name")
		assert.Contains(t, r.URL.Query().Get("fields"), "follower_count")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"user": map[string]interface{}{
					"open_id":        "open-1",
					"display_name":   "Creator",
					"follower_count": 1234,
				},
			},
			"error": map[string]string{"code": "ok"},
		})
	}))
	defer srv.Close()

	user, err := client.GetUserInfo(context.Background(), "act-1")
	require.NoError(t, err)
	assert.Equal(t, "Creator", user.DisplayName)
	assert.Equal(t, int64(1234), user.FollowerCount)
}

func TestGetUserInfo_DomainError(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 OK with a non-ok embedded code is still a failure.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"code":    "access_token_invalid",
				"message": "The access token is invalid or not found in the request.",
				"log_id":  "20260901-xyz",
			},
		})
	}))
	defer srv.Close()

	_, err := client.GetUserInfo(context.Background(), "expired")
	require.Error(t, err)

	var platformErr *tiktokclient.PlatformError
	require.True(t, errors.As(err, &platformErr))
	assert.Equal(t, "access_token_invalid", platformErr.Code)
	assert.Equal(t, "The access token is invalid or not found in the request.", platformErr.Error())
}

func TestListVideos(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video/list/", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(15), payload["max_count"])
		assert.Equal(t, float64(1700000000), payload["cursor"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"videos":   []map[string]interface{}{{"id": "v1", "title": "first"}},
				"cursor":   1699999999,
				"has_more": true,
			},
			"error": map[string]string{"code": "ok"},
		})
	}))
	defer srv.Close()

	list, err := client.ListVideos(context.Background(), "act-1", 1700000000, 15)
	require.NoError(t, err)
	require.Len(t, list.Videos, 1)
	assert.Equal(t, "v1", list.Videos[0].ID)
	assert.Equal(t, int64(1699999999), list.Cursor)
	assert.True(t, list.HasMore)
}

func TestUploadChunk_ContentRange(t *testing.T) {
	var gotRange, gotType string
	var gotLen int64
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotRange = r.Header.Get("Content-Range")
		gotType = r.Header.Get("Content-Type")
		gotLen = r.ContentLength
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := tiktokclient.NewClient(&tiktokclient.Config{HTTPClient: srv.Client()})

	payload := []byte("0123456789")
	err := client.UploadChunk(context.Background(), srv.URL, "video/mp4",
		10_000_000, 10_000_010, 24_000_000, bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, "bytes 10000000-10000009/24000000", gotRange)
	assert.Equal(t, "video/mp4", gotType)
	assert.Equal(t, int64(10), gotLen)
	assert.Equal(t, payload, gotBody)
}

func TestUploadChunk_RejectedRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
	}))
	defer srv.Close()

	client := tiktokclient.NewClient(&tiktokclient.Config{HTTPClient: srv.Client()})
	err := client.UploadChunk(context.Background(), srv.URL, "video/mp4", 0, 10, 100, bytes.NewReader(make([]byte, 10)))
	assert.Error(t, err)
}

func TestGetPostStatus(t *testing.T) {
	srv, client := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/post/publish/status/fetch/", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "pub-1", payload["publish_id"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"status":         "PROCESSING_UPLOAD",
				"uploaded_bytes": 10000000,
			},
			"error": map[string]string{"code": "ok"},
		})
	}))
	defer srv.Close()

	info, err := client.GetPostStatus(context.Background(), "act-1", "pub-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessingUpload, info.Status)
	assert.Equal(t, int64(10_000_000), info.UploadedBytes)
	assert.False(t, info.Status.Terminal())
}
