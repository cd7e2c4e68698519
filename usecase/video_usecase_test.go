package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tiktok-studio/domain/model"
	"tiktok-studio/usecase"
)

type MockVideoCache struct {
	mock.Mock
}

func (m *MockVideoCache) GetVideoList(ctx context.Context, key string) (*model.VideoList, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*model.VideoList), args.Bool(1)
}

func (m *MockVideoCache) SetVideoList(ctx context.Context, key string, list *model.VideoList, ttl time.Duration) {
	m.Called(ctx, key, list, ttl)
}

func testSession() *model.Session {
	return &model.Session{AccessToken: "act-1", OpenID: "open-1"}
}

func TestListVideos_CacheMissFetchesAndStores(t *testing.T) {
	mockTikTok := new(MockTikTok)
	mockCache := new(MockVideoCache)
	uc := usecase.NewVideoUsecase(mockTikTok, mockCache)

	page := &model.VideoList{
		Videos:  []model.Video{{ID: "v1"}},
		Cursor:  1699999999,
		HasMore: true,
	}

	mockCache.On("GetVideoList", mock.Anything, "videos:open-1:0:20").
		Return(nil, false).
		Once()
	mockTikTok.On("ListVideos", mock.Anything, "act-1", int64(0), 20).
		Return(page, nil).
		Once()
	mockCache.On("SetVideoList", mock.Anything, "videos:open-1:0:20", page, 60*time.Second).
		Once()

	list, err := uc.ListVideos(context.Background(), testSession(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, page, list)

	mockTikTok.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestListVideos_CacheHitSkipsAPI(t *testing.T) {
	mockTikTok := new(MockTikTok)
	mockCache := new(MockVideoCache)
	uc := usecase.NewVideoUsecase(mockTikTok, mockCache)

	cached := &model.VideoList{Videos: []model.Video{{ID: "v1"}}}
	mockCache.On("GetVideoList", mock.Anything, "videos:open-1:1700000000:10").
		Return(cached, true).
		Once()

	list, err := uc.ListVideos(context.Background(), testSession(), 1700000000, 10)
	require.NoError(t, err)
	assert.Equal(t, cached, list)

	mockTikTok.AssertNotCalled(t, "ListVideos")
	mockCache.AssertExpectations(t)
}

func TestListVideos_FetchErrorNotCached(t *testing.T) {
	mockTikTok := new(MockTikTok)
	mockCache := new(MockVideoCache)
	uc := usecase.NewVideoUsecase(mockTikTok, mockCache)

	mockCache.On("GetVideoList", mock.Anything, mock.Anything).
		Return(nil, false).
		Once()
	mockTikTok.On("ListVideos", mock.Anything, "act-1", int64(0), 20).
		Return(nil, assert.AnError).
		Once()

	_, err := uc.ListVideos(context.Background(), testSession(), 0, 20)
	assert.Error(t, err)
	mockCache.AssertNotCalled(t, "SetVideoList")
}

func TestListVideos_NilCache(t *testing.T) {
	mockTikTok := new(MockTikTok)
	uc := usecase.NewVideoUsecase(mockTikTok, nil)

	page := &model.VideoList{Videos: []model.Video{{ID: "v1"}}}
	mockTikTok.On("ListVideos", mock.Anything, "act-1", int64(0), 20).
		Return(page, nil).
		Once()

	list, err := uc.ListVideos(context.Background(), testSession(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, page, list)
}

func TestGetCreatorInfo_NeverCached(t *testing.T) {
	mockTikTok := new(MockTikTok)
	mockCache := new(MockVideoCache)
	uc := usecase.NewVideoUsecase(mockTikTok, mockCache)

	info := &model.CreatorInfo{CreatorNickname: "Creator"}
	mockTikTok.On("GetCreatorInfo", mock.Anything, "act-1").
		Return(info, nil).
		Twice()

	for i := 0; i < 2; i++ {
		got, err := uc.GetCreatorInfo(context.Background(), testSession())
		require.NoError(t, err)
		assert.Equal(t, info, got)
	}

	mockCache.AssertNotCalled(t, "GetVideoList")
	mockCache.AssertNotCalled(t, "SetVideoList")
	mockTikTok.AssertExpectations(t)
}

func TestQueryVideos_Delegates(t *testing.T) {
	mockTikTok := new(MockTikTok)
	uc := usecase.NewVideoUsecase(mockTikTok, nil)

	ids := []string{"v1", "v2"}
	mockTikTok.On("QueryVideos", mock.Anything, "act-1", ids).
		Return([]model.Video{{ID: "v1"}, {ID: "v2"}}, nil).
		Once()

	videos, err := uc.QueryVideos(context.Background(), testSession(), ids)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}
