package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tiktok-studio/domain/model"
	"tiktok-studio/interfaces/middleware"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(c *gin.Context, s *model.Session) error {
	args := m.Called(c, s)
	return args.Error(0)
}

func (m *MockSessionStore) Load(c *gin.Context) *model.Session {
	args := m.Called(c)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.Session)
}

func (m *MockSessionStore) Clear(c *gin.Context) {
	m.Called(c)
}

func TestSession_RejectsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := new(MockSessionStore)
	store.On("Load", mock.Anything).Return(nil).Once()

	router := gin.New()
	router.GET("/api/user", middleware.Session(store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reached": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authenticated")
	assert.NotContains(t, w.Body.String(), "reached")
}

func TestSession_PassesSessionToHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := new(MockSessionStore)
	session := &model.Session{AccessToken: "act-1", OpenID: "open-1"}
	store.On("Load", mock.Anything).Return(session).Once()

	router := gin.New()
	router.GET("/api/user", middleware.Session(store), func(c *gin.Context) {
		got := middleware.SessionFrom(c)
		require.NotNil(t, got)
		c.JSON(http.StatusOK, gin.H{"open_id": got.OpenID})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "open-1")
}

func TestSessionFrom_MissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, middleware.SessionFrom(c))
}
