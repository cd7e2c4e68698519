package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tiktok-studio/infrastructure/configuration"
	httpHandler "tiktok-studio/interfaces/http"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, name, contentType, r, size)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(urls []string) error {
	args := m.Called(urls)
	return args.Error(0)
}

func (m *MockBlobStore) ScheduleDelete(urls []string, delay time.Duration) {
	m.Called(urls, delay)
}

type uploadFile struct {
	field       string
	name        string
	contentType string
	content     []byte
}

func multipartUploadContext(t *testing.T, files ...uploadFile) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c, w
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	configuration.C.Upload.MaxImageSize = 4 * 1024 * 1024
	mockBlobs := new(MockBlobStore)
	handler := httpHandler.NewUploadHandler(mockBlobs)

	c, w := multipartUploadContext(t, uploadFile{
		field: "file", name: "shot.png", contentType: "image/png", content: []byte("png"),
	})
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file type: image/png. Only JPEG and WEBP are allowed.")
	mockBlobs.AssertNotCalled(t, "Put")
}

func TestUpload_RejectsOversizeFile(t *testing.T) {
	configuration.C.Upload.MaxImageSize = 16
	mockBlobs := new(MockBlobStore)
	handler := httpHandler.NewUploadHandler(mockBlobs)

	c, w := multipartUploadContext(t, uploadFile{
		field: "file", name: "big.jpg", contentType: "image/jpeg", content: make([]byte, 32),
	})
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File exceeds 4MB limit")
	mockBlobs.AssertNotCalled(t, "Put")
}

func TestUpload_RejectsBatchOnFirstBadFile(t *testing.T) {
	configuration.C.Upload.MaxImageSize = 4 * 1024 * 1024
	mockBlobs := new(MockBlobStore)
	handler := httpHandler.NewUploadHandler(mockBlobs)

	// All files validate before any file is stored.
	c, w := multipartUploadContext(t,
		uploadFile{field: "files", name: "ok.jpg", contentType: "image/jpeg", content: []byte("jpg")},
		uploadFile{field: "files", name: "bad.gif", contentType: "image/gif", content: []byte("gif")},
	)
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockBlobs.AssertNotCalled(t, "Put")
}

func TestUpload_SingleFile(t *testing.T) {
	configuration.C.Upload.MaxImageSize = 4 * 1024 * 1024
	mockBlobs := new(MockBlobStore)
	handler := httpHandler.NewUploadHandler(mockBlobs)

	mockBlobs.On("Put", mock.Anything, "shot.jpg", "image/jpeg", mock.Anything, int64(3)).
		Return("https://studio.example.com/files/shot-abc123.jpg", nil).
		Once()

	c, w := multipartUploadContext(t, uploadFile{
		field: "file", name: "shot.jpg", contentType: "image/jpeg", content: []byte("jpg"),
	})
	handler.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://studio.example.com/files/shot-abc123.jpg", resp["url"])

	mockBlobs.AssertExpectations(t)
}

func TestUpload_MultipleFiles(t *testing.T) {
	configuration.C.Upload.MaxImageSize = 4 * 1024 * 1024
	mockBlobs := new(MockBlobStore)
	handler := httpHandler.NewUploadHandler(mockBlobs)

	mockBlobs.On("Put", mock.Anything, "a.jpg", "image/jpeg", mock.Anything, mock.Anything).
		Return("https://studio.example.com/files/a-1.jpg", nil).
		Once()
	mockBlobs.On("Put", mock.Anything, "b.webp", "image/webp", mock.Anything, mock.Anything).
		Return("https://studio.example.com/files/b-2.webp", nil).
		Once()

	c, w := multipartUploadContext(t,
		uploadFile{field: "files", name: "a.jpg", contentType: "image/jpeg", content: []byte("jpg")},
		uploadFile{field: "files", name: "b.webp", contentType: "image/webp", content: []byte("webp")},
	)
	handler.Upload(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{
		"https://studio.example.com/files/a-1.jpg",
		"https://studio.example.com/files/b-2.webp",
	}, resp["urls"])

	mockBlobs.AssertExpectations(t)
}

func TestUpload_NoFile(t *testing.T) {
	mockBlobs := new(MockBlobStore)
	handler := httpHandler.NewUploadHandler(mockBlobs)

	c, w := multipartUploadContext(t)
	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file provided")
}
