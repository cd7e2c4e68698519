package http

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"tiktok-studio/domain/repository"
	"tiktok-studio/infrastructure/configuration"

	"github.com/gin-gonic/gin"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/webp": {},
}

// IUploadHandler stages carousel images on the blob store.
type IUploadHandler interface {
	Upload(ctx *gin.Context)
}

type uploadHandler struct {
	blobs repository.IBlobStore
}

func NewUploadHandler(blobs repository.IBlobStore) IUploadHandler {
	return &uploadHandler{blobs: blobs}
}

// Upload handles POST /api/upload. Accepts a single "file" field or a
// multi-file "files" field; type and size limits are enforced here,
// independent of any client-side checks.
func (h *uploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	files := form.File["files"]
	single := len(files) == 0
	if single {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	for _, fh := range files {
		if msg := validateImage(fh); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		url, err := h.blobs.Put(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
		_ = f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		urls = append(urls, url)
	}

	if single {
		c.JSON(http.StatusOK, gin.H{"url": urls[0]})
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

func validateImage(fh *multipart.FileHeader) string {
	contentType := fh.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Sprintf("Invalid file type: %s. Only JPEG and WEBP are allowed.", contentType)
	}
	if fh.Size > configuration.C.Upload.MaxImageSize {
		return "File exceeds 4MB limit"
	}
	return ""
}
