package http

import (
	"fmt"
	"net/http"

	"tiktok-studio/domain/dto"
	"tiktok-studio/domain/model"
	"tiktok-studio/interfaces/middleware"
	"tiktok-studio/usecase"

	"github.com/gin-gonic/gin"
)

var allowedVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/webm":      {},
	"video/quicktime": {},
}

// IPostHandler defines the content-posting handlers: the granular
// init/status endpoints mirroring the platform's lifecycle steps, and the
// one-shot endpoints that run the whole lifecycle server-side.
type IPostHandler interface {
	InitVideo(ctx *gin.Context)
	InitDraft(ctx *gin.Context)
	InitCarousel(ctx *gin.Context)
	Status(ctx *gin.Context)
	PublishVideo(ctx *gin.Context)
	PublishPhotos(ctx *gin.Context)
}

type postHandler struct {
	publish usecase.IPublishUsecase
}

func NewPostHandler(publish usecase.IPublishUsecase) IPostHandler {
	return &postHandler{publish: publish}
}

// InitVideo handles POST /api/post/init
func (h *postHandler) InitVideo(c *gin.Context) {
	var req dto.VideoInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_size is required and must be a number"})
		return
	}
	opts := &model.VideoPostOptions{
		Title:              req.Title,
		PrivacyLevel:       model.PrivacyLevel(req.PrivacyLevel),
		DisableDuet:        req.DisableDuet,
		DisableStitch:      req.DisableStitch,
		DisableComment:     req.DisableComment,
		BrandContentToggle: req.BrandContentToggle,
		BrandOrganicToggle: req.BrandOrganicToggle,
	}
	session := middleware.SessionFrom(c)
	init, err := h.publish.InitVideo(c.Request.Context(), session.AccessToken, opts, req.VideoSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, init)
}

// InitDraft handles POST /api/post/draft
func (h *postHandler) InitDraft(c *gin.Context) {
	var req dto.DraftInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_size is required and must be a number"})
		return
	}
	session := middleware.SessionFrom(c)
	init, err := h.publish.InitDraft(c.Request.Context(), session.AccessToken, req.VideoSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, init)
}

// InitCarousel handles POST /api/post/carousel
func (h *postHandler) InitCarousel(c *gin.Context) {
	var req dto.CarouselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := middleware.SessionFrom(c)
	init, err := h.publish.InitCarousel(c.Request.Context(), session.AccessToken, carouselOptions(&req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, init)
}

// Status handles GET /api/post/status?publish_id
func (h *postHandler) Status(c *gin.Context) {
	publishID := c.Query("publish_id")
	if publishID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publish_id is required"})
		return
	}
	session := middleware.SessionFrom(c)
	info, err := h.publish.Status(c.Request.Context(), session.AccessToken, publishID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// PublishVideo handles POST /api/post/video: multipart upload that runs
// init, chunked upload and status polling in one request.
func (h *postHandler) PublishVideo(c *gin.Context) {
	var form dto.VideoPublishForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	contentType := form.File.Header.Get("Content-Type")
	if _, ok := allowedVideoTypes[contentType]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid file type: %s. Only MP4, WebM and QuickTime are allowed.", contentType)})
		return
	}
	f, err := form.File.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read video file"})
		return
	}
	defer f.Close()

	opts := &model.VideoPostOptions{
		Title:              form.Title,
		PrivacyLevel:       model.PrivacyLevel(form.PrivacyLevel),
		DisableDuet:        form.DisableDuet,
		DisableStitch:      form.DisableStitch,
		DisableComment:     form.DisableComment,
		BrandContentToggle: form.BrandContentToggle,
	}
	if form.Draft {
		opts.PrivacyLevel = ""
	}

	session := middleware.SessionFrom(c)
	result, err := h.publish.PublishVideo(c.Request.Context(), session.AccessToken, opts, form.Draft, f, form.File.Size, contentType, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publishResponse(result))
}

// PublishPhotos handles POST /api/post/photos: carousel init plus status
// polling in one request. Images must already be staged via /api/upload.
func (h *postHandler) PublishPhotos(c *gin.Context) {
	var req dto.PhotoPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := middleware.SessionFrom(c)
	result, err := h.publish.PublishCarousel(c.Request.Context(), session.AccessToken, carouselOptions(&req.CarouselRequest), nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publishResponse(result))
}

func carouselOptions(req *dto.CarouselRequest) *model.PhotoPostOptions {
	autoAddMusic := true
	if req.AutoAddMusic != nil {
		autoAddMusic = *req.AutoAddMusic
	}
	return &model.PhotoPostOptions{
		Title:              req.Title,
		Description:        req.Description,
		PrivacyLevel:       privacyOrDefault(req.PrivacyLevel),
		DisableComment:     req.DisableComment,
		AutoAddMusic:       autoAddMusic,
		BrandContentToggle: req.BrandContentToggle,
		PhotoCoverIndex:    req.PhotoCoverIndex,
		PhotoImages:        req.PhotoImages,
		PostMode:           req.PostMode,
	}
}

func privacyOrDefault(level string) model.PrivacyLevel {
	if level == "" {
		return model.PrivacySelfOnly
	}
	return model.PrivacyLevel(level)
}

func publishResponse(result *usecase.PublishResult) dto.PublishResultResponse {
	return dto.PublishResultResponse{
		PublishID:  result.PublishID,
		State:      string(result.State),
		Message:    result.Message,
		Status:     string(result.LastStatus),
		FailReason: result.FailReason,
	}
}
