package http

import (
	"net/http"

	"tiktok-studio/domain/dto"
	"tiktok-studio/interfaces/middleware"
	"tiktok-studio/usecase"

	"github.com/gin-gonic/gin"
)

// IVideoHandler defines the video read handlers.
type IVideoHandler interface {
	ListVideos(ctx *gin.Context)
	QueryVideos(ctx *gin.Context)
}

type videoHandler struct {
	videos usecase.IVideoUsecase
}

func NewVideoHandler(videos usecase.IVideoUsecase) IVideoHandler {
	return &videoHandler{videos: videos}
}

// ListVideos handles GET /api/videos?cursor&max_count
func (h *videoHandler) ListVideos(c *gin.Context) {
	var req dto.VideoListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := middleware.SessionFrom(c)
	list, err := h.videos.ListVideos(c.Request.Context(), session, req.Cursor, req.MaxCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// QueryVideos handles POST /api/videos/query
func (h *videoHandler) QueryVideos(c *gin.Context) {
	var req dto.VideoQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session := middleware.SessionFrom(c)
	videos, err := h.videos.QueryVideos(c.Request.Context(), session, req.VideoIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}
