package http

import (
	"net/http"

	"tiktok-studio/interfaces/middleware"
	"tiktok-studio/usecase"

	"github.com/gin-gonic/gin"
)

// IUserHandler defines the profile read handlers.
type IUserHandler interface {
	GetUser(ctx *gin.Context)
	GetCreatorInfo(ctx *gin.Context)
}

type userHandler struct {
	videos usecase.IVideoUsecase
}

func NewUserHandler(videos usecase.IVideoUsecase) IUserHandler {
	return &userHandler{videos: videos}
}

// GetUser handles GET /api/user
func (h *userHandler) GetUser(c *gin.Context) {
	session := middleware.SessionFrom(c)
	user, err := h.videos.GetUser(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetCreatorInfo handles GET /api/creator
func (h *userHandler) GetCreatorInfo(c *gin.Context) {
	session := middleware.SessionFrom(c)
	info, err := h.videos.GetCreatorInfo(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
