package server

import (
	"net/http"
	"time"

	"tiktok-studio/domain/repository"
	"tiktok-studio/infrastructure/configuration"
	httpHandler "tiktok-studio/interfaces/http"
	"tiktok-studio/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	authHandler httpHandler.IAuthHandler,
	userHandler httpHandler.IUserHandler,
	videoHandler httpHandler.IVideoHandler,
	postHandler httpHandler.IPostHandler,
	uploadHandler httpHandler.IUploadHandler,
	proxyHandler httpHandler.IProxyHandler,
	sessionStore repository.ISessionStore,
	uploadDir string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := []string{configuration.C.App.BaseURL, "http://localhost:3000", "https://localhost:3000"}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// OAuth flow
	router.GET("/auth/login", authHandler.Login)
	router.GET("/auth/callback", authHandler.Callback)
	router.POST("/auth/logout", authHandler.Logout)
	router.POST("/auth/refresh", authHandler.Refresh)

	// Fetch proxies and the staged-media origin TikTok pulls carousel
	// images from.
	router.GET("/image", proxyHandler.Image)
	router.GET("/media", proxyHandler.Media)
	router.Static("/files", uploadDir)

	router.POST("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Session(sessionStore))

	api.GET("/user", userHandler.GetUser)
	api.GET("/creator", userHandler.GetCreatorInfo)
	api.GET("/videos", videoHandler.ListVideos)
	api.POST("/videos/query", videoHandler.QueryVideos)
	api.POST("/upload", uploadHandler.Upload)

	post := api.Group("/post")
	{
		post.POST("/init", postHandler.InitVideo)
		post.POST("/draft", postHandler.InitDraft)
		post.POST("/carousel", postHandler.InitCarousel)
		post.GET("/status", postHandler.Status)

		// One-shot lifecycle endpoints: init + upload + poll in one request.
		post.POST("/video", postHandler.PublishVideo)
		post.POST("/photos", postHandler.PublishPhotos)
	}

	return router
}
