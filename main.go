package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiktok-studio/infrastructure/blobstore"
	"tiktok-studio/infrastructure/cache"
	tiktokclient "tiktok-studio/infrastructure/clients/tiktok"
	"tiktok-studio/infrastructure/configuration"
	"tiktok-studio/infrastructure/logger"
	"tiktok-studio/infrastructure/session"
	httpHandler "tiktok-studio/interfaces/http"
	"tiktok-studio/server"
	"tiktok-studio/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	redisCfg := configuration.C.RedisClient
	redisClient, err := cache.NewCache(ctx,
		fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port),
		redisCfg.Username,
		redisCfg.Password)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis unavailable; video list caching disabled")
	}
	videoCache := cache.NewVideoCache(redisClient)

	tiktokCfg := configuration.C.TikTok
	tiktok := tiktokclient.NewClient(&tiktokclient.Config{
		ClientKey:    tiktokCfg.ClientKey,
		ClientSecret: tiktokCfg.ClientSecret,
		RedirectURI:  tiktokCfg.RedirectURI,
		Scopes:       tiktokCfg.Scopes,
	})

	sessionStore, err := session.NewStore(&session.Config{
		Secret:      configuration.C.Session.Secret,
		CookieName:  configuration.C.Session.CookieName,
		MaxAge:      time.Duration(configuration.C.Session.MaxAgeDays) * 24 * time.Hour,
		RefreshSkew: time.Duration(configuration.C.Session.RefreshSkewS) * time.Second,
		Secure:      app.Env == "production" || app.Env == "prod",
	}, tiktok)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Session store initialization failed")
		os.Exit(1)
	}

	blobStore, err := blobstore.NewLocal(configuration.C.Upload.Dir, app.BaseURL+"/files")
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Upload directory initialization failed")
		os.Exit(1)
	}

	publishCfg := configuration.C.Publish
	publishUsecase := usecase.NewPublishUsecase(tiktok, blobStore, usecase.PublishConfig{
		ChunkSize:        publishCfg.ChunkSize,
		SingleChunkUnder: publishCfg.SingleChunkUnder,
		PollMaxAttempts:  publishCfg.PollMaxAttempts,
		PollInterval:     time.Duration(publishCfg.PollIntervalMs) * time.Millisecond,
		CleanupDelay:     time.Duration(publishCfg.CleanupDelayMs) * time.Millisecond,
	})
	videoUsecase := usecase.NewVideoUsecase(tiktok, videoCache)

	authHandler := httpHandler.NewAuthHandler(tiktok, sessionStore)
	userHandler := httpHandler.NewUserHandler(videoUsecase)
	videoHandler := httpHandler.NewVideoHandler(videoUsecase)
	postHandler := httpHandler.NewPostHandler(publishUsecase)
	uploadHandler := httpHandler.NewUploadHandler(blobStore)
	proxyHandler := httpHandler.NewProxyHandler()

	router := server.InitiateRouter(
		authHandler,
		userHandler,
		videoHandler,
		postHandler,
		uploadHandler,
		proxyHandler,
		sessionStore,
		configuration.C.Upload.Dir,
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
