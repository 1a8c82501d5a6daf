// Package main is the entry point for the AICMS server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aicms/internal/ai"
	"aicms/internal/auth"
	"aicms/internal/cache"
	"aicms/internal/config"
	"aicms/internal/content"
	"aicms/internal/database"
	"aicms/internal/handlers"
	"aicms/internal/media"
	"aicms/internal/middleware"
	"aicms/internal/router"
	"aicms/internal/storage"
	"aicms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.Storage.Backend,
		"ai_provider", cfg.AI.Provider,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Valkey backs the delivery cache and the token deny-list. Without it
	// the API still works, uncached and without server-side logout.
	var (
		deliveryCache handlers.DeliveryCache
		invalidator   content.Invalidator
		mediaCache    media.DeliveryCache
		denylist      auth.Denylist
	)
	valkeyClient, err := cache.ConnectValkey(cfg.Valkey.Host, cfg.Valkey.Port, cfg.Valkey.Password, cfg.Valkey.DB)
	if err != nil {
		slog.Warn("valkey unavailable, delivery cache and token revocation disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		contentCache := cache.NewContentCache(valkeyClient, cache.DefaultContentTTL)
		deliveryCache, invalidator, mediaCache = contentCache, contentCache, contentCache
		denylist = cache.NewTokenDenylist(valkeyClient)
	}

	// Select the storage backend for uploaded media.
	var (
		provider  storage.Provider
		uploadDir string
	)
	switch cfg.Storage.Backend {
	case "s3":
		provider, err = storage.NewS3(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage configured", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket)
	default:
		provider, err = storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.URLPrefix)
		if err != nil {
			slog.Error("failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		uploadDir = cfg.Storage.UploadDir
		slog.Info("local storage configured", "dir", cfg.Storage.UploadDir)
	}

	// Select the AI provider. An unconfigured provider falls back to the stub.
	aiService := ai.NewService(ai.NewProvider(cfg.AI.Provider, ai.ProviderConfig{
		APIKey:  cfg.AI.GeminiAPIKey,
		Model:   cfg.AI.GeminiModel,
		BaseURL: cfg.AI.GeminiBaseURL,
	}))
	slog.Info("ai provider initialized", "provider", aiService.ProviderName())

	// Initialize data stores and services.
	userStore := store.NewUserStore(db)
	contentStore := store.NewContentStore(db)
	typeStore := store.NewContentTypeStore(db)
	mediaStore := store.NewMediaStore(db)

	contentService := content.NewService(contentStore, typeStore, invalidator)
	mediaService := media.NewService(mediaStore, contentStore, provider, mediaCache)
	authService := auth.NewService(userStore, denylist, cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	// Ten login attempts per minute per client.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(router.Handlers{
		Auth:     handlers.NewAuth(authService),
		Content:  handlers.NewContent(contentService),
		Media:    handlers.NewMedia(mediaService),
		AI:       handlers.NewAI(aiService, cfg.IsDev()),
		Delivery: handlers.NewDelivery(contentService, deliveryCache, provider.URL),
	}, router.Options{
		Tokens:       authService,
		LoginLimiter: loginLimiter,
		CORSOrigins:  cfg.CORSOrigins,
		UploadDir:    uploadDir,
		UploadURL:    cfg.Storage.URLPrefix,
	})

	// WriteTimeout must accommodate AI generation, which waits on the
	// provider for up to a minute.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
