package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/sku_console/internal/cache"
	"github.com/GTDGit/sku_console/internal/config"
	"github.com/GTDGit/sku_console/internal/credential"
	"github.com/GTDGit/sku_console/internal/handler"
	"github.com/GTDGit/sku_console/internal/middleware"
	"github.com/GTDGit/sku_console/internal/service"
	"github.com/GTDGit/sku_console/internal/sse"
	"github.com/GTDGit/sku_console/internal/worker"
	"github.com/GTDGit/sku_console/pkg/skuapi"
)

// main is the entrypoint for the SKU inventory console.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("api", cfg.API.BaseURL).Msg("starting sku console")

	// 3. Open credential store
	slot, pinger, closeSlot, err := openSlot(cfg)
	if err != nil {
		log.Error().Err(err).Msg("credential backend unavailable")
		fmt.Fprintf(os.Stderr, "credential backend unavailable: %v\n", err)
		os.Exit(1)
	}
	defer closeSlot()
	if cfg.Credential.Secret != "" {
		slot = credential.NewSealedSlot(slot, cfg.Credential.Secret, cfg.Credential.Key)
	}

	store, err := credential.Open(context.Background(), slot)
	if err != nil {
		log.Error().Err(err).Msg("failed to read stored credential")
		fmt.Fprintf(os.Stderr, "failed to read stored credential: %v\n", err)
		os.Exit(1)
	}

	// 4. SKU backend client
	client := skuapi.NewClient(skuapi.Config{
		BaseURL:   cfg.API.BaseURL,
		LoginPath: cfg.API.LoginPath,
		Timeout:   cfg.API.Timeout,
		Debug:     cfg.API.Debug,
	}, store)

	// 5. Inventory controller
	hub := sse.NewHub()
	inventorySvc, err := service.NewInventoryService(client, store, service.Options{
		RequiredFields:    service.RequiredFields(cfg.Inventory.RequireSize),
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		Notifier:          sse.NewHubNotifier(hub),
	})
	if err != nil {
		log.Error().Err(err).Msg("invalid inventory options")
		os.Exit(1)
	}

	// 6. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Initial load when a stored credential is still valid
	if err := inventorySvc.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("initial inventory load failed")
	}

	// 8. Initialize handlers and middleware
	limiter := middleware.NewLoginRateLimiter(5, time.Minute)
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(cfg.Credential.Backend, pinger),
		Session:   handler.NewSessionHandler(inventorySvc, limiter),
		Inventory: handler.NewInventoryHandler(inventorySvc),
		SSE:       handler.NewSSEHandler(hub),
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, middleware.RequireSession(inventorySvc))

	// 10. Start workers
	go limiter.Run(ctx)
	go worker.NewRefreshWorker(inventorySvc, cfg.Worker.RefreshInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Session   *handler.SessionHandler
	Inventory *handler.InventoryHandler
	SSE       *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, requireSession gin.HandlerFunc) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/v1/events", handlers.SSE.Stream)

	session := router.Group("/v1/session")
	{
		session.GET("", handlers.Session.Status)
		session.POST("/login", handlers.Session.Login)
		session.POST("/logout", handlers.Session.Logout)
	}

	inv := router.Group("/v1")
	inv.Use(requireSession)
	{
		inv.GET("/view", handlers.Inventory.GetView)
		inv.POST("/reload", handlers.Inventory.Reload)
		inv.DELETE("/notice", handlers.Inventory.DismissNotice)

		// Filters
		inv.PUT("/filters", handlers.Inventory.SetFilters)
		inv.DELETE("/filters", handlers.Inventory.ResetFilters)

		// Add / edit
		inv.POST("/edit", handlers.Inventory.BeginAdd)
		inv.POST("/skus/:id/edit", handlers.Inventory.BeginEdit)
		inv.PUT("/edit/draft", handlers.Inventory.UpdateDraft)
		inv.POST("/edit/save", handlers.Inventory.Save)
		inv.DELETE("/edit", handlers.Inventory.CancelEdit)

		// Delete
		inv.POST("/skus/:id/delete", handlers.Inventory.RequestDelete)
		inv.POST("/delete/confirm", handlers.Inventory.ConfirmDelete)
		inv.DELETE("/delete", handlers.Inventory.CancelDelete)
	}
}

// openSlot selects where the credential lives. The returned pinger is nil
// when the backend has nothing to ping.
func openSlot(cfg *config.Config) (credential.Slot, handler.Pinger, func(), error) {
	switch cfg.Credential.Backend {
	case config.CredentialBackendRedis:
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("host", cfg.Redis.Host).Msg("Credential store: redis")
		closeFn := func() {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis")
			}
		}
		return cache.NewTokenSlot(redisClient, cfg.Credential.Key, cfg.Credential.TTL), redisClient, closeFn, nil
	case config.CredentialBackendMemory:
		log.Info().Msg("Credential store: memory")
		return credential.NewMemorySlot(), nil, func() {}, nil
	default:
		log.Info().Str("file", cfg.Credential.File).Msg("Credential store: file")
		return credential.NewFileSlot(cfg.Credential.File, cfg.Credential.Key), nil, func() {}, nil
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
