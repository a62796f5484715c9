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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mjsalmon/fpl-edge/internal/api"
	"github.com/mjsalmon/fpl-edge/internal/api/handlers"
	"github.com/mjsalmon/fpl-edge/internal/api/middleware"
	"github.com/mjsalmon/fpl-edge/internal/engine"
	"github.com/mjsalmon/fpl-edge/internal/providers"
	"github.com/mjsalmon/fpl-edge/internal/services"
	"github.com/mjsalmon/fpl-edge/pkg/config"
	"github.com/mjsalmon/fpl-edge/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	hub := services.NewHub(logger)
	go hub.Run()

	store := services.NewSnapshotStore(db, logger)

	feedClient := providers.NewFPLClient(providers.ClientConfig{
		BaseURL:          cfg.FeedBaseURL,
		Timeout:          cfg.FeedTimeout,
		RequestsPerSec:   float64(cfg.FeedRateLimit),
		BreakerThreshold: uint32(cfg.CircuitBreakerThreshold),
	}, logger)

	refresher := services.NewSnapshotRefresher(feedClient, store, hub, logger, cfg.SnapshotRefreshInterval)
	if err := refresher.Start(cfg.SkipInitialSync); err != nil {
		logrus.Errorf("Failed to start snapshot refresher: %v", err)
	}
	defer refresher.Stop()

	analytics := services.NewAnalyticsService(store, cacheService, logger, engine.Config{
		TopN:      cfg.TopNPlayers,
		Lookahead: cfg.LookaheadWindow,
		Weights:   engine.Weights{Form: cfg.FormWeight, Fixture: 1 - cfg.FormWeight},
	})

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health endpoints at root level
	healthHandler := handlers.NewHealthHandler(store)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, api.Deps{
		Store:     store,
		Analytics: analytics,
		Refresher: refresher,
		Hub:       hub,
		Logger:    logger,
		Config:    cfg,
	})

	// WebSocket endpoint at root level (not under /api/v1)
	wsHandler := handlers.NewWebSocketHandler(hub, logger, cfg.CorsOrigins)
	router.GET("/ws", wsHandler.Serve)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
