package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/group-fitness/internal/api"
	"alcyxob/group-fitness/internal/app"
	"alcyxob/group-fitness/internal/config"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/logging"
	"alcyxob/group-fitness/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

// @title Group Fitness API
// @version 1.0
// @description API for workout groups, workouts, progress logging and leaderboards.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".", os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Info("starting group fitness server...")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret (JWT_SECRET) must be set")
	}

	// --- Metrics ---
	var (
		metricsManager *metrics.Manager
		gatherer       prometheus.Gatherer
		publishers     []events.Publisher
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metricsManager = metrics.NewManager("fitness", "server", reg)
		gatherer = reg
		publishers = append(publishers, metricsManager)
	}

	// --- Storage and Services ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, app.Options{Publishers: publishers})
	cancelStart()
	if err != nil {
		log.Fatalf("could not initialize application: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := application.Close(ctx); err != nil {
			log.Errorf("failed to close storage backend: %v", err)
		}
	}()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Services{
		Auth:        application.Auth,
		Groups:      application.Groups,
		Workouts:    application.Workouts,
		Progress:    application.Progress,
		Leaderboard: application.Leaderboard,
	}, api.RouterOptions{
		JWTSecret: cfg.JWT.Secret,
		Metrics:   metricsManager,
		Gatherer:  gatherer,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Info("server exiting.")
}
