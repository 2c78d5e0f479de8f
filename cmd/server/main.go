package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takeru/enghub/internal/api"
	"github.com/takeru/enghub/internal/config"
	"github.com/takeru/enghub/internal/db"
	"github.com/takeru/enghub/internal/genai"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/progress"
	"github.com/takeru/enghub/internal/repository/sqlite"
	"github.com/takeru/enghub/internal/services"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("EngHub Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("gemini_model=%s", cfg.GeminiModel)
	log.Debug("gemini_timeout_seconds=%d", cfg.GeminiTimeoutSeconds)
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set, generative endpoints will fail")
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories and the progression store
	blobRepo := sqlite.NewBlobRepository(database.DB)
	logRepo := sqlite.NewActivityLogRepository(database.DB)

	storeOpts := []progress.Option{progress.WithLogProjection(logRepo)}
	if cfg.RandomSeed != 0 {
		log.Debug("using fixed random seed %d", cfg.RandomSeed)
		storeOpts = append(storeOpts, progress.WithRand(rand.New(rand.NewSource(cfg.RandomSeed))))
	}
	store := progress.NewStore(blobRepo, storeOpts...)

	ctx := logger.NewContext(context.Background(), log)
	data := store.Load(ctx)
	log.Info("progress loaded: level=%d, xp=%d, streak=%d", data.Level, data.XP, data.LoginStreak)

	// Generative client and services
	genClient := genai.NewClient(genai.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: time.Duration(cfg.GeminiTimeoutSeconds) * time.Second,
	})

	srv := &api.Server{
		Progress: services.NewProgressService(store, logRepo),
		Content:  services.NewContentService(genClient, store),
		DB:       database,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // generative calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("EngHub Server Stopped")
	log.Info("===========================================")
}
