package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bnema/vodforge/config"
	"github.com/bnema/vodforge/internal/adapter/converter/ffmpeg"
	HTTPAdapter "github.com/bnema/vodforge/internal/adapter/http"
	sqlitestore "github.com/bnema/vodforge/internal/adapter/storage/sqlite"
	"github.com/bnema/vodforge/internal/infrastructure/logger"
	"github.com/bnema/vodforge/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info.Printf("starting vodforge on port %d, domain=%s", cfg.Port, cfg.Domain)

	tempDir := filepath.Join(cfg.DataDir, "video_temp")
	videoRoot := filepath.Join(cfg.DataDir, "video")
	for _, dir := range []string{cfg.DataDir, tempDir, videoRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error.Printf("failed to create %s: %v", dir, err)
			os.Exit(1)
		}
	}

	store, err := sqlitestore.NewStore(cfg.DataDir)
	if err != nil {
		logger.Error.Printf("failed to create store: %v", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	eventBus := service.NewEventBus()

	queue := service.NewEncodeQueue(
		store,
		ffmpeg.NewProber(),
		ffmpeg.NewTranscoder(),
		eventBus,
		videoRoot,
		cfg.EncodeTimeout,
		cfg.EncodeWorkers,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	queue.Start(workerCtx)

	server := HTTPAdapter.NewServer(queue, eventBus, cfg.Domain, tempDir, videoRoot, cfg.MaxUploadSizeMB)

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info.Printf("received %s, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		// Stop workers (lets the in-flight encode finish)
		workerCancel()

		logger.Info.Printf("shutdown complete")
	}()

	logger.Info.Printf("server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
}
