package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"stipendi/internal/ai"
	"stipendi/internal/amqp"
	"stipendi/internal/cli"
	apphttp "stipendi/internal/http"
	"stipendi/internal/records"
	"stipendi/internal/records/memory"
	"stipendi/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting stipendi server")

	cfg := cli.LoadAndValidateConfig(logger)

	// Pick the entry store backend
	var store records.Store
	switch cfg.DataBackend {
	case "memory":
		store = memory.New()
		logger.Info("Using in-memory backend")
	default:
		repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
		store = repo
		logger.Info("Using SQLite backend", "path", cfg.SQLiteDBPath)
	}

	// AMQP publisher for the mirror pipeline (optional, entry management
	// works without it)
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client, mirror sync disabled", "error", err)
		} else {
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	entryService := services.NewEntryService(store, publisher)

	// Gemini client powers extraction and insight (optional, endpoints
	// degrade gracefully without it)
	var extractor apphttp.Extractor
	var summarizer apphttp.Summarizer
	if os.Getenv("GEMINI_API_KEY") != "" {
		aiClient, err := ai.NewClient(context.Background(), cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize AI client, extraction disabled", "error", err)
		} else {
			extractor = aiClient
			summarizer = aiClient
			logger.Info("AI client initialized", "model", cfg.GeminiModel)
		}
	} else {
		logger.Info("AI disabled - no GEMINI_API_KEY provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, entryService, apphttp.Options{
		Extractor:  extractor,
		Summarizer: summarizer,
		CacheSize:  cfg.CacheSize,
		CacheTTL:   cfg.CacheTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
		if err := entryService.Close(); err != nil {
			logger.Error("Service cleanup failed", "error", err)
		}
	})

	logger.Info("Server listening", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
