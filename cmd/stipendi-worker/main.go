package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"stipendi/internal/amqp"
	"stipendi/internal/cli"
	gmirror "stipendi/internal/mirror/google"
	"stipendi/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting stipendi-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Google Sheets client for mirror writes (optional)
	var sheetsClient *gmirror.Client
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		sheetsClient, err = gmirror.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	if sheetsClient == nil {
		logger.Info("Nothing to mirror without a Google Sheets client, exiting")
		return
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(repo, sheetsClient, sheetsClient, cfg.MirrorBatchSize)

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up on anything that was recorded while the worker was down
	logger.Info("Performing startup mirror check...")
	if err := mirrorWorker.StartupCheck(shutdownCtx); err != nil {
		logger.Error("Startup mirror check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	g, ctx := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		return amqpClient.ConsumeEntrySync(ctx, func(msg *amqp.EntrySyncMessage) error {
			return mirrorWorker.HandleMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		return mirrorWorker.Run(ctx, cfg.MirrorInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Worker stopped gracefully")
}
