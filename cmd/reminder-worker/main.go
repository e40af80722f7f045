package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"smartfinance/internal/amqp"
	"smartfinance/internal/config"
	"smartfinance/internal/insight"
	"smartfinance/internal/services"
	"smartfinance/internal/store/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting reminder-worker")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize the in-memory store, optionally seeded from file
	memStore := memory.NewStore()
	if cfg.SeedFile != "" {
		if err := memStore.LoadSeed(cfg.SeedFile); err != nil {
			logger.Error("Failed to load seed file", "error", err, "path", cfg.SeedFile)
			os.Exit(1)
		}
		logger.Info("Seed data loaded", "path", cfg.SeedFile)
	}

	// Initialize AMQP client for publishing reminders and events
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without reminders", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - reminders will be published")
		}
	} else {
		logger.Info("AMQP disabled - bill reminders will not be published")
	}

	// Initialize the insight engine and account service
	engine := insight.NewEngine(
		insight.WithAnomalyWindow(cfg.AnomalyWindow),
		insight.WithCurrency(cfg.CurrencySymbol),
	)
	accountService := services.NewAccountService(memStore, memStore, engine, amqpClient)

	// Initialize ReminderProcessor
	processor := services.NewReminderProcessor(memStore, accountService, amqpClient)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Bill reminder processor configured",
		"interval", cfg.ReminderInterval)

	// Setup periodic processing ticker
	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	// Run initial processing on startup
	logger.Info("Running initial bill processing...")
	if stats, err := processor.ProcessBills(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete",
			"deducted", stats.Deducted,
			"reminders", stats.Reminders)
	}

	// Start periodic processing
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				logger.Info("Processing recurring bills...")
				stats, err := processor.ProcessBills(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else {
					logger.Info("Periodic processing complete",
						"deducted", stats.Deducted,
						"reminders", stats.Reminders,
						"next_check", now.Add(cfg.ReminderInterval).Format("15:04:05"))
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down reminder-worker...")
	cancel()

	// Wait for shutdown or timeout
	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(2 * time.Second):
		logger.Info("Reminder-worker shutdown complete")
	}
}
