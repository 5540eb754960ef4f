package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"duitbot/internal/amqp"
	"duitbot/internal/bot"
	"duitbot/internal/config"
	"duitbot/internal/log"
	"duitbot/internal/store"
	"duitbot/internal/wa"
	"duitbot/internal/webhook"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting duitbot")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if !cfg.HasWhatsAppCredentials() {
		logger.Error("WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_ACCESS_TOKEN are required")
		os.Exit(1)
	}
	if cfg.WhatsAppVerifyToken == "" {
		logger.Error("WHATSAPP_VERIFY_TOKEN is required for the webhook handshake")
		os.Exit(1)
	}

	db, err := store.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer db.Close()

	messenger, err := wa.NewClient(cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken)
	if err != nil {
		logger.Error("Failed to initialize WhatsApp client", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient := newAMQPClient(cfg, logger)
	if amqpClient != nil {
		defer amqpClient.Close()
	}
	var notifier bot.Notifier
	if amqpClient != nil {
		notifier = amqpClient
	}

	executor := bot.NewExecutor(db, db, messenger, notifier, logger)

	srv := webhook.NewServer(":"+cfg.Port, cfg.WhatsAppVerifyToken, executor)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting webhook server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// newAMQPClient connects the sync publisher. The broker is optional: entries
// are saved locally first and the worker's periodic pending scan picks up
// anything unannounced, so a missing or unreachable broker degrades to
// nil instead of aborting startup.
func newAMQPClient(cfg *config.Config, logger *log.Logger) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - entries sync via periodic scan only")
		return nil
	}
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without sync publishing", log.FieldError, err)
		return nil
	}
	logger.Info("AMQP sync publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return amqpClient
}
