package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/db"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application/services"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/config"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/infrastructure/messaging/kafka"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting ledger service",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"kafka_enabled", cfg.Kafka.Enabled,
	)

	ctx := context.Background()
	database, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db.Migrations, "migrations")
		if err != nil {
			logger.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("schema up to date", "applied", len(applied))
	}

	eventRepo := postgres.NewEventRepository(database)
	ledgerService := services.NewLedgerService(eventRepo, logger)

	router := handlers.NewRouter(logger, cfg.Server.RequestTimeout,
		handlers.NewHealthHandler(database),
		handlers.NewLedgerHandler(ledgerService),
	)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var wg sync.WaitGroup

	auditor := worker.NewLedgerAuditor(eventRepo, ledgerService, cfg.Worker, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		auditor.Start(workerCtx)
	}()

	if cfg.Kafka.Enabled {
		reader := kafka.NewReader(cfg.Kafka)
		defer reader.Close()

		consumer := kafka.NewConsumer(
			reader,
			kafka.NewRetryingRecorder(ledgerService, cfg.Retry),
			logger.With("topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Run(workerCtx); err != nil {
				logger.Error("kafka consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("server exited")
}
