package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/safar-erp/safar-erp/internal/app"
	"github.com/safar-erp/safar-erp/internal/fees"
	"github.com/safar-erp/safar-erp/internal/ledger"
	"github.com/safar-erp/safar-erp/internal/money"
	"github.com/safar-erp/safar-erp/internal/observability"
	"github.com/safar-erp/safar-erp/internal/platform/db"
	"github.com/safar-erp/safar-erp/internal/shared"
	"github.com/safar-erp/safar-erp/internal/statement"
	"github.com/safar-erp/safar-erp/internal/trips"
	"github.com/safar-erp/safar-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()

	statementCache := statement.NewCache(redisClient, cfg.CacheTTL)
	statementRepo := statement.NewRepository(dbpool)
	currencyRepo := money.NewRepository(dbpool)
	statementService := statement.NewService(statementRepo, currencyRepo, statementCache, logger).
		WithJournalCurrency(cfg.JournalCurrency)
	statementHandler := statement.NewHandler(logger, statementService)

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo, auditLogger, statementCache, logger)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	tripsRepo := trips.NewRepository(dbpool)
	tripsService := trips.NewService(tripsRepo, logger)
	tripsHandler := trips.NewHandler(logger, tripsService)

	feesHandler := fees.NewHandler()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		LedgerHandler:    ledgerHandler,
		StatementHandler: statementHandler,
		TripsHandler:     tripsHandler,
		FeesHandler:      feesHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
