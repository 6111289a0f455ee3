package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sip-calculator/config"
	"sip-calculator/events"
	httpLayer "sip-calculator/http"
	"sip-calculator/logging"
	"sip-calculator/repository"
	"sip-calculator/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(logging.Config{
		Level:     level,
		Component: logging.ComponentApp,
		Output:    os.Stdout,
	})
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", logging.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", logging.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server exited")
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	historyRepo, closeHistory, err := newHistoryRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	cache, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	sipService := service.NewSIPService(historyRepo, cache, publisher,
		service.WithInflationPoints(cfg.InflationRatePoints))

	projectionHandler := httpLayer.NewProjectionHandler(sipService)
	historyHandler := httpLayer.NewHistoryHandler(sipService)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        httpLayer.NewRouter(logger, rateLimiter, projectionHandler, historyHandler),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("SIP calculator listening",
			"addr", server.Addr,
			"history_backend", cfg.HistoryBackend,
			"cache_backend", cfg.CacheBackend,
			"events", cfg.AMQPURL != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newHistoryRepository(
	cfg *config.Config,
	logger *logging.Logger,
) (repository.HistoryRepository, func(), error) {
	if cfg.HistoryBackend != config.BackendSQLite {
		return repository.NewHistoryRepositoryMemory(), func() {}, nil
	}

	repo, err := repository.NewHistorySQLite(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open history database: %w", err)
	}
	logger.Info("Using SQLite history", "path", cfg.SQLiteDBPath)

	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Error closing history database", logging.FieldError, err)
		}
	}, nil
}

func newCache(
	ctx context.Context,
	cfg *config.Config,
	logger *logging.Logger,
) (repository.CacheRepository, func(), error) {
	if cfg.CacheBackend != config.BackendRedis {
		return repository.NewMemoryCache(), func() {}, nil
	}

	cache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	if err := cache.Ping(ctx); err != nil {
		cache.Close()
		return nil, nil, err
	}
	logger.Info("Using Redis cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)

	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.Warn("Error closing redis client", logging.FieldError, err)
		}
	}, nil
}

func newPublisher(cfg *config.Config, logger *logging.Logger) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect AMQP: %w", err)
	}
	logger.Info("Publishing projection events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	return publisher, nil
}
