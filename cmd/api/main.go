package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"openwonder/api/internal/cache"
	"openwonder/api/internal/config"
	"openwonder/api/internal/database"
	"openwonder/api/internal/events"
	"openwonder/api/internal/handlers"
	"openwonder/api/internal/jobs"
	"openwonder/api/internal/log"
	"openwonder/api/internal/repository"
	"openwonder/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	// The legacy platform probed table existence per request; here a broken
	// schema kills the process before it serves anything.
	if err := database.CheckSchema(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("schema check failed")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	var publisher *events.Publisher
	if cfg.NATS.Enabled {
		publisher, err = events.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, events disabled")
		}
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, publisher, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(
		repository.NewFollowRepository(dbPool),
		repository.NewNotificationRepository(dbPool),
		cfg.Jobs,
		logger,
	)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient, publisher)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	publisher *events.Publisher,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	<-scheduler.Stop().Done()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}
	publisher.Close()

	logger.Info().Msg("server exited cleanly")
}
