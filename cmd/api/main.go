package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"vuelas/api/internal/config"
	"vuelas/api/internal/database"
	"vuelas/api/internal/docstore"
	"vuelas/api/internal/handlers"
	"vuelas/api/internal/jobs"
	"vuelas/api/internal/log"
	"vuelas/api/internal/queue"
	"vuelas/api/internal/repository"
	"vuelas/api/internal/security"
	"vuelas/api/internal/server"
	"vuelas/api/internal/service"
	"vuelas/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx := context.Background()

	store, err := database.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open document store")
	}
	if err := repository.NewUserRepository(store).EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret:   cfg.Security.JWTSecret,
		Issuer:   cfg.Security.Issuer,
		Audience: cfg.Security.Audience,
		TTL:      cfg.Security.TokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init token service")
	}

	redisClient, err := queue.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	var events service.EventPublisher
	if redisClient != nil {
		events = queue.NewPublisher(redisClient, cfg.Redis.Stream)
	} else {
		logger.Warn().Msg("redis not configured; events disabled")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	var objects service.ObjectStorage
	if objectStore != nil {
		if err := objectStore.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Msg("ensure bucket failed")
		}
		objects = objectStore
	} else {
		logger.Warn().Msg("object storage not configured; uploads disabled")
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, store, tokens, events, objects)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled && events != nil {
		scheduler = jobs.NewScheduler(events, cfg.Jobs.DigestCron, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, store, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, store docstore.Store, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if err := store.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("store close error")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
