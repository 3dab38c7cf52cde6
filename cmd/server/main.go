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

	"github.com/sifan077/ClipStash/config"
	"github.com/sifan077/ClipStash/internal/app/cache"
	appmodel "github.com/sifan077/ClipStash/internal/app/model"
	apprepository "github.com/sifan077/ClipStash/internal/app/repository"
	appserver "github.com/sifan077/ClipStash/internal/app/server"
	appservice "github.com/sifan077/ClipStash/internal/app/service"
	"github.com/sifan077/ClipStash/internal/infra/logger"
	infraNATS "github.com/sifan077/ClipStash/internal/infra/nats"
	infraPostgres "github.com/sifan077/ClipStash/internal/infra/postgres"
	infraPrometheus "github.com/sifan077/ClipStash/internal/infra/prometheus"
	infraRedis "github.com/sifan077/ClipStash/internal/infra/redis"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("postgres_db", cfg.Postgres.Database),
		zap.String("redis_host", cfg.Redis.Host),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Duration("hit_flush_interval", cfg.Clips.HitFlushInterval),
		zap.Duration("sweep_interval", cfg.Clips.SweepInterval),
	)

	gormDB, err := infraPostgres.NewGorm(cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to open GORM connection", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := infraPostgres.AutoMigrate(ctx, gormDB,
		&appmodel.Clip{}, &appmodel.APIKey{}, &appmodel.ViewEvent{}); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	pool, err := infraPostgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()
	log.Info("Connected to Postgres successfully")

	redisClient, err := infraRedis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Connected to Redis successfully")

	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	log.Info("Connected to NATS successfully")

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server", zap.String("addr", promServer.Addr))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	clipRepo := apprepository.NewClipRepository(gormDB)
	filter := cache.NewShortCodeFilter(cfg.Clips.ExpectedClipCount, 0.01)
	cachedClips := cache.NewCachedClipRepository(clipRepo, redisClient, filter, log)
	if err := cachedClips.Warm(ctx); err != nil {
		log.Warn("Failed to warm short code filter", zap.Error(err))
	}

	clipService := appservice.NewClipService(cachedClips)
	apiKeyService := appservice.NewAPIKeyService(apprepository.NewAPIKeyRepository(pool))

	hitCounter := appservice.NewHitCounter(log, cachedClips, cfg.Clips.HitFlushInterval)
	hitCounter.Start()
	defer hitCounter.Stop()

	sweeper := appservice.NewSweeper(log, clipRepo, cfg.Clips.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	viewConsumer := appservice.NewViewConsumer(js, log, apprepository.NewViewEventRepository(gormDB))
	if err := viewConsumer.Start(); err != nil {
		log.Fatal("Failed to start view consumer", zap.Error(err))
	}
	defer viewConsumer.Stop()

	server := appserver.New(appserver.Dependencies{
		Logger:        log,
		Redis:         redisClient,
		ClipService:   clipService,
		APIKeyService: apiKeyService,
		HitCounter:    hitCounter,
		ViewPublisher: appservice.NewViewPublisher(js),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if err := server.Listen(addr); err != nil {
		log.Fatal("Fiber server exited", zap.Error(err))
	}
}
