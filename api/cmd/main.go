package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/application/analytics"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/application/recs"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/config"
	redisCache "github.com/baechuer/craft-marketplace/services/recs-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/infrastructure/storage"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/logger"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/middleware"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/transport/http/router"
)

// sysClock implements the Clock ports using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// noopFetcher stands in when object storage is not configured (dev).
type noopFetcher struct{}

func (noopFetcher) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return nil, errors.New("object storage not configured")
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	// 1) Infrastructure
	activityRepo := postgres.NewActivityRepo(db)
	productRepo := postgres.NewProductRepo(db)

	var cache recs.Cache
	var rdb *redisCache.Client
	if cfg.RedisURL != "" {
		c, err := redisCache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, serving without the recommendation cache")
		} else {
			rdb = c
			cache = c
		}
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// 2) Application
	recSvc := recs.New(activityRepo, productRepo, cache, sysClock{}, cfg.ActivityWindow, cfg.CacheTTLRecs)
	anSvc := analytics.New(productRepo, activityRepo, sysClock{}, cfg.ActivityWindow)

	// 3) Transport
	rec := handlers.NewRecommendationsHandler(recSvc)
	track := handlers.NewTrackHandler(activityRepo, sysClock{})
	an := handlers.NewAnalyticsHandler(anSvc)
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)
	z := handlers.NewHealthHandler()

	httpHandler := router.New(rec, track, an, auth, z, cfg)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// 4) Background consumer (activity ingestion + image features)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RabbitURL != "" {
		var objects rabbitmq.ObjectFetcher
		if cfg.S3Endpoint != "" {
			s3c, err := storage.NewS3Client(cfg, logger.Logger)
			if err != nil {
				zlog.Fatal().Err(err).Msg("s3 client init failed")
			}
			objects = s3c
		} else {
			zlog.Warn().Msg("S3_ENDPOINT empty: image feature messages will be dropped")
			objects = noopFetcher{}
		}
		consumer := rabbitmq.NewConsumer(rabbitmq.Config{
			URL:           cfg.RabbitURL,
			Exchange:      cfg.RabbitExchange,
			ActivityQueue: cfg.RabbitActivityQueue,
			ImageQueue:    cfg.RabbitImageQueue,
		}, activityRepo, productRepo, objects, logger.Logger)
		go consumer.Start(ctx)
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit consumer started")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: activity is only ingested over HTTP")
	}

	// 5) Serve with graceful shutdown
	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server crashed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("shutdown error")
	}
}
