package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/temperature-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/temperature-heatmap/internal/adapter/rediscache"
	"github.com/couchcryptid/temperature-heatmap/internal/config"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
	"github.com/couchcryptid/temperature-heatmap/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	renderer, err := render.New()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Dataset source, optionally backed by the shared Redis payload cache.
	var source domain.DatasetSource = dataset.NewClient(cfg.DatasetURL, cfg.DatasetTimeout, logger, metrics)
	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient, err = rediscache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("payload cache disabled", "error", err)
		} else {
			store := rediscache.NewStore(redisClient)
			source = dataset.NewCachedSource(source, store, cfg.DatasetURL, cfg.DatasetCacheTTL, logger, metrics)
			logger.Info("payload cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.DatasetCacheTTL)
		}
	}

	// Cell publisher (feature-flagged via KAFKA_ENABLED).
	var publisher pipeline.CellPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("cell publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("cell publishing disabled")
	}

	p := pipeline.New(source, pipeline.NewChartBuilder(domain.DefaultLayout()), publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, renderer, logger, metrics)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the dataset once. On failure the page keeps serving an empty graph.
	go func() {
		if err := p.Load(ctx); err != nil {
			logger.Error("dataset load failed", "url", cfg.DatasetURL, "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
