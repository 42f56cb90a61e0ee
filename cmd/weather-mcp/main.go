package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/weather-mcp/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-mcp/internal/adapter/kafka"
	"github.com/couchcryptid/weather-mcp/internal/adapter/mcpserver"
	"github.com/couchcryptid/weather-mcp/internal/adapter/nws"
	"github.com/couchcryptid/weather-mcp/internal/config"
	"github.com/couchcryptid/weather-mcp/internal/domain"
	"github.com/couchcryptid/weather-mcp/internal/observability"
	"github.com/couchcryptid/weather-mcp/internal/pipeline"
	"github.com/couchcryptid/weather-mcp/internal/tools"
	"github.com/jonboulle/clockwork"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("weather-mcp exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	var fetcher domain.Fetcher = nws.NewClient(cfg.NWSUserAgent, cfg.NWSTimeout, metrics, logger)
	if cfg.CacheSize > 0 {
		fetcher = nws.NewCachedFetcher(fetcher, cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)
		logger.Info("nws response cache enabled", "cache_size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	}
	svc := pipeline.New(fetcher, cfg.NWSBaseURL, logger)

	registry := tools.NewRegistry()
	if err := tools.RegisterWeather(registry, svc); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	// Tool-call events are published only when KAFKA_BROKERS is set.
	var publisher mcpserver.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.EventsEnabled() {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		publisher = writer
		logger.Info("tool-call events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	srv, err := mcpserver.New(cfg.ServerName, Version, registry, publisher, metrics, logger)
	if err != nil {
		return fmt.Errorf("build mcp server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var httpSrv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		httpSrv = httpadapter.NewServer(cfg.HTTPAddr, srv, registry, logger)
		go func() {
			if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	logger.Info("weather-mcp starting", "version", Version, "base_url", cfg.NWSBaseURL, "timeout", cfg.NWSTimeout)
	serveErr := srv.Serve(ctx, os.Stdin, os.Stdout)

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if httpSrv != nil {
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return serveErr
}
