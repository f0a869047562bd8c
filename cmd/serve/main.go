// Command serve runs the analytics API server over the cleaned dataset.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-analytics-etl/internal/config"
	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
	"github.com/couchcryptid/covid-analytics-etl/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	reader := dataset.NewCachedReader(dataset.FileReader{})
	reader.OnLookup = func(result string) {
		metrics.DatasetCache.WithLabelValues(result).Inc()
	}

	srv := server.New(cfg.HTTPAddr, cfg.CleanedPath, reader, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
