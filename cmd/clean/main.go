// Command clean runs the cleaning pipeline once: load, merge, drop
// missing rows, persist the raw merge backup, standardize, persist the
// cleaned output. Exits non-zero when any step fails.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/covid-analytics-etl/internal/config"
	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
	"github.com/couchcryptid/covid-analytics-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	casesPath := flag.String("cases", cfg.CasesPath, "path to the case series CSV")
	webPath := flag.String("web-metrics", cfg.WebMetricsPath, "path to the web metric CSV")
	rawOut := flag.String("raw-out", cfg.RawMergedPath, "output path for the raw merge backup")
	cleanOut := flag.String("clean-out", cfg.CleanedPath, "output path for the standardized dataset")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	p := pipeline.New(
		dataset.FileReader{},
		dataset.FileWriter{},
		pipeline.Paths{
			Cases:      *casesPath,
			WebMetrics: *webPath,
			RawMerged:  *rawOut,
			Cleaned:    *cleanOut,
		},
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := p.Run(ctx); err != nil {
		os.Exit(1)
	}
}
