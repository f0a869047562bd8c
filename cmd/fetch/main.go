// Command fetch runs the public data merger: it downloads the two remote
// CSV feeds, restricts the case feed to one state, maps their columns
// onto the internal schema, inner-joins them on date, and writes the
// combined CSV. A fetch failure is fatal; there are no retries.
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
	"github.com/couchcryptid/covid-analytics-etl/internal/fetch"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	casesURL := flag.String("cases-url", cfg.FetchCasesURL, "URL of the public case feed")
	metricsURL := flag.String("metrics-url", cfg.FetchMetricsURL, "URL of the public search trends feed")
	region := flag.String("region", cfg.FetchRegion, "two-letter US state code to restrict the feeds to")
	out := flag.String("out", cfg.FetchOutputPath, "output path for the combined CSV")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	m := fetch.NewMerger(
		fetch.DefaultCasesSource(*casesURL, *region),
		fetch.DefaultMetricsSource(*metricsURL, *region),
		cfg.FetchTimeout,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	merged, err := m.Run(ctx)
	if err != nil {
		logger.Error("public data merge failed", "error", err)
		os.Exit(1)
	}

	if err := (dataset.FileWriter{}).Write(merged, *out); err != nil {
		logger.Error("failed to write combined CSV", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote combined public dataset", "path", *out, "rows", merged.NumRows())
}
