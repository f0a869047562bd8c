// Command generate writes the two synthetic input files, cases.csv and
// web_metrics.csv, using a deterministic seeded model.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/covid-analytics-etl/internal/config"
	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/generate"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	seed := flag.Int64("seed", cfg.GeneratorSeed, "PRNG seed")
	start := flag.String("start", cfg.GeneratorStart.Format("2006-01-02"), "first date (inclusive)")
	end := flag.String("end", cfg.GeneratorEnd.Format("2006-01-02"), "last date (inclusive)")
	correlate := flag.Bool("correlate", cfg.GeneratorCorrelate, "correlate web metrics with case counts")
	casesOut := flag.String("cases-out", cfg.CasesPath, "output path for the case series")
	webOut := flag.String("web-metrics-out", cfg.WebMetricsPath, "output path for the web metric series")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	opts := generate.DefaultOptions()
	opts.Seed = *seed
	opts.CorrelateWithCases = *correlate
	if opts.Start, err = parseDate(*start); err != nil {
		logger.Error("invalid --start", "error", err)
		os.Exit(1)
	}
	if opts.End, err = parseDate(*end); err != nil {
		logger.Error("invalid --end", "error", err)
		os.Exit(1)
	}
	if !opts.End.After(opts.Start) {
		logger.Error("--end must be after --start")
		os.Exit(1)
	}

	g := generate.New(opts, logger)
	if err := g.WriteFiles(dataset.FileWriter{}, *casesOut, *webOut); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD: %w", err)
	}
	return d.UTC(), nil
}
