// Command validate checks the two input CSV files against their schemas
// and, when both pass, logs a data quality report for each. Exits
// non-zero on validation failure.
package main

import (
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/covid-analytics-etl/internal/config"
	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
	"github.com/couchcryptid/covid-analytics-etl/internal/validate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	casesPath := flag.String("cases", cfg.CasesPath, "path to the case series CSV")
	webPath := flag.String("web-metrics", cfg.WebMetricsPath, "path to the web metric CSV")
	configPath := flag.String("config", cfg.ValidationConfigPath, "path to the validation config JSON")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	vcfg, err := validate.LoadConfig(*configPath, logger)
	if err != nil {
		logger.Error("failed to load validation config", "error", err)
		os.Exit(1)
	}

	v := validate.New(vcfg, logger)
	if !v.ValidateAll(*casesPath, *webPath) {
		logger.Error("validation failed, skipping quality reports")
		os.Exit(1)
	}

	reader := dataset.FileReader{}
	for _, path := range []string{*casesPath, *webPath} {
		t, err := reader.Read(path)
		if err != nil {
			logger.Error("failed to read file for quality report", "path", path, "error", err)
			os.Exit(1)
		}
		validate.LogSummary(logger, validate.Summarize(t))
	}
}
