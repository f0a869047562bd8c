package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// A .env file in the working directory is loaded first when present.
type Config struct {
	// Local file layout.
	CasesPath            string
	WebMetricsPath       string
	RawMergedPath        string
	CleanedPath          string
	ValidationConfigPath string

	// Analytics API server.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Sample data generator.
	GeneratorSeed      int64
	GeneratorStart     time.Time
	GeneratorEnd       time.Time
	GeneratorCorrelate bool

	// Public data merger.
	FetchCasesURL   string
	FetchMetricsURL string
	FetchRegion     string
	FetchTimeout    time.Duration
	FetchOutputPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	// Best effort; running without a .env file is the normal case.
	_ = godotenv.Load()

	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	seed, err := envInt64("GENERATOR_SEED", 42)
	if err != nil {
		return nil, err
	}
	start, err := envDate("GENERATOR_START", "2020-03-01")
	if err != nil {
		return nil, err
	}
	end, err := envDate("GENERATOR_END", "2020-08-31")
	if err != nil {
		return nil, err
	}
	correlate, err := envBool("GENERATOR_CORRELATE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CasesPath:            envOrDefault("CASES_PATH", "cases.csv"),
		WebMetricsPath:       envOrDefault("WEB_METRICS_PATH", "web_metrics.csv"),
		RawMergedPath:        envOrDefault("RAW_MERGED_PATH", "merged_data_raw.csv"),
		CleanedPath:          envOrDefault("CLEANED_PATH", "cleaned_merged_data.csv"),
		ValidationConfigPath: envOrDefault("VALIDATION_CONFIG", "validation-config.json"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeneratorSeed:      seed,
		GeneratorStart:     start,
		GeneratorEnd:       end,
		GeneratorCorrelate: correlate,

		FetchCasesURL:   envOrDefault("FETCH_CASES_URL", "https://api.covidtracking.com/v1/states/daily.csv"),
		FetchMetricsURL: envOrDefault("FETCH_METRICS_URL", "https://storage.googleapis.com/covid19-open-data/v3/google-search-trends.csv"),
		FetchRegion:     envOrDefault("FETCH_REGION", "TX"),
		FetchTimeout:    fetchTimeout,
		FetchOutputPath: envOrDefault("FETCH_OUTPUT_PATH", "public_merged_data.csv"),
	}

	if cfg.CasesPath == "" || cfg.WebMetricsPath == "" {
		return nil, errors.New("CASES_PATH and WEB_METRICS_PATH are required")
	}
	if cfg.RawMergedPath == "" || cfg.CleanedPath == "" {
		return nil, errors.New("RAW_MERGED_PATH and CLEANED_PATH are required")
	}
	if !cfg.GeneratorEnd.After(cfg.GeneratorStart) {
		return nil, errors.New("GENERATOR_END must be after GENERATOR_START")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func envDate(key, def string) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d.UTC(), nil
}
