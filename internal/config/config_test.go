package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cases.csv", cfg.CasesPath)
	assert.Equal(t, "web_metrics.csv", cfg.WebMetricsPath)
	assert.Equal(t, "merged_data_raw.csv", cfg.RawMergedPath)
	assert.Equal(t, "cleaned_merged_data.csv", cfg.CleanedPath)
	assert.Equal(t, "validation-config.json", cfg.ValidationConfigPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(42), cfg.GeneratorSeed)
	assert.Equal(t, "2020-03-01", cfg.GeneratorStart.Format("2006-01-02"))
	assert.Equal(t, "2020-08-31", cfg.GeneratorEnd.Format("2006-01-02"))
	assert.True(t, cfg.GeneratorCorrelate)
	assert.Equal(t, "TX", cfg.FetchRegion)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "public_merged_data.csv", cfg.FetchOutputPath)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("CASES_PATH", "/data/in/cases.csv")
	t.Setenv("WEB_METRICS_PATH", "/data/in/web.csv")
	t.Setenv("RAW_MERGED_PATH", "/data/out/raw.csv")
	t.Setenv("CLEANED_PATH", "/data/out/clean.csv")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("GENERATOR_SEED", "7")
	t.Setenv("GENERATOR_START", "2021-01-01")
	t.Setenv("GENERATOR_END", "2021-06-30")
	t.Setenv("GENERATOR_CORRELATE", "false")
	t.Setenv("FETCH_REGION", "NY")
	t.Setenv("FETCH_TIMEOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/in/cases.csv", cfg.CasesPath)
	assert.Equal(t, "/data/in/web.csv", cfg.WebMetricsPath)
	assert.Equal(t, "/data/out/raw.csv", cfg.RawMergedPath)
	assert.Equal(t, "/data/out/clean.csv", cfg.CleanedPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(7), cfg.GeneratorSeed)
	assert.Equal(t, "2021-01-01", cfg.GeneratorStart.Format("2006-01-02"))
	assert.False(t, cfg.GeneratorCorrelate)
	assert.Equal(t, "NY", cfg.FetchRegion)
	assert.Equal(t, time.Minute, cfg.FetchTimeout)
}

func TestLoad_BoolSpellings(t *testing.T) {
	for _, v := range []string{"1", "t", "TRUE", "True"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("GENERATOR_CORRELATE", v)
			cfg, err := Load()
			require.NoError(t, err)
			assert.True(t, cfg.GeneratorCorrelate)
		})
	}
	for _, v := range []string{"0", "f", "FALSE", "False"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("GENERATOR_CORRELATE", v)
			cfg, err := Load()
			require.NoError(t, err)
			assert.False(t, cfg.GeneratorCorrelate)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative fetch timeout", "FETCH_TIMEOUT", "-5s"},
		{"bad generator seed", "GENERATOR_SEED", "not-a-number"},
		{"bad generator start", "GENERATOR_START", "March 1st"},
		{"end before start", "GENERATOR_END", "2019-01-01"},
		{"bad correlate flag", "GENERATOR_CORRELATE", "yes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
