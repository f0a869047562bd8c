// Package validate checks input CSV files against configurable schemas
// before the cleaning pipeline runs. Expected failures (missing file,
// malformed CSV, schema mismatch) are reported as a false result with a
// logged diagnostic; they never escape as errors.
package validate

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FileSchema describes what a single input file must look like.
type FileSchema struct {
	RequiredColumns []string `json:"required-columns" validate:"min=1"`
	DateColumn      string   `json:"date-column"`
	NumericColumns  []string `json:"numeric-columns"`
	MinRowCount     int      `json:"min-row-count" validate:"gte=0"`
}

// Config pairs the two input files with their schemas.
type Config struct {
	Cases      FileSchema `json:"cases-validation" validate:"required"`
	WebMetrics FileSchema `json:"web-metrics-validation" validate:"required"`
}

// DefaultConfig returns the built-in schemas, used when no config file is
// present so the validator works without any external configuration.
func DefaultConfig() Config {
	return Config{
		Cases: FileSchema{
			RequiredColumns: []string{"date", "cases"},
			DateColumn:      "date",
			NumericColumns:  []string{"cases"},
			MinRowCount:     10,
		},
		WebMetrics: FileSchema{
			RequiredColumns: []string{
				"date", "page_views", "unique_visitors",
				"search_queries", "covid_symptom_searches", "appointment_requests",
			},
			DateColumn: "date",
			NumericColumns: []string{
				"page_views", "unique_visitors",
				"search_queries", "covid_symptom_searches", "appointment_requests",
			},
			MinRowCount: 10,
		},
	}
}

var structValidator = validator.New()

// LoadConfig reads validation settings from a JSON file, falling back to
// DefaultConfig when the file does not exist. A present-but-invalid file
// is an error: silently ignoring a broken config hides schema drift.
func LoadConfig(path string, logger *slog.Logger) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("validation config not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read validation config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse validation config %s: %w", path, err)
	}
	if err := structValidator.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid validation config %s: %w", path, err)
	}
	return cfg, nil
}

// Validator checks files against schemas and logs diagnostics.
type Validator struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Validator.
func New(cfg Config, logger *slog.Logger) *Validator {
	return &Validator{cfg: cfg, logger: logger}
}

// ValidateAll checks both input files and reports whether both passed.
func (v *Validator) ValidateAll(casesPath, webMetricsPath string) bool {
	casesOK := v.ValidateFile(casesPath, v.cfg.Cases)
	webOK := v.ValidateFile(webMetricsPath, v.cfg.WebMetrics)
	return casesOK && webOK
}

// ValidateFile checks one file against a schema. Returns false with a
// logged diagnostic on any expected failure mode.
func (v *Validator) ValidateFile(path string, schema FileSchema) bool {
	header, rows, err := readRaw(path)
	if err != nil {
		v.logger.Error("cannot read file", "path", path, "error", err)
		return false
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}

	var missing []string
	for _, name := range schema.RequiredColumns {
		if _, ok := colIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		v.logger.Error("missing required columns", "path", path, "columns", missing)
		return false
	}

	if len(rows) < schema.MinRowCount {
		v.logger.Error("insufficient rows", "path", path, "rows", len(rows), "minimum", schema.MinRowCount)
		return false
	}

	if schema.DateColumn != "" {
		i, ok := colIdx[schema.DateColumn]
		if !ok {
			v.logger.Error("missing date column", "path", path, "column", schema.DateColumn)
			return false
		}
		for r, row := range rows {
			if _, err := time.Parse("2006-01-02", strings.TrimSpace(row[i])); err != nil {
				v.logger.Error("unparseable date", "path", path, "row", r+1, "value", row[i])
				return false
			}
		}
	}

	for _, name := range schema.NumericColumns {
		i, ok := colIdx[name]
		if !ok {
			continue // only required columns must exist
		}
		for r, row := range rows {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue // missing values are the cleaner's problem, not a type error
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				v.logger.Error("non-numeric value", "path", path, "column", name, "row", r+1, "value", cell)
				return false
			}
		}
	}

	v.logger.Info("validation passed", "path", path, "rows", len(rows))
	return true
}

func readRaw(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("empty file, header row required")
	}
	return records[0], records[1:], nil
}
