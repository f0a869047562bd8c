// Package fetch implements the public data merger: it retrieves two
// remote CSV datasets over HTTP, maps their columns onto the internal
// schema, inner-joins them on date, and persists the combined table.
//
// There is no retry or fallback logic; a fetch failure is fatal to this
// component alone and never affects the local CSV pipeline.
package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
)

// Source describes one remote CSV dataset and how to map it onto the
// internal schema. Renames is the contract between the external source's
// column names and the pipeline's expected names; only renamed columns
// are kept.
type Source struct {
	Name       string
	URL        string
	DateColumn string
	DateLayout string            // layout of the source's date column
	Renames    map[string]string // raw column name -> internal column name

	// Optional region filter: keep only rows where RegionColumn == Region.
	RegionColumn string
	Region       string
}

// Merger fetches two sources and joins them on date.
type Merger struct {
	cases      Source
	metrics    Source
	httpClient *http.Client
	logger     *slog.Logger
	obs        *observability.Metrics
}

// NewMerger creates a Merger. The left side of the join is the metrics
// source, matching the local pipeline's column order.
func NewMerger(cases, metrics Source, timeout time.Duration, logger *slog.Logger, obs *observability.Metrics) *Merger {
	return &Merger{
		cases:      cases,
		metrics:    metrics,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		obs:        obs,
	}
}

// Run fetches both sources and returns their inner join on date.
func (m *Merger) Run(ctx context.Context) (*dataset.Table, error) {
	metricsTable, err := m.fetchSource(ctx, m.metrics)
	if err != nil {
		return nil, err
	}
	casesTable, err := m.fetchSource(ctx, m.cases)
	if err != nil {
		return nil, err
	}

	merged, err := dataset.InnerJoin(metricsTable, casesTable)
	if err != nil {
		return nil, err
	}
	m.logger.Info("merged public datasets",
		"metrics_rows", metricsTable.NumRows(),
		"cases_rows", casesTable.NumRows(),
		"merged_rows", merged.NumRows(),
	)
	return merged, nil
}

// fetchSource downloads one CSV resource and projects it onto the
// internal schema.
func (m *Merger) fetchSource(ctx context.Context, src Source) (*dataset.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", src.Name, err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &dataset.NetworkError{URL: src.URL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &dataset.NetworkError{
			URL:   src.URL,
			Cause: fmt.Errorf("status %d: %s", resp.StatusCode, body),
		}
	}

	t, err := parseSource(resp.Body, src)
	if err != nil {
		return nil, err
	}

	m.obs.FetchRows.WithLabelValues(src.Name).Add(float64(t.NumRows()))
	m.logger.Info("fetched remote dataset", "source", src.Name, "url", src.URL, "rows", t.NumRows())
	return t, nil
}

func parseSource(r io.Reader, src Source) (*dataset.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // public feeds occasionally pad rows

	header, err := reader.Read()
	if err != nil {
		return nil, &dataset.ParseError{Path: src.URL, Cause: err}
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	dateIdx, ok := colIdx[src.DateColumn]
	if !ok {
		return nil, &dataset.SchemaError{Path: src.URL, Reason: fmt.Sprintf("missing date column %q", src.DateColumn)}
	}
	regionIdx := -1
	if src.RegionColumn != "" {
		regionIdx, ok = colIdx[src.RegionColumn]
		if !ok {
			return nil, &dataset.SchemaError{Path: src.URL, Reason: fmt.Sprintf("missing region column %q", src.RegionColumn)}
		}
	}

	// Stable output order: iterate the source header, keep renamed columns.
	var rawNames []string
	var rawIdx []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		if internal, ok := src.Renames[name]; ok {
			rawNames = append(rawNames, internal)
			rawIdx = append(rawIdx, i)
		}
	}
	if len(rawNames) != len(src.Renames) {
		return nil, &dataset.SchemaError{
			Path:   src.URL,
			Reason: fmt.Sprintf("expected %d mapped columns, found %d", len(src.Renames), len(rawNames)),
		}
	}

	// Ragged rows may still be shorter than the columns we index into.
	minFields := dateIdx
	if regionIdx > minFields {
		minFields = regionIdx
	}
	for _, i := range rawIdx {
		if i > minFields {
			minFields = i
		}
	}
	minFields++

	t := dataset.New(src.Name, rawNames)
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &dataset.ParseError{Path: src.URL, Row: row + 1, Cause: err}
		}
		row++

		if len(record) < minFields {
			return nil, &dataset.ParseError{
				Path:  src.URL,
				Row:   row,
				Cause: fmt.Errorf("row has %d fields, need at least %d", len(record), minFields),
			}
		}

		if regionIdx >= 0 && !strings.EqualFold(strings.TrimSpace(record[regionIdx]), src.Region) {
			continue
		}

		date, err := time.Parse(src.DateLayout, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, &dataset.ParseError{Path: src.URL, Column: src.DateColumn, Row: row, Cause: err}
		}

		values := make([]float64, len(rawIdx))
		for j, i := range rawIdx {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				values[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &dataset.ParseError{Path: src.URL, Column: rawNames[j], Row: row, Cause: err}
			}
			values[j] = v
		}

		if err := t.AppendRow(date, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}
