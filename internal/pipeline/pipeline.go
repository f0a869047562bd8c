package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/observability"
)

// Stage names, used in failure metrics and error messages.
const (
	StageLoad        = "load"
	StageMerge       = "merge"
	StageDropMissing = "drop_missing"
	StagePersistRaw  = "persist_raw"
	StageStandardize = "standardize"
	StagePersistOut  = "persist_clean"
)

// Paths locates the pipeline's inputs and outputs.
type Paths struct {
	Cases      string
	WebMetrics string
	RawMerged  string // merged-but-not-standardized backup
	Cleaned    string // final standardized output
}

// Result describes a successful run.
type Result struct {
	Merged       *dataset.Table // raw merge, as persisted to RawMerged
	Standardized *dataset.Table // final table, as persisted to Cleaned
	RowsMerged   int
	RowsDropped  int
	CompletedAt  time.Time
}

// Pipeline is the cleaning pipeline: load both sources, inner-join on
// date, drop rows with missing values, persist the raw merge, z-score
// standardize the feature columns, and persist the cleaned table.
//
// Any step failure aborts the run; the only artifact that can survive a
// partial failure is the raw-merge backup, written before standardization
// so the merge result is always recoverable.
type Pipeline struct {
	reader  dataset.Reader
	writer  dataset.Writer
	paths   Paths
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// New creates a Pipeline.
func New(reader dataset.Reader, writer dataset.Writer, paths Paths, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		reader:  reader,
		writer:  writer,
		paths:   paths,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
}

// SetClock swaps the time source. Pass nil to reset to real time.
func (p *Pipeline) SetClock(c clockwork.Clock) {
	if c == nil {
		p.clock = clockwork.NewRealClock()
		return
	}
	p.clock = c
}

// Run executes the pipeline once.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := p.clock.Now()
	p.metrics.PipelineRuns.Inc()

	web, err := p.reader.Read(p.paths.WebMetrics)
	if err != nil {
		return nil, p.fail(StageLoad, err)
	}
	cases, err := p.reader.Read(p.paths.Cases)
	if err != nil {
		return nil, p.fail(StageLoad, err)
	}
	if !cases.HasColumn("cases") {
		return nil, p.fail(StageLoad, &dataset.SchemaError{Path: p.paths.Cases, Reason: `missing "cases" column`})
	}
	p.logger.Info("loaded input files",
		"web_metrics_rows", web.NumRows(),
		"cases_rows", cases.NumRows(),
	)
	if err := ctx.Err(); err != nil {
		return nil, p.fail(StageLoad, err)
	}

	// Inner join, web metrics on the left: the merged column order is the
	// feature columns followed by cases, which is also the output order.
	merged, err := dataset.InnerJoin(web, cases)
	if err != nil {
		return nil, p.fail(StageMerge, err)
	}
	joinedRows := merged.NumRows()
	p.metrics.RowsMerged.Set(float64(joinedRows))
	p.logger.Info("merged datasets", "rows", joinedRows)

	dropped := merged.DropMissing()
	p.metrics.RowsDropped.Set(float64(dropped))
	if dropped > 0 {
		p.logger.Info("dropped rows with missing values", "rows", dropped)
	}

	if err := p.writer.Write(merged, p.paths.RawMerged); err != nil {
		return nil, p.fail(StagePersistRaw, err)
	}
	p.logger.Info("persisted raw merge backup", "path", p.paths.RawMerged)
	if err := ctx.Err(); err != nil {
		return nil, p.fail(StagePersistRaw, err)
	}

	standardized := merged.Clone()
	if err := standardized.Standardize("cases"); err != nil {
		return nil, p.fail(StageStandardize, err)
	}

	if err := p.writer.Write(standardized, p.paths.Cleaned); err != nil {
		return nil, p.fail(StagePersistOut, err)
	}

	completed := p.clock.Now()
	p.metrics.RunDuration.Observe(completed.Sub(start).Seconds())
	p.logger.Info("pipeline completed",
		"rows", standardized.NumRows(),
		"dropped", dropped,
		"output", p.paths.Cleaned,
		"duration", completed.Sub(start),
	)

	return &Result{
		Merged:       merged,
		Standardized: standardized,
		RowsMerged:   joinedRows,
		RowsDropped:  dropped,
		CompletedAt:  completed,
	}, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	p.metrics.PipelineFailures.WithLabelValues(stage).Inc()
	p.logger.Error("pipeline failed", "stage", stage, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}
