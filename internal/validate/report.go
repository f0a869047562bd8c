package validate

import (
	"log/slog"
	"math"

	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
	"github.com/couchcryptid/covid-analytics-etl/internal/stats"
)

// ColumnSummary holds per-column quality statistics. Min/Mean/Max are
// computed over non-missing values only.
type ColumnSummary struct {
	Name    string  `json:"name"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
}

// Summary is a data quality report for one dataset.
type Summary struct {
	Dataset string          `json:"dataset"`
	Rows    int             `json:"rows"`
	Columns int             `json:"columns"`
	Stats   []ColumnSummary `json:"stats"`
}

// Summarize computes a quality report for a table.
func Summarize(t *dataset.Table) Summary {
	columns := t.Columns()
	s := Summary{
		Dataset: t.Name(),
		Rows:    t.NumRows(),
		Columns: len(columns) + 1, // value columns plus date
	}

	for _, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			continue
		}
		present := col[:0:0]
		missing := 0
		for _, v := range col {
			if math.IsNaN(v) {
				missing++
				continue
			}
			present = append(present, v)
		}
		minV, maxV := stats.MinMax(present)
		s.Stats = append(s.Stats, ColumnSummary{
			Name:    name,
			Missing: missing,
			Min:     minV,
			Mean:    stats.Mean(present),
			Max:     maxV,
		})
	}
	return s
}

// LogSummary writes a quality report through the given logger.
func LogSummary(logger *slog.Logger, s Summary) {
	logger.Info("data quality report", "dataset", s.Dataset, "rows", s.Rows, "columns", s.Columns)
	for _, c := range s.Stats {
		logger.Info("column quality",
			"dataset", s.Dataset,
			"column", c.Name,
			"missing", c.Missing,
			"min", c.Min,
			"mean", c.Mean,
			"max", c.Max,
		)
	}
}
