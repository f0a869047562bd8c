// Package generate synthesizes the two input datasets the pipeline
// consumes: daily COVID case counts and daily web-interaction metrics.
//
// Output is fully deterministic for a given Options value: one seeded
// PRNG is shared across all draws, in a fixed order. Case noise is drawn
// for every day first, then each web metric column in schema order, all
// days per column. Two runs with identical options produce byte-identical
// CSV files.
package generate

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/couchcryptid/covid-analytics-etl/internal/dataset"
)

// Options parameterizes the synthetic data model.
type Options struct {
	Start time.Time // first date, inclusive
	End   time.Time // last date, inclusive
	Seed  int64

	BaseCases          float64 // constant case baseline
	TrendCeiling       float64 // linear trend rises from 0 to this over the range
	SeasonalAmplitude  float64 // sine amplitude
	SeasonalPeriodDays float64 // sine period in days
	NoiseStdDev        float64 // normal noise stddev

	// CorrelateWithCases adds CaseInfluence * weight * cases(t) to each web
	// metric so case surges show up in web activity. With it disabled the
	// metrics are pure Poisson counts, independent of the case series.
	CorrelateWithCases bool
	CaseInfluence      float64
}

// DefaultOptions returns the standard synthetic model: spring-to-summer
// 2020, seed 42, correlated web metrics.
func DefaultOptions() Options {
	return Options{
		Start:              time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		End:                time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC),
		Seed:               42,
		BaseCases:          50,
		TrendCeiling:       100,
		SeasonalAmplitude:  20,
		SeasonalPeriodDays: 30,
		NoiseStdDev:        15,
		CorrelateWithCases: true,
		CaseInfluence:      0.1,
	}
}

// metricSpec defines one web metric column: Poisson rate, constant offset,
// and the weight applied to the case-influence term.
type metricSpec struct {
	name   string
	lambda float64
	offset float64
	weight float64
}

// Schema order matters: it is also the PRNG draw order.
var webMetricSpecs = []metricSpec{
	{name: "page_views", lambda: 1000, offset: 500, weight: 1.0},
	{name: "unique_visitors", lambda: 800, offset: 300, weight: 0.8},
	{name: "search_queries", lambda: 200, offset: 100, weight: 0.5},
	{name: "covid_symptom_searches", lambda: 50, offset: 20, weight: 0.3},
	{name: "appointment_requests", lambda: 30, offset: 10, weight: 0.2},
}

// Generator produces the synthetic case and web metric tables.
type Generator struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Generator.
func New(opts Options, logger *slog.Logger) *Generator {
	return &Generator{opts: opts, logger: logger}
}

// Generate builds both tables in memory.
func (g *Generator) Generate() (*dataset.Table, *dataset.Table, error) {
	dates := dateRange(g.opts.Start, g.opts.End)
	n := len(dates)
	rng := rand.New(rand.NewSource(g.opts.Seed))

	// Case model: max(0, base + trend + seasonal + noise), truncated to int.
	cases := make([]float64, n)
	for i := range dates {
		trend := 0.0
		if n > 1 {
			trend = g.opts.TrendCeiling * float64(i) / float64(n-1)
		}
		seasonal := g.opts.SeasonalAmplitude * math.Sin(2*math.Pi*float64(i)/g.opts.SeasonalPeriodDays)
		noise := rng.NormFloat64() * g.opts.NoiseStdDev
		cases[i] = math.Trunc(math.Max(0, g.opts.BaseCases+trend+seasonal+noise))
	}

	caseTable := dataset.New("cases", []string{"cases"})
	for i, d := range dates {
		if err := caseTable.AppendRow(d, []float64{cases[i]}); err != nil {
			return nil, nil, err
		}
	}

	// Web metrics: one Poisson column at a time, matching the draw order
	// documented in the package comment.
	columns := make([]string, len(webMetricSpecs))
	for j, spec := range webMetricSpecs {
		columns[j] = spec.name
	}
	metricValues := make([][]float64, len(webMetricSpecs))
	for j, spec := range webMetricSpecs {
		col := make([]float64, n)
		for i := range col {
			v := poisson(rng, spec.lambda) + spec.offset
			if g.opts.CorrelateWithCases {
				v += g.opts.CaseInfluence * spec.weight * cases[i]
			}
			col[i] = v
		}
		metricValues[j] = col
	}

	webTable := dataset.New("web_metrics", columns)
	row := make([]float64, len(webMetricSpecs))
	for i, d := range dates {
		for j := range webMetricSpecs {
			row[j] = metricValues[j][i]
		}
		if err := webTable.AppendRow(d, row); err != nil {
			return nil, nil, err
		}
	}
	if g.opts.CorrelateWithCases {
		// The influence term makes the metrics fractional.
		for _, c := range columns {
			if err := webTable.SetKind(c, dataset.KindFloat); err != nil {
				return nil, nil, err
			}
		}
	}

	g.logger.Info("generated sample data",
		"rows", n,
		"start", g.opts.Start.Format("2006-01-02"),
		"end", g.opts.End.Format("2006-01-02"),
		"seed", g.opts.Seed,
		"correlated", g.opts.CorrelateWithCases,
	)
	return caseTable, webTable, nil
}

// WriteFiles generates both tables and persists them with the given writer.
func (g *Generator) WriteFiles(w dataset.Writer, casesPath, webMetricsPath string) error {
	caseTable, webTable, err := g.Generate()
	if err != nil {
		return err
	}
	if err := w.Write(caseTable, casesPath); err != nil {
		return err
	}
	if err := w.Write(webTable, webMetricsPath); err != nil {
		return err
	}
	g.logger.Info("wrote sample data files", "cases", casesPath, "web_metrics", webMetricsPath)
	return nil
}

// poisson draws from a Poisson distribution using Knuth's method. Large
// rates are split into chunks so exp(-lambda) stays representable; the
// sum of independent Poisson draws is itself Poisson.
func poisson(rng *rand.Rand, lambda float64) float64 {
	var k float64
	for lambda > 0 {
		step := math.Min(lambda, 500)
		threshold := math.Exp(-step)
		p := 1.0
		n := -1
		for p > threshold {
			p *= rng.Float64()
			n++
		}
		k += float64(n)
		lambda -= step
	}
	return k
}

func dateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
