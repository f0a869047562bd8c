package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/couchcryptid/covid-analytics-etl/internal/stats"
	"github.com/couchcryptid/covid-analytics-etl/internal/validate"
)

const defaultHistogramBins = 30

type datasetResponse struct {
	Columns []string     `json:"columns"` // "date" first, then value columns
	Rows    []datasetRow `json:"rows"`
}

type datasetRow struct {
	Date   string    `json:"date"`
	Values []float64 `json:"values"` // aligned with Columns[1:]
}

// handleDataset returns the full cleaned table.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadCleaned(w, r)
	if !ok {
		return
	}

	columns := t.Columns()
	resp := datasetResponse{
		Columns: append([]string{"date"}, columns...),
		Rows:    make([]datasetRow, 0, t.NumRows()),
	}
	for i, d := range t.Dates() {
		values := make([]float64, len(columns))
		for j, c := range columns {
			v, err := t.Value(i, c)
			if err != nil {
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, map[string]string{"error": err.Error()})
				return
			}
			values[j] = v
		}
		resp.Rows = append(resp.Rows, datasetRow{Date: d.Format("2006-01-02"), Values: values})
	}
	render.JSON(w, r, resp)
}

// handleMetricNames returns the selectable feature columns: everything
// except date and cases.
func (s *Server) handleMetricNames(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadCleaned(w, r)
	if !ok {
		return
	}

	features := make([]string, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		if c != "cases" {
			features = append(features, c)
		}
	}
	render.JSON(w, r, map[string][]string{"metrics": features})
}

type correlationResponse struct {
	Metric      string  `json:"metric"`
	Correlation float64 `json:"correlation"` // Pearson r of cases vs the metric
	Rows        int     `json:"rows"`
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		badRequest(w, r, "missing required query parameter: metric")
		return
	}
	if metric == "date" || metric == "cases" {
		badRequest(w, r, "metric must be a feature column, not date or cases")
		return
	}

	t, ok := s.loadCleaned(w, r)
	if !ok {
		return
	}

	feature, err := t.Column(metric)
	if err != nil {
		badRequest(w, r, "unknown metric: "+metric)
		return
	}
	cases, err := t.Column("cases")
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	render.JSON(w, r, correlationResponse{
		Metric:      metric,
		Correlation: stats.Pearson(cases, feature),
		Rows:        t.NumRows(),
	})
}

type histogramResponse struct {
	Column string      `json:"column"`
	Bins   []stats.Bin `json:"bins"`
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	bins := defaultHistogramBins
	if q := r.URL.Query().Get("bins"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > 1000 {
			badRequest(w, r, "bins must be a positive integer up to 1000")
			return
		}
		bins = n
	}

	t, ok := s.loadCleaned(w, r)
	if !ok {
		return
	}

	cases, err := t.Column("cases")
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	render.JSON(w, r, histogramResponse{
		Column: "cases",
		Bins:   stats.Histogram(cases, bins),
	})
}

type summaryResponse struct {
	validate.Summary
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadCleaned(w, r)
	if !ok {
		return
	}

	resp := summaryResponse{Summary: validate.Summarize(t)}
	if dates := t.Dates(); len(dates) > 0 {
		resp.FirstDate = dates[0].Format("2006-01-02")
		resp.LastDate = dates[len(dates)-1].Format("2006-01-02")
	}
	render.JSON(w, r, resp)
}
