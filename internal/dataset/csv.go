package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// dateLayouts are accepted on input; output always uses dateLayout.
var dateLayouts = []string{dateLayout, "2006-01-02 15:04:05", time.RFC3339}

// Reader loads a table from a path. The pipeline and the analytics server
// consume this interface so the cached decorator can be swapped in.
type Reader interface {
	Read(path string) (*Table, error)
}

// Writer persists a table to a path.
type Writer interface {
	Write(t *Table, path string) error
}

// FileReader reads CSV files from the local filesystem.
type FileReader struct{}

// Read parses a CSV file into a Table. The file needs a header row with a
// "date" column; every other column is numeric. Blank cells become NaN.
func (FileReader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}
	if len(records) == 0 {
		return nil, &SchemaError{Path: path, Reason: "empty file, header row required"}
	}

	header := records[0]
	dateIdx := -1
	for i, name := range header {
		if name == "date" {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, &SchemaError{Path: path, Reason: `missing "date" column`}
	}

	columns := make([]string, 0, len(header)-1)
	valueIdx := make([]int, 0, len(header)-1)
	for i, name := range header {
		if i == dateIdx {
			continue
		}
		columns = append(columns, name)
		valueIdx = append(valueIdx, i)
	}

	t := New(path, columns)
	seen := make(map[time.Time]bool, len(records)-1)
	isFloat := make([]bool, len(columns))

	for r, record := range records[1:] {
		row := r + 1

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, &ParseError{Path: path, Column: "date", Row: row, Cause: err}
		}
		if seen[date] {
			return nil, &SchemaError{Path: path, Reason: fmt.Sprintf("duplicate date %s", date.Format(dateLayout))}
		}
		seen[date] = true

		values := make([]float64, len(columns))
		for j, i := range valueIdx {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				values[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &ParseError{Path: path, Column: columns[j], Row: row, Cause: err}
			}
			values[j] = v
			if strings.ContainsAny(cell, ".eE") {
				isFloat[j] = true
			}
		}

		if err := t.AppendRow(date, values); err != nil {
			return nil, err
		}
	}

	for j, f := range isFloat {
		if f {
			t.kinds[j] = KindFloat
		}
	}
	t.name = filepath.Base(path)
	return t, nil
}

// FileWriter writes CSV files to the local filesystem.
type FileWriter struct{}

// Write persists a table as CSV: header row, then one row per date in
// order. KindFloat columns use fixed 6-decimal precision so output is
// deterministic and diffable; KindInt columns are written without a
// decimal point. NaN cells are written as empty strings.
func (FileWriter) Write(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"date"}, t.columns...)); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}

	record := make([]string, len(t.columns)+1)
	for r, d := range t.dates {
		record[0] = d.Format(dateLayout)
		for j, v := range t.cells[r] {
			record[j+1] = formatCell(v, t.kinds[j])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatCell(v float64, kind ColumnKind) string {
	if math.IsNaN(v) {
		return ""
	}
	if kind == KindFloat {
		return strconv.FormatFloat(v, 'f', 6, 64)
	}
	return strconv.FormatInt(int64(v), 10)
}

func parseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, cell)
		if err == nil {
			return normalizeDate(d), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
