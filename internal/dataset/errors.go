package dataset

import (
	"fmt"
	"io/fs"
)

// FileNotFoundError indicates a local input file is absent.
// Unwraps to fs.ErrNotExist so callers can use errors.Is.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error { return fs.ErrNotExist }

// ParseError indicates a malformed CSV cell or an unparseable date.
type ParseError struct {
	Path   string
	Column string
	Row    int // 1-based data row, excluding the header
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: column %q row %d: %v", e.Path, e.Column, e.Row, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SchemaError indicates structural problems: a missing header, a missing
// required column, a duplicate date, or an insufficient row count.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s: %s", e.Path, e.Reason)
}

// NetworkError indicates a failed remote fetch. Used only by the public
// data merger; the local pipeline never produces one.
type NetworkError struct {
	URL   string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// DegenerateColumnError indicates a feature column with zero variance,
// which cannot be z-score standardized.
type DegenerateColumnError struct {
	Column string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("column %q has zero variance and cannot be standardized", e.Column)
}
