package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTable is returned for a table name outside AllTables.
var ErrUnknownTable = errors.New("unknown table")

// ErrNotFinite is wrapped by MalformedRowError for NaN and infinite cells.
var ErrNotFinite = errors.New("not a finite number")

// MissingFileError reports that a table's backing file is absent.
type MissingFileError struct {
	Table TableName
	Path  string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing file for table %s: %s", e.Table, e.Path)
}

// MissingColumnError reports a required column absent from a header or row.
type MissingColumnError struct {
	Table  TableName
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("table %s: missing column %q", e.Table, e.Column)
}

// MalformedRowError reports a numeric column that failed to parse.
type MalformedRowError struct {
	Table  TableName
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("table %s row %d: column %q: cannot parse %q as number", e.Table, e.Row, e.Column, e.Value)
}

// Unwrap returns the underlying parse error.
func (e *MalformedRowError) Unwrap() error { return e.Err }

// AmbiguousColumnError reports a header carrying several annotated forms of
// a column and not the column itself.
type AmbiguousColumnError struct {
	Table   TableName
	Column  string
	Headers []string
}

func (e *AmbiguousColumnError) Error() string {
	return fmt.Sprintf("table %s: column %q matches several headers: %s", e.Table, e.Column, strings.Join(e.Headers, ", "))
}
