package report

import (
	"fmt"
	"strings"
)

// MissingColumnsError indicates no table in the input workbook exposes the
// required column set. Fatal; surfaced verbatim to the caller.
type MissingColumnsError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("report: no table in %s contains columns: %s", e.Path, strings.Join(e.Columns, ", "))
}

// ValueConversionError indicates a revenue cell holds a non-blank,
// non-numeric value. Fatal; aborts the entire load.
type ValueConversionError struct {
	Sheet string
	Cell  string
	Value string
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("report: unable to convert %q at %s!%s to a number", e.Value, e.Sheet, e.Cell)
}

// InvalidFilenameError indicates an input filename that does not match the
// raw_data_YYMMDD convention. Checked before any parsing work.
type InvalidFilenameError struct {
	Name string
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("report: filename %q does not match raw_data_YYMMDD", e.Name)
}

// ArtifactWriteError indicates the persisted artifact could not be opened
// for writing or saved.
type ArtifactWriteError struct {
	Path string
	Err  error
}

func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("report: write artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactWriteError) Unwrap() error { return e.Err }
