package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyGrid is wrapped by LoadError when the sheet has no rows
var ErrEmptyGrid = errors.New("worksheet is empty")

// LoadError is a terminal failure to read the uploaded spreadsheet. Its
// message is shown to the user as-is.
type LoadError struct {
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("cannot load spreadsheet: %v", e.Err)
	}
	return fmt.Sprintf("cannot load %s spreadsheet: %v", e.Format, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RowParseError means a single row's timestamp could not be parsed. The row
// is dropped; the error never aborts a run.
type RowParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: cannot parse timestamp %q: %v", e.Row, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is, or wraps, a LoadError
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
