package processor

import (
	"fmt"
	"strings"
)

// Field resolution failures.
const (
	ReasonPartialPair   = "latitude or longitude missing"
	ReasonMissingXY     = "coordinate field missing"
	ReasonNotFound      = "coordinates not found"
	ReasonMissingHeader = "header row missing"
	ReasonBadHeader     = "header row malformed"
)

// SourceUnavailableError is returned when the input cannot be opened.
type SourceUnavailableError struct {
	Location string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("can't read %s: %v", e.Location, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// FieldResolutionError means the header row does not say where the coordinates are.
// It is fatal for the whole file.
type FieldResolutionError struct {
	Reason string
	Header []string
	Err    error
}

func (e *FieldResolutionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("field resolution: %s: %v", e.Reason, e.Err)
	case len(e.Header) == 0:
		return "field resolution: " + e.Reason
	default:
		return fmt.Sprintf("field resolution: %s (header: %s)", e.Reason, strings.Join(e.Header, ","))
	}
}

func (e *FieldResolutionError) Unwrap() error { return e.Err }

// CoordinateConversionError means one row's coordinate text could not be
// turned into a point. Only that row is dropped.
type CoordinateConversionError struct {
	Values []string
	Err    error
}

func (e *CoordinateConversionError) Error() string {
	return fmt.Sprintf("convert coordinates %q: %v", e.Values, e.Err)
}

func (e *CoordinateConversionError) Unwrap() error { return e.Err }

// RowShapeError means a row does not line up with the header.
type RowShapeError struct {
	Want int
	Got  int
	Err  error
}

func (e *RowShapeError) Error() string {
	if e.Err != nil {
		return "malformed row: " + e.Err.Error()
	}

	return fmt.Sprintf("row has %d fields, header has %d", e.Got, e.Want)
}

func (e *RowShapeError) Unwrap() error { return e.Err }

// RowError records a skipped row and why it was skipped.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
