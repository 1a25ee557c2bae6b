package diagram

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSchema is returned when a table or reference lacks a field
	// the builders need.
	ErrMalformedSchema = errors.New("malformed schema")

	// ErrNilSchema is returned when there is no schema to build from.
	ErrNilSchema = errors.New("schema is nil")
)

// Stage names the builder that failed.
type Stage string

const (
	StageTables  Stage = "tables"
	StageColumns Stage = "columns"
)

// SynthesisError reports where a builder stopped. Output built before the
// fault is still returned next to it.
type SynthesisError struct {
	Stage  Stage
	Table  string
	Column string
	Err    error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	switch {
	case e.Column != "":
		return fmt.Sprintf("building %s: table %q column %q: %v", e.Stage, e.Table, e.Column, e.Err)
	case e.Table != "":
		return fmt.Sprintf("building %s: table %q: %v", e.Stage, e.Table, e.Err)
	default:
		return fmt.Sprintf("building %s: %v", e.Stage, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// recoverFault turns a panic inside a builder into a SynthesisError so the
// caller keeps the partial output.
func recoverFault(stage Stage, table, column *string, errp *error) {
	if r := recover(); r != nil {
		*errp = &SynthesisError{
			Stage:  stage,
			Table:  *table,
			Column: *column,
			Err:    fmt.Errorf("%w: %v", ErrMalformedSchema, r),
		}
	}
}
