/*
 * @module service/funding/errors
 * @description Named error conditions raised by the funding metrics reshaper
 * @architecture Service layer - error taxonomy
 * @documentReference DESIGN.md
 * @stateFlow precondition check -> typed error -> controller status mapping
 * @rules Callers match with errors.Is on the sentinels or errors.As on the types
 * @dependencies errors, fmt, strings
 * @refs api/controllers/response.go
 */

package funding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput is matched by every EmptyInputError.
	ErrEmptyInput = errors.New("no district selected")
	// ErrSchema is matched by every SchemaError.
	ErrSchema = errors.New("dataset schema mismatch")
	// ErrUnknownRole is returned for a resource role outside the vocabulary.
	ErrUnknownRole = errors.New("unknown resource role")
)

// EmptyInputError reports a reshape call that did not receive exactly one row.
type EmptyInputError struct {
	Rows int
}

func (e *EmptyInputError) Error() string {
	if e.Rows == 0 {
		return "no district selected: reshape needs exactly one row, got none"
	}
	return fmt.Sprintf("ambiguous district selection: reshape needs exactly one row, got %d", e.Rows)
}

func (e *EmptyInputError) Is(target error) bool {
	return target == ErrEmptyInput
}

// SchemaError reports columns that are absent or hold values of the wrong type.
type SchemaError struct {
	Source  string
	Missing []string
	Invalid []string
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid values in [%s]", strings.Join(e.Invalid, ", ")))
	}
	source := e.Source
	if source == "" {
		source = "district record"
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchema.Error(), source, strings.Join(parts, "; "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
