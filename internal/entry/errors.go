package entry

import (
	"errors"
	"fmt"
)

// FormatErrorCode categorizes decode failures.
type FormatErrorCode string

const (
	// ErrCodeFieldCount indicates a split did not yield the expected fields.
	ErrCodeFieldCount FormatErrorCode = "FIELD_COUNT"

	// ErrCodeBadIndex indicates the line number is not a positive integer.
	ErrCodeBadIndex FormatErrorCode = "BAD_INDEX"

	// ErrCodeBadAction indicates an action other than added/removed.
	ErrCodeBadAction FormatErrorCode = "BAD_ACTION"

	// ErrCodeBadRecord indicates a v2 record that is not valid JSON or has an
	// unsupported version.
	ErrCodeBadRecord FormatErrorCode = "BAD_RECORD"
)

// FormatError reports a persisted record that cannot be decoded.
type FormatError struct {
	Code   FormatErrorCode
	Record string
	Err    error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (record=%q)", e.Code, e.Err, e.Record)
	}
	return fmt.Sprintf("%s: malformed record %q", e.Code, e.Record)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err, or any error it wraps, is a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

func formatError(code FormatErrorCode, record string, err error) *FormatError {
	return &FormatError{Code: code, Record: record, Err: err}
}
