package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Acquisition errors
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrBodyTooLarge     = errors.New("response body exceeds size limit")

	// Table errors
	ErrMalformedTable = errors.New("malformed table")
	ErrMissingColumn  = fmt.Errorf("%w: missing required column", ErrMalformedTable)
	ErrEmptyTable     = fmt.Errorf("%w: no header row", ErrMalformedTable)

	// Metric errors
	ErrInvalidMeasurement = errors.New("invalid measurement")
	ErrInvalidHeight      = fmt.Errorf("%w: height", ErrInvalidMeasurement)
	ErrInvalidWeight      = fmt.Errorf("%w: weight", ErrInvalidMeasurement)
	ErrNonFiniteMetric    = errors.New("derived metric is not finite")
)

// Error constructors with context
func NewStatusError(status int) error {
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
}

func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: %v", ErrMissingColumn, columns)
}

func NewRaggedRowError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformedTable, row, got, want)
}

// IsTableError reports whether err comes from a file that is not a usable table
func IsTableError(err error) bool {
	return errors.Is(err, ErrMalformedTable)
}
