package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of a wrapped AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeAcquisition        = "ACQUISITION_ERROR"
	CodeAcquisitionTimeout = "ACQUISITION_TIMEOUT"
	CodeParseError         = "PARSE_ERROR"
	CodeInvalidMetric      = "INVALID_METRIC"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// AcquisitionFailed reports a dataset download that did not succeed
func AcquisitionFailed(cause error) *AppError {
	return &AppError{
		Code:    CodeAcquisition,
		Message: "dataset download failed",
		Cause:   cause,
	}
}

// AcquisitionTimeout reports a dataset download that exceeded its deadline
func AcquisitionTimeout(cause error) *AppError {
	return &AppError{
		Code:    CodeAcquisitionTimeout,
		Message: "dataset download timed out",
		Cause:   cause,
	}
}

// IsAcquisitionError matches both acquisition codes
func IsAcquisitionError(err error) bool {
	code := GetCode(err)
	return code == CodeAcquisition || code == CodeAcquisitionTimeout
}

// ParseFailed reports a local dataset file that could not be turned into a table
func ParseFailed(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseError,
		Message: message,
		Cause:   cause,
	}
}

// InvalidMetric reports a record whose BMI cannot be derived
func InvalidMetric(row int, cause error) *AppError {
	return &AppError{
		Code:    CodeInvalidMetric,
		Message: fmt.Sprintf("row %d has no valid BMI", row),
		Cause:   cause,
	}
}
