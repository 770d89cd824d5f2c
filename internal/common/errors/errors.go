package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

type ErrorCode string

const (
	ErrCodeStorage    ErrorCode = "STORAGE_ERROR"
	ErrCodeConfig     ErrorCode = "CONFIG_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeLoad       ErrorCode = "LOAD_ERROR"

	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Sentinels for errors.Is. StandardError.Is compares codes only, so any
// storage failure matches ErrStorage regardless of details.
var (
	ErrStorage    = &StandardError{Code: ErrCodeStorage, Message: "storage failure"}
	ErrConfig     = &StandardError{Code: ErrCodeConfig, Message: "configuration failure"}
	ErrValidation = &StandardError{Code: ErrCodeValidation, Message: "validation failure"}
	ErrLoad       = &StandardError{Code: ErrCodeLoad, Message: "catalog load failure"}

	ErrInvalidArgument = &StandardError{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
)

type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	Cause     error     `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorage,
		Message:   "Storage operation failed",
		Details:   fmt.Sprintf("op: %s, error: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewConfigError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfig,
		Message:   "Malformed configuration source",
		Details:   fmt.Sprintf("source: %s, error: %v", source, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   "Malformed storage row",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewLoadError(attributeType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLoad,
		Message:   "Attribute values could not be loaded",
		Details:   fmt.Sprintf("attributeType: %s, error: %v", attributeType, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewInvalidArgumentError reports a call that broke a precondition of the
// callee. It says nothing about storage or data.
func NewInvalidArgumentError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidArgument,
		Message:   "Invalid argument",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// CategoryOf is GetErrorCategory for any error; non-StandardErrors are UNKNOWN.
func CategoryOf(err error) string {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return GetErrorCategory(stdErr.Code)
	}
	return GetErrorCategory("")
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeStorage, ErrCodeLoad:
		return "TECHNICAL"
	case ErrCodeConfig:
		return "CONFIGURATION"
	case ErrCodeValidation:
		return "DATA_CONTRACT"
	case ErrCodeInvalidArgument:
		return "CALLER"
	default:
		return "UNKNOWN"
	}
}
