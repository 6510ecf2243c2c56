// Package apperror defines the stable error taxonomy surfaced by the HTTP API.
package apperror

import "fmt"

// Code is a stable, caller-facing error identifier.
type Code string

const (
	// CodeInvalidInput marks a request missing required fields or malformed.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeDatabaseNotAccessible marks a target database the integration cannot reach.
	CodeDatabaseNotAccessible Code = "DATABASE_NOT_ACCESSIBLE"
	// CodePageArchived marks an update target that has been archived.
	CodePageArchived Code = "PAGE_ARCHIVED"
	// CodeNotFound marks an unknown page, database, or block.
	CodeNotFound Code = "NOT_FOUND"
	// CodeNotionUnreachable marks a create-phase failure talking to Notion.
	CodeNotionUnreachable Code = "NOTION_UNREACHABLE"
	// CodeAppendFailed marks a permanent failure appending one or more chunks.
	CodeAppendFailed Code = "APPEND_FAILED"
	// CodeOrchestrationPartial marks a partially-successful deferred-nesting pass.
	CodeOrchestrationPartial Code = "ORCHESTRATION_PARTIAL"
	// CodeValidationFailed marks a non-fatal comparator failure.
	CodeValidationFailed Code = "VALIDATION_FAILED"
	// CodeInternal marks an unexpected internal error.
	CodeInternal Code = "INTERNAL"
)

// AppError is a structured, user-facing error.
type AppError struct {
	Code    Code
	Message string
	Details any
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped error for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with no wrapped cause.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates a new AppError wrapping an underlying error.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDetails attaches structured details to an AppError and returns it.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}
