// Package errors provides structured error types for the sqlean tutor.
// All errors include a category, code, message, and recoverable flag so the
// session loop can tell "retry your query" failures from "this lesson is
// misconfigured" failures.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryContent    ErrorCategory = "CONTENT"
	ErrCategoryDataset    ErrorCategory = "DATASET"
	ErrCategoryQuery      ErrorCategory = "QUERY"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Content codes
	CodeManifestNotFound = "MANIFEST_NOT_FOUND"
	CodeModuleNotFound   = "MODULE_NOT_FOUND"
	CodeLessonNotFound   = "LESSON_NOT_FOUND"
	CodeInvalidSpec      = "INVALID_SPEC"

	// Dataset codes
	CodeDatasetNotFound = "DATASET_NOT_FOUND"
	CodeSchemaError     = "SCHEMA_ERROR"
	CodeSeedError       = "SEED_ERROR"

	// Query codes
	CodeExecutionFailed  = "EXECUTION_FAILED"
	CodeExecutionTimeout = "EXECUTION_TIMEOUT"

	// Validation codes
	CodeSolutionFailed   = "SOLUTION_FAILED"
	CodeValidationFailed = "VALIDATION_FAILED"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// SqleanError is the structured error type used throughout the system.
type SqleanError struct {
	Category    ErrorCategory
	Code        string
	Message     string
	Details     map[string]interface{}
	Cause       error
	Recoverable bool
}

// Error returns a formatted error string.
func (e *SqleanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *SqleanError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *SqleanError) Is(target error) bool {
	var t *SqleanError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new SqleanError.
func New(category ErrorCategory, code, message string) *SqleanError {
	return &SqleanError{
		Category:    category,
		Code:        code,
		Message:     message,
		Recoverable: isRecoverable(category, code),
	}
}

// Wrap creates a new SqleanError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *SqleanError {
	return &SqleanError{
		Category:    category,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: isRecoverable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *SqleanError) WithDetails(details map[string]interface{}) *SqleanError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRecoverable checks whether an error (or its chain) lets the session
// continue. Query-level failures are recoverable; setup and content errors
// abort the lesson.
func IsRecoverable(err error) bool {
	var se *SqleanError
	if errors.As(err, &se) {
		return se.Recoverable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a SqleanError.
func GetCategory(err error) ErrorCategory {
	var se *SqleanError
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a SqleanError.
func GetCode(err error) string {
	var se *SqleanError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// isRecoverable determines if an error code leaves the session alive.
func isRecoverable(category ErrorCategory, code string) bool {
	switch {
	case category == ErrCategoryQuery && code == CodeExecutionFailed:
		return true
	case category == ErrCategoryQuery && code == CodeExecutionTimeout:
		return true
	case category == ErrCategoryValidation && code == CodeValidationFailed:
		return true
	default:
		return false
	}
}

// Convenience constructors for common errors.

func NewContentError(code, message string, cause error) *SqleanError {
	return Wrap(ErrCategoryContent, code, message, cause)
}

func NewDatasetError(code, message string, cause error) *SqleanError {
	return Wrap(ErrCategoryDataset, code, message, cause)
}

func NewQueryError(code, message string) *SqleanError {
	return New(ErrCategoryQuery, code, message)
}

func NewValidationError(code, message string) *SqleanError {
	return New(ErrCategoryValidation, code, message)
}

func NewInternalError(message string, cause error) *SqleanError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
