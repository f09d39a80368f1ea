package errors

import "net/http"

// ErrorCategory classifies an error for routing, logging and status mapping.
type ErrorCategory string

// Caller and input errors.
const (
	CategoryConfig        ErrorCategory = "config"
	CategoryValidation    ErrorCategory = "validation"
	CategoryAuth          ErrorCategory = "auth"
	CategoryNotFound      ErrorCategory = "not_found"
	CategoryAlreadyExists ErrorCategory = "already_exists"
)

// Collaborator errors: the backing store, remote services and the content tree.
const (
	CategoryStore      ErrorCategory = "store"
	CategoryNetwork    ErrorCategory = "network"
	CategoryContent    ErrorCategory = "content"
	CategoryExtraction ErrorCategory = "extraction"
)

// Process errors.
const (
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

var categoryStatus = map[ErrorCategory]int{
	CategoryConfig:        http.StatusBadRequest,
	CategoryValidation:    http.StatusBadRequest,
	CategoryAuth:          http.StatusUnauthorized,
	CategoryNotFound:      http.StatusNotFound,
	CategoryAlreadyExists: http.StatusConflict,
	CategoryStore:         http.StatusServiceUnavailable,
	CategoryNetwork:       http.StatusBadGateway,
	CategoryContent:       http.StatusUnprocessableEntity,
	CategoryExtraction:    http.StatusUnprocessableEntity,
	CategoryRuntime:       http.StatusServiceUnavailable,
}

// HTTPStatus returns the response status for errors of category c. Unknown
// categories map to 500.
func (c ErrorCategory) HTTPStatus() int {
	if status, ok := categoryStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the command
	SeverityError   ErrorSeverity = "error"   // fails the current operation
	SeverityWarning ErrorSeverity = "warning" // degraded result
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy tells callers whether repeating the operation can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user" // needs an operator fix first
)
