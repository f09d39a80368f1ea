package errors

import (
	stderrors "errors"
	"maps"
	"strings"
)

// ClassifiedError is an error with a category, a severity, a retry hint and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

// Error renders "[category:severity] message: cause".
func (e *ClassifiedError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.category))
	b.WriteByte(':')
	b.WriteString(string(e.severity))
	b.WriteString("] ")
	b.WriteString(e.message)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Context() ErrorContext   { return e.context }
func (e *ClassifiedError) IsFatal() bool           { return e.severity == SeverityFatal }
func (e *ClassifiedError) CanRetry() bool          { return e.retry == RetryBackoff }
func (e *ClassifiedError) Retry() RetryStrategy    { return e.retry }

// Wrap copies the sentinel e with cause attached and kv added as context pairs.
// The result still matches e under errors.Is.
func (e *ClassifiedError) Wrap(cause error, kv ...any) *ClassifiedError {
	out := *e
	out.cause = cause
	out.context = maps.Clone(e.context)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			out.context = out.context.Set(key, kv[i+1])
		}
	}
	return &out
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && other.category == e.category && other.message == e.message
}

// AsClassified returns the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var c *ClassifiedError
	ok := stderrors.As(err, &c)
	return c, ok
}

// HasCategory reports whether the first classified error in the chain has category.
func HasCategory(err error, category ErrorCategory) bool {
	c, ok := AsClassified(err)
	return ok && c.category == category
}

// GetCategory returns err's category, or CategoryInternal for unclassified errors.
func GetCategory(err error) ErrorCategory {
	if c, ok := AsClassified(err); ok {
		return c.category
	}
	return CategoryInternal
}
