package shared

import "strings"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	// ErrLockTimeout is returned when a guarding transaction could not acquire
	// its row or advisory lock within the configured bound. Retryable.
	ErrLockTimeout = NewDomainError("LOCK_TIMEOUT", "Could not acquire lock within the configured timeout")
	// ErrNumberRangeExhausted is returned when a custom-number series has no
	// next value that still fits its configured width.
	ErrNumberRangeExhausted = NewDomainError("NUMBER_RANGE_EXHAUSTED", "Custom number series is exhausted")
)

// FieldError is a single field/message pair inside a ValidationErrors list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every rule an operation violated. It is returned
// as one error value so callers see all violations at once. Business-rule
// violations (book unavailable, member at the rental cap) travel through the
// same type as plain field validation.
type ValidationErrors []FieldError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		if fe.Field != "" {
			msgs[i] = fe.Field + ": " + fe.Message
		} else {
			msgs[i] = fe.Message
		}
	}
	return strings.Join(msgs, "; ")
}

// Add appends a violation and returns the extended list.
func (v ValidationErrors) Add(field, message string) ValidationErrors {
	return append(v, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any violation was recorded.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}
