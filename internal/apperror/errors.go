// Package apperror defines the error taxonomy surfaced to the user: malformed
// input files, tokenizer failures, degraded external services and rejected
// user input.
package apperror

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by UserInputError when an identifier does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a structurally unusable upload: missing required
// columns or no data rows. The whole batch is rejected.
type ValidationError struct {
	Source  string
	Reason  string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("validation failed for %s: %s (missing: %v)", e.Source, e.Reason, e.Missing)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Source, e.Reason)
}

// ParseError reports a value or stream that could not be parsed.
type ParseError struct {
	Source string
	Row    int // 1-based data row, 0 when not row specific
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v", e.Source, e.Row, e.Field, e.Value, e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: failed to parse %s='%s': %v", e.Source, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExternalServiceError reports a failed fetch of the keyword configuration or
// the currency-rate table. Callers continue in degraded mode.
type ExternalServiceError struct {
	Service    string
	URL        string
	StatusCode int
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s unavailable (%s, status %d): %v", e.Service, e.URL, e.StatusCode, e.Err)
	}
	if e.URL != "" {
		return fmt.Sprintf("%s unavailable (%s): %v", e.Service, e.URL, e.Err)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// UserInputError reports input rejected at the point of entry. No state is mutated.
type UserInputError struct {
	Field   string
	Message string
	Err     error
}

func (e *UserInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *UserInputError) Unwrap() error {
	return e.Err
}

// Kind names an error category for presentation.
type Kind string

const (
	KindValidation Kind = "validation"
	KindParse      Kind = "parse"
	KindExternal   Kind = "external"
	KindUserInput  Kind = "user_input"
	KindInternal   Kind = "internal"
)

// KindOf classifies err by the first taxonomy type found in its chain.
func KindOf(err error) Kind {
	var validationErr *ValidationError
	var parseErr *ParseError
	var externalErr *ExternalServiceError
	var inputErr *UserInputError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &externalErr):
		return KindExternal
	case errors.As(err, &inputErr):
		return KindUserInput
	default:
		return KindInternal
	}
}

// Invalid is shorthand for a UserInputError on field.
func Invalid(field, format string, args ...interface{}) error {
	return &UserInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}
