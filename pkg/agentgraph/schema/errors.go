package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for field validation.
var (
	ErrRequired     = errors.New("value is required")
	ErrType         = errors.New("wrong value type")
	ErrRange        = errors.New("value out of range")
	ErrOption       = errors.New("value is not an allowed option")
	ErrPattern      = errors.New("value does not match the expected format")
	ErrTooLong      = errors.New("value is too long")
	ErrUnknownField = errors.New("unknown field")
	ErrNotObject    = errors.New("config must be a JSON object")
)

// ErrUnsupportedCondition is returned by EvaluateCondition for condition
// types that need a live classifier (sentiment, intent).
var ErrUnsupportedCondition = errors.New("condition type cannot be evaluated offline")

// ErrIncompleteCondition is returned when a condition node lacks its type
// or variable.
var ErrIncompleteCondition = errors.New("condition is incomplete")

// ErrUndefinedVariable is returned when a condition refers to a variable
// missing from the sample values.
var ErrUndefinedVariable = errors.New("undefined variable")

// FieldError ties a validation failure to a field.
type FieldError struct {
	// Field is the field name.
	Field string
	// Detail adds context such as the allowed range. May be empty.
	Detail string
	// Err is one of the validation sentinels.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Field, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error, detail string, args ...any) *FieldError {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &FieldError{Field: field, Err: err, Detail: detail}
}

// FieldErrors extracts every *FieldError from a (possibly joined) error.
func FieldErrors(err error) []*FieldError {
	switch e := err.(type) {
	case nil:
		return nil
	case *FieldError:
		return []*FieldError{e}
	case interface{ Unwrap() []error }:
		var out []*FieldError
		for _, inner := range e.Unwrap() {
			out = append(out, FieldErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return FieldErrors(e.Unwrap())
	}
	return nil
}
