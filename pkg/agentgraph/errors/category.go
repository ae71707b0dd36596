// Package errors classifies persistence failures and retries the ones
// worth retrying.
//
// Graph mutations never fail with an error; a rejected gesture is a
// boolean. Errors only come from moving documents in and out of storage,
// where the question is always the same: will trying again help?
//   - Transient: the backend is busy, rate limited or briefly unreachable.
//   - Permanent: the request itself is wrong or the caller lacks access.
//   - Conflict: the stored document changed underneath the caller.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Category represents how an error should be handled.
type Category int

const (
	// CategoryTransient indicates retry will likely help.
	// Examples: rate limits, timeouts, an open circuit breaker.
	CategoryTransient Category = iota

	// CategoryPermanent indicates retry won't help.
	// Examples: a malformed document, authentication failures.
	CategoryPermanent

	// CategoryConflict indicates the stored revision moved on. Reload
	// before saving again.
	CategoryConflict
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryPermanent:
		return "permanent"
	case CategoryConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Retries is the number of attempts that have been made.
	Retries int

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Retries)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Retries)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Context:  context,
	}
}

// Transient creates a transient error.
func Transient(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryTransient, context)
}

// Permanent creates a permanent error.
func Permanent(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryPermanent, context)
}

// Categorize determines how an error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryPermanent // shouldn't happen, fail safe
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return categorizeStatus(httpErr.StatusCode)
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return CategoryTransient
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTransient
	}
	if errors.Is(err, context.Canceled) {
		return CategoryPermanent
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTransient
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CategoryTransient // connection refused or reset
	}

	// Unknown errors are permanent (fail safe)
	return CategoryPermanent
}

func categorizeStatus(code int) Category {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		return CategoryTransient
	case http.StatusConflict, http.StatusPreconditionFailed:
		return CategoryConflict
	default:
		if code >= 500 {
			return CategoryTransient // server errors are often transient
		}
		return CategoryPermanent
	}
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryTransient
}

// IsConflict reports whether the error is a revision conflict.
func IsConflict(err error) bool {
	return Categorize(err) == CategoryConflict
}
