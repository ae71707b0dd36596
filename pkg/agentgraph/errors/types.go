package errors

import (
	"fmt"
	"net/http"
)

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Method     string
	Endpoint   string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Endpoint != "" {
		if e.Method != "" {
			return fmt.Sprintf("HTTP %d at %s %s: %s", e.StatusCode, e.Method, e.Endpoint, msg)
		}
		return fmt.Sprintf("HTTP %d at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, msg)
}

// TimeoutError indicates an operation timed out.
type TimeoutError struct {
	Operation string
	Duration  string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s: %s", e.Duration, e.Operation)
}
