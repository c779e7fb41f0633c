package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation names carried by provider errors.
const (
	OpUpload    = "upload"
	OpResponses = "responses"
	OpChat      = "chat"
)

// APIError is returned when the API answers with a non-success status.
// Body holds the raw response body for debugging.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("OpenAI %s error (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("OpenAI %s error (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RequestError wraps a transport-level failure (DNS, connection reset, body read).
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("OpenAI %s request failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when a success response does not have the
// expected shape.
type ProtocolError struct {
	Op      string
	Message string
	Body    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("OpenAI %s protocol error: %s: %s", e.Op, e.Message, e.Body)
}

// IsAPIError checks if an error is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsHTTPFailure reports whether err came from the HTTP layer of op:
// either a non-success status or a transport failure.
func IsHTTPFailure(err error, op string) bool {
	if apiErr, ok := IsAPIError(err); ok {
		return apiErr.Op == op
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Op == op
	}
	return false
}

func isRetryable(err error) bool {
	if apiErr, ok := IsAPIError(err); ok {
		return apiErr.Retryable()
	}
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
