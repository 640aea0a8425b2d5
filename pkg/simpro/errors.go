package simpro

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is returned for any failed call: transport errors carry Err with
// StatusCode 0, HTTP failures carry the status and response body.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("simpro API %s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("simpro API %s %s error %d: %s", e.Method, e.Path, e.StatusCode, truncate(e.Body, 300))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a failed call may succeed if repeated:
// network errors and timeouts, 429 and 5xx. Other 4xx responses will not
// self-correct. A per-request timeout wraps context.DeadlineExceeded and is
// retryable; the caller's own expired context is handled by the retry loop.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	var netErr net.Error
	switch {
	case apiErr.StatusCode == 0:
		return true
	case errors.As(apiErr.Err, &netErr) && netErr.Timeout():
		return true
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return true
	case apiErr.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
