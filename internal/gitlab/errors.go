package gitlab

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the API responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gitlab: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("gitlab: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error is a 404 from the API.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// IsAuth reports whether the error indicates a rejected or insufficient
// token. Auth failures are not retried and abort the surrounding cycle.
func IsAuth(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden
}

// IsTransient reports whether the error is worth retrying: network
// failures, rate limiting, or server-side errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		// Transport-level failure.
		return true
	}
	return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
}
