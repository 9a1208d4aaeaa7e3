package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when an upstream request cannot produce a usable response
	ErrTransport = errors.New("transport error")
)

// HTTPError is returned for a non-retryable status or when retries are exhausted
type HTTPError struct {
	StatusCode int
	Attempts   int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d after %d attempt(s)", e.URL, e.StatusCode, e.Attempts)
}

// Unwrap lets callers match HTTPError with errors.Is(err, ErrTransport)
func (e *HTTPError) Unwrap() error {
	return ErrTransport
}
