package runner

import (
	"errors"
	"fmt"
)

const (
	emptyInputMessage = "Please enter some code to run"
	fallbackMessage   = "An error occurred while running the code"
)

// ErrEmptyInput is returned when the source is blank. No request is made.
var ErrEmptyInput = errors.New(emptyInputMessage)

// HTTPStatusError reports a non-2xx response from the endpoint.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// NetworkError wraps a request that could not complete: DNS, refused
// connections, transport timeouts, truncated bodies.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return fallbackMessage
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
