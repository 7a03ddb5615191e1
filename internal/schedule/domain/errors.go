package domain

import (
	"errors"
	"fmt"
)

var ErrSessionNotFound = errors.New("session not found")

// NetworkError is a failed call to the schedule provider: a transport error or
// a non-2xx response.
type NetworkError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
