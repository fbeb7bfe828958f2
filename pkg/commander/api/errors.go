package api

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus indicates a non-2xx HTTP status from the service.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrInvalidResponse indicates the service body was not valid JSON.
var ErrInvalidResponse = errors.New("invalid response body")

// APIError represents a failed call to the Excel Commander service.
type APIError struct {
	Endpoint string
	Status   int // 0 when the request never completed
	Err      error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api call %s failed (status %d): %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("api call %s failed: %v", e.Endpoint, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(endpoint string, status int, err error) *APIError {
	return &APIError{
		Endpoint: endpoint,
		Status:   status,
		Err:      err,
	}
}
