package research

import (
	"errors"
	"net/http"
)

// Sentinel errors for research operations.
var (
	ErrTaskNotFound   = errors.New("research task not found")
	ErrQueueFull      = errors.New("research queue is full")
	ErrNotCancellable = errors.New("task is already in a terminal state")
	ErrInvalidStatus  = errors.New("invalid task status")
)

// MapHTTPStatus translates research errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrInvalidStatus):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
