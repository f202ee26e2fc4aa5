package memory

import (
	"errors"
	"net/http"
)

// Sentinel errors for memory operations.
var (
	ErrEntryNotFound        = errors.New("memory entry not found")
	ErrEmptyContent         = errors.New("memory content cannot be empty")
	ErrConfirmationMismatch = errors.New("session confirmation does not match session id")
	ErrEmbeddingFailed      = errors.New("embedding generation failed")
)

// MapHTTPStatus translates memory errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrConfirmationMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmbeddingFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
