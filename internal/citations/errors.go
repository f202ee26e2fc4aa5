package citations

import (
	"errors"
	"net/http"
)

// Sentinel errors for citation operations.
var (
	ErrNotFound     = errors.New("citation not found")
	ErrEmptyUpdate  = errors.New("update request contains no changes")
	ErrInvalidInput = errors.New("invalid citation input")
)

// MapHTTPStatus translates citation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyUpdate), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
