package agents

import (
	"errors"
	"net/http"
)

// Sentinel errors for registry operations.
var (
	ErrNotFound      = errors.New("agent not found")
	ErrAlreadyExists = errors.New("agent already registered")
)

// MapHTTPStatus translates registry errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
