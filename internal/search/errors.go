package search

import (
	"errors"
	"net/http"
)

// Sentinel errors for search operations.
var (
	ErrUnknownProvider     = errors.New("unknown search provider")
	ErrProviderUnavailable = errors.New("search provider unavailable")
	ErrAllProvidersFailed  = errors.New("all search providers failed")
	ErrEmptyQuery          = errors.New("search query cannot be empty")
)

// MapHTTPStatus translates search errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownProvider), errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderUnavailable), errors.Is(err, ErrAllProvidersFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
