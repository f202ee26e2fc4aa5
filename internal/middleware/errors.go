package middleware

import "errors"

// Errors surfaced by the middleware chain.
var (
	ErrRateLimited = errors.New("too many requests")
	ErrInternal    = errors.New("internal server error")
)
