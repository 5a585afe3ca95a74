package models

import "errors"

// Request-level errors surfaced to HTTP handlers. Each maps to a single
// status code; the handler renders the JSON `{"detail": ...}` body.
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidJSON        = errors.New("invalid JSON")
	ErrInvalidContentType = errors.New("unsupported content type")
	ErrMissingStatuses    = errors.New("missing or invalid statuses array")
	ErrInvalidCargaNumber = errors.New("invalid carga number")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrUpstream           = errors.New("upstream request failed")
)
