package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedPlan = errors.New("unsupported plan")
	ErrProviderFailure = errors.New("provider failure")
	ErrStaleEvent      = errors.New("stale event")
)
