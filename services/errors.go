package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Callers match them with errors.Is;
// the wrapped message carries the detail meant for the user.
var (
	ErrAuthRequired  = errors.New("authentication required")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrUpstream      = errors.New("upstream failure")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}
