package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for caching operations.
var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrInvalidURL is returned for a malformed backend URL.
	ErrInvalidURL = errors.New("invalid cache url")
)

// unavailable wraps a backend error so callers can test for ErrUnavailable
// while keeping the cause.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
