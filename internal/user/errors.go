package user

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no user matches the given Clerk id. It is a clean miss, not a failure.
	ErrNotFound = errors.New("user not found")
	// ErrStorageUnavailable indicates the backing store could not serve the request.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrMissingClerkID indicates an operation was called without a Clerk id.
	ErrMissingClerkID = errors.New("clerk id is required")
)

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
