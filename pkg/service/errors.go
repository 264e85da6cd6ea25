package service

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller has no grant covering the
// credential's scope.
var ErrForbidden = errors.New("permission denied")

// ErrNotActive is returned when a disabled credential is used for
// retrieval.
var ErrNotActive = errors.New("credential is not active")

// ErrInvalid is returned for requests that fail validation.
var ErrInvalid = errors.New("invalid request")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
