package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrListingNotFound - the referenced listing does not exist.
	ErrListingNotFound = errors.New("listing not found")

	// ErrInvalidArgument - a malformed page size, limit or request value.
	// Detected before any store call is issued.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreUnavailable - the store collaborator failed. Transient; the
	// caller may retry with backoff. Never used to signal an empty result.
	ErrStoreUnavailable = errors.New("listing store unavailable")
)

// InvalidFilterError - a filter map entry could not be compiled: unknown
// field, unparsable value or inverted range. Carries the offending field so
// the caller can act on it.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %q: %s", e.Field, e.Reason)
}

// IsInvalidFilter reports whether err is an InvalidFilterError.
func IsInvalidFilter(err error) bool {
	var ife *InvalidFilterError
	return errors.As(err, &ife)
}
