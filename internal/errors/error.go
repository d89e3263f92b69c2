// Package errors provides the error kinds returned by catalog operations.
package errors

import "errors"

var (
	// ErrValidation is returned when input breaks a catalog invariant.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced category or product does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a mutation would leave dangling references.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable is returned when the request could not be served.
	ErrUnavailable = errors.New("service unavailable")
)

// Kind returns the error kind err belongs to, or nil if err is not classified.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
