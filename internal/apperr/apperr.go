// Package apperr defines the error kinds every domain failure wraps.
// Handlers map a kind to an HTTP status with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// Kind reports which of the four kinds err wraps, or nil for store and
// other unexpected failures.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrInvalidState} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
