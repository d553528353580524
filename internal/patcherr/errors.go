// Package patcherr defines the error taxonomy shared by every patchops component.
//
// Callers classify failures with errors.Is against the sentinels below, or
// errors.As against *IOError for filesystem failures carrying path context.
package patcherr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a required file, preset or archive member that is missing.
	ErrNotFound = errors.New("not found")

	// ErrMalformed marks unparsable preset data or archive contents.
	ErrMalformed = errors.New("malformed")

	// ErrRemote marks a failed network fetch or an empty release listing.
	ErrRemote = errors.New("remote failure")

	// ErrBusy is returned when an operation on the same target is already in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrReadOnly is returned when a rewrite targets a locked (read-only) file.
	ErrReadOnly = errors.New("file is read-only")
)

// IOError is a filesystem read, write or rename failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IO wraps err with the operation and path that produced it.
// A nil err yields nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// NotFound reports that what is missing at path.
func NotFound(what, path string) error {
	return fmt.Errorf("%s not found at %s: %w", what, path, ErrNotFound)
}

// Malformed reports a parse or content failure.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrMalformed)
}

// Remote reports a failed network interaction.
func Remote(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrRemote)
}

// IsIO reports whether err carries an *IOError.
func IsIO(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
