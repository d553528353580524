// Package exitcode defines named exit codes for the patchops CLI.
//
// Each code maps an error class to a numeric value recognized by shell
// scripts wrapping the tool.
package exitcode

import (
	"context"
	"errors"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

const (
	Success     = 0   // Operation completed
	Error       = 1   // Invalid arguments or an unclassified failure
	NotFound    = 2   // Config, preset, game directory or archive member missing
	Malformed   = 3   // Unparsable preset data or archive contents
	IOFailure   = 4   // Filesystem read, write or rename failed
	Remote      = 5   // Download failed or no releases returned
	Busy        = 6   // Another operation on the same target is running
	Interrupted = 130 // SIGINT/SIGTERM received
)

// Name returns the human-readable name for the given exit code.
// Unknown codes return "unknown".
func Name(code int) string {
	switch code {
	case Success:
		return "Success"
	case Error:
		return "Error"
	case NotFound:
		return "NotFound"
	case Malformed:
		return "Malformed"
	case IOFailure:
		return "IOFailure"
	case Remote:
		return "RemoteFailure"
	case Busy:
		return "Busy"
	case Interrupted:
		return "Interrupted"
	default:
		return "unknown"
	}
}

// FromError maps err to an exit code. Cancellation wins over the error
// class it interrupted, and a read-only config counts as an I/O failure.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, context.Canceled):
		return Interrupted
	case errors.Is(err, patcherr.ErrBusy):
		return Busy
	case errors.Is(err, patcherr.ErrNotFound):
		return NotFound
	case errors.Is(err, patcherr.ErrMalformed):
		return Malformed
	case errors.Is(err, patcherr.ErrRemote):
		return Remote
	case errors.Is(err, patcherr.ErrReadOnly), patcherr.IsIO(err):
		return IOFailure
	default:
		return Error
	}
}
