// Package notification formats the one-line completion messages reported
// when a patchops operation finishes.
package notification

import (
	"fmt"

	"github.com/CodexForgeBR/patchops/internal/logging"
)

// Event types for a finished operation.
const (
	EventSucceeded   = "succeeded"
	EventFailed      = "failed"
	EventBusy        = "busy"
	EventInterrupted = "interrupted"
)

// FormatEvent creates the completion message for an operation of the given
// kind run against target. opID is shortened to its first eight characters.
func FormatEvent(event, kind, target, opID string, elapsedSecs int, exitCode int) string {
	id := opID
	if len(id) > 8 {
		id = id[:8]
	}
	elapsed := logging.FormatDuration(elapsedSecs)

	switch event {
	case EventSucceeded:
		return fmt.Sprintf("✅ %s on %s [%s] completed in %s", kind, target, id, elapsed)
	case EventFailed:
		return fmt.Sprintf("❌ %s on %s [%s] failed after %s (exit %d)", kind, target, id, elapsed, exitCode)
	case EventBusy:
		return fmt.Sprintf("🔒 %s on %s rejected: another operation is in progress (exit %d)", kind, target, exitCode)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ %s on %s [%s] interrupted after %s (exit %d)", kind, target, id, elapsed, exitCode)
	default:
		return fmt.Sprintf("ℹ️ %s on %s [%s] event: %s (exit %d)", kind, target, id, event, exitCode)
	}
}
