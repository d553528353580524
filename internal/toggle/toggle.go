// Package toggle enables and disables a feature by renaming a file to and
// from a backup-suffixed sibling.
//
// Enabling the feature moves the primary file aside (primary -> primary.bak);
// disabling restores it. A missing file in either direction is reported as a
// warning and never treated as a failure. Only rename errors propagate.
package toggle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/patchops/internal/fsutil"
	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// BackupSuffix is appended to the primary file name to form its backup.
const BackupSuffix = ".bak"

// State is the on-disk state of a file pair.
type State int

const (
	// Unknown: neither the primary nor the backup exists.
	Unknown State = iota
	// Active: the primary file is in place (feature off).
	Active
	// Disabled: the primary has been moved to its backup (feature on).
	Disabled
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Pair is a primary file and its backup sibling.
type Pair struct {
	Primary string
	Backup  string
}

// NewPair returns the pair for primary with the standard backup suffix.
func NewPair(primary string) Pair {
	return Pair{Primary: primary, Backup: primary + BackupSuffix}
}

// Name is the primary file's base name, used in log messages.
func (p Pair) Name() string {
	return filepath.Base(p.Primary)
}

// State inspects the filesystem. When both files exist the primary wins.
func (p Pair) State() State {
	if fsutil.Exists(p.Primary) {
		return Active
	}
	if fsutil.Exists(p.Backup) {
		return Disabled
	}
	return Unknown
}

// Toggle moves the pair toward enable. It is idempotent: enabling an already
// disabled pair only logs.
func (p Pair) Toggle(enable bool, log *logging.Logger) error {
	state := p.State()

	if enable {
		switch state {
		case Active:
			if err := os.Rename(p.Primary, p.Backup); err != nil {
				return patcherr.IO("rename", p.Primary, err)
			}
			log.Success(fmt.Sprintf("Renamed %s to %s", p.Name(), filepath.Base(p.Backup)))
		case Disabled:
			log.Info(fmt.Sprintf("%s already enabled", p.Name()))
		default:
			log.Warn(fmt.Sprintf("%s not found", p.Name()))
		}
		return nil
	}

	if state == Disabled {
		if err := os.Rename(p.Backup, p.Primary); err != nil {
			return patcherr.IO("rename", p.Backup, err)
		}
		log.Success(fmt.Sprintf("Restored %s", p.Name()))
		return nil
	}
	log.Warn(fmt.Sprintf("Backup not found to restore %s", p.Name()))
	return nil
}
