package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// LockPath is the lock file guarding target inside dir.
func LockPath(dir, target string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(target)))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")
}

// tryLockTarget takes the cross-process lock for target. It returns a nil
// lock and no error when another process holds it.
func tryLockTarget(dir, target string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, patcherr.IO("create dir", dir, err)
	}
	path := LockPath(dir, target)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, patcherr.IO("lock", path, err)
	}
	if !ok {
		return nil, nil
	}
	return fl, nil
}
