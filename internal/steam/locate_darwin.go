//go:build darwin

package steam

import (
	"os"
	"path/filepath"
)

func platformLocator() Locator {
	return LocatorFunc(func() (InstallPaths, bool) {
		home, err := os.UserHomeDir()
		if err != nil {
			return InstallPaths{}, false
		}
		return DirLocator{
			Roots:      []string{filepath.Join(home, "Library", "Application Support", "Steam")},
			Executable: func(string) string { return "open" },
		}.Locate()
	})
}
