// Package steam finds the Steam client and the Black Ops III installation it
// manages, and builds the command that launches the game through Steam.
package steam

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/CodexForgeBR/patchops/internal/fsutil"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// AppID is the Steam application id of Black Ops III.
const AppID = "311210"

// GameFolder is the game's directory name under steamapps/common.
const GameFolder = "Call of Duty Black Ops III"

// GameExecutables are the file names that mark a game directory.
var GameExecutables = []string{"BlackOpsIII.exe", "BlackOps3.exe"}

// InstallPaths describes a located Steam client.
type InstallPaths struct {
	Root       string // Steam install directory
	Userdata   string // <root>/userdata
	Executable string // steam binary or launcher used to open steam:// URIs
}

// Locator finds the Steam installation on the current machine.
type Locator interface {
	Locate() (InstallPaths, bool)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func() (InstallPaths, bool)

func (f LocatorFunc) Locate() (InstallPaths, bool) { return f() }

// DirLocator picks the first existing root from Roots. When
// RequireExecutable is set, the root must also contain Executable(root).
type DirLocator struct {
	Roots             []string
	Executable        func(root string) string
	RequireExecutable bool
}

func (d DirLocator) Locate() (InstallPaths, bool) {
	for _, root := range d.Roots {
		if root == "" || !fsutil.IsDir(root) {
			continue
		}
		exe := "steam"
		if d.Executable != nil {
			exe = d.Executable(root)
		}
		if d.RequireExecutable && !fsutil.Exists(exe) {
			continue
		}
		return InstallPaths{
			Root:       root,
			Userdata:   filepath.Join(root, "userdata"),
			Executable: exe,
		}, true
	}
	return InstallPaths{}, false
}

// FindUserID returns the first all-digit directory name under userdata.
func FindUserID(paths InstallPaths) (string, bool) {
	entries, err := os.ReadDir(paths.Userdata)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && isDigits(e.Name()) {
			return e.Name(), true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HasGameExecutable reports whether dir contains a Black Ops III executable.
func HasGameExecutable(dir string) bool {
	for _, exe := range GameExecutables {
		if fsutil.Exists(filepath.Join(dir, exe)) {
			return true
		}
	}
	return false
}

// GameDirCandidates lists the directories probed for the game, in order:
// appDir, the library of the located Steam client, then the platform's
// default Steam library.
func GameDirCandidates(loc Locator, appDir string) []string {
	var out []string
	if appDir != "" {
		out = append(out, appDir)
	}
	if loc != nil {
		if paths, ok := loc.Locate(); ok {
			out = append(out, filepath.Join(paths.Root, "steamapps", "common", GameFolder))
		}
	}
	if def := defaultGameDir(); def != "" {
		out = append(out, def)
	}
	return out
}

// DetectGameDir returns the first candidate holding a game executable.
func DetectGameDir(loc Locator, appDir string) (string, error) {
	for _, dir := range GameDirCandidates(loc, appDir) {
		if HasGameExecutable(dir) {
			return dir, nil
		}
	}
	return "", patcherr.NotFound("Black Ops III installation", "any known Steam library")
}

// Default returns the Locator for the running platform.
func Default() Locator {
	return platformLocator()
}

func defaultGameDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(`C:\Program Files (x86)`, "Steam", "steamapps", "common", GameFolder)
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".local", "share", "Steam", "steamapps", "common", GameFolder)
	default:
		return ""
	}
}

// LaunchURI is the steam:// URI that starts the game.
func LaunchURI() string {
	return "steam://rungameid/" + AppID
}

// LaunchCommand returns the argv that starts the game on goos. On Windows a
// located steam.exe is started with -applaunch; elsewhere the steam:// URI
// is handed to the desktop opener.
func LaunchCommand(goos string, paths InstallPaths, found bool) []string {
	switch goos {
	case "windows":
		if found && fsutil.Exists(paths.Executable) {
			return []string{paths.Executable, "-applaunch", AppID}
		}
		return []string{"cmd", "/c", "start", "", LaunchURI()}
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			return []string{"xdg-open", LaunchURI()}
		}
	case "darwin":
		return []string{"open", LaunchURI()}
	}
	exe := "steam"
	if found && paths.Executable != "" {
		exe = paths.Executable
	}
	return []string{exe, LaunchURI()}
}

// Launch starts argv without waiting for it to exit.
func Launch(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty launch command: %w", patcherr.ErrNotFound)
	}
	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return patcherr.NotFound("Steam client", argv[0])
	}
	cmd := exec.Command(bin, argv[1:]...)
	if err := cmd.Start(); err != nil {
		return patcherr.IO("start", bin, err)
	}
	return cmd.Process.Release()
}
