package steam_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/steam"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func fixedLocator(root string) steam.Locator {
	return steam.LocatorFunc(func() (steam.InstallPaths, bool) {
		return steam.InstallPaths{Root: root, Userdata: filepath.Join(root, "userdata")}, true
	})
}

// =============================================================================
// DirLocator
// =============================================================================

func TestDirLocatorPicksFirstExistingRoot(t *testing.T) {
	base := t.TempDir()
	second := filepath.Join(base, "second")
	require.NoError(t, os.MkdirAll(second, 0755))

	paths, ok := steam.DirLocator{Roots: []string{filepath.Join(base, "missing"), second}}.Locate()
	require.True(t, ok)
	assert.Equal(t, second, paths.Root)
	assert.Equal(t, filepath.Join(second, "userdata"), paths.Userdata)
	assert.Equal(t, "steam", paths.Executable)
}

func TestDirLocatorRequiresExecutable(t *testing.T) {
	base := t.TempDir()
	noExe := filepath.Join(base, "a")
	withExe := filepath.Join(base, "b")
	require.NoError(t, os.MkdirAll(noExe, 0755))
	touch(t, filepath.Join(withExe, "steam.exe"))

	loc := steam.DirLocator{
		Roots:             []string{noExe, withExe},
		Executable:        func(root string) string { return filepath.Join(root, "steam.exe") },
		RequireExecutable: true,
	}
	paths, ok := loc.Locate()
	require.True(t, ok)
	assert.Equal(t, withExe, paths.Root)
	assert.Equal(t, filepath.Join(withExe, "steam.exe"), paths.Executable)
}

func TestDirLocatorNothingFound(t *testing.T) {
	_, ok := steam.DirLocator{Roots: []string{"", filepath.Join(t.TempDir(), "nope")}}.Locate()
	assert.False(t, ok)
}

// =============================================================================
// User and game discovery
// =============================================================================

func TestFindUserID(t *testing.T) {
	root := t.TempDir()
	userdata := filepath.Join(root, "userdata")
	require.NoError(t, os.MkdirAll(filepath.Join(userdata, "anonymous"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(userdata, "12345678"), 0755))
	touch(t, filepath.Join(userdata, "999"))

	id, ok := steam.FindUserID(steam.InstallPaths{Userdata: userdata})
	require.True(t, ok)
	assert.Equal(t, "12345678", id)
}

func TestFindUserIDMissingUserdata(t *testing.T) {
	_, ok := steam.FindUserID(steam.InstallPaths{Userdata: filepath.Join(t.TempDir(), "userdata")})
	assert.False(t, ok)
}

func TestHasGameExecutable(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, steam.HasGameExecutable(dir))

	touch(t, filepath.Join(dir, "BlackOps3.exe"))
	assert.True(t, steam.HasGameExecutable(dir))
}

func TestGameDirCandidatesOrder(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	got := steam.GameDirCandidates(fixedLocator(root), "/app")
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "/app", got[0])
	assert.Equal(t, filepath.Join(root, "steamapps", "common", steam.GameFolder), got[1])
}

func TestDetectGameDirPrefersAppDir(t *testing.T) {
	appDir := t.TempDir()
	root := t.TempDir()
	touch(t, filepath.Join(appDir, "BlackOpsIII.exe"))
	touch(t, filepath.Join(root, "steamapps", "common", steam.GameFolder, "BlackOps3.exe"))

	dir, err := steam.DetectGameDir(fixedLocator(root), appDir)
	require.NoError(t, err)
	assert.Equal(t, appDir, dir)
}

func TestDetectGameDirFromSteamLibrary(t *testing.T) {
	root := t.TempDir()
	game := filepath.Join(root, "steamapps", "common", steam.GameFolder)
	touch(t, filepath.Join(game, "BlackOps3.exe"))

	dir, err := steam.DetectGameDir(fixedLocator(root), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, game, dir)
}

func TestDetectGameDirNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := steam.DetectGameDir(fixedLocator(t.TempDir()), t.TempDir())
	assert.ErrorIs(t, err, patcherr.ErrNotFound)
}

// =============================================================================
// Launch
// =============================================================================

func TestLaunchCommandWindows(t *testing.T) {
	root := t.TempDir()
	exe := filepath.Join(root, "steam.exe")
	touch(t, exe)

	got := steam.LaunchCommand("windows", steam.InstallPaths{Root: root, Executable: exe}, true)
	assert.Equal(t, []string{exe, "-applaunch", steam.AppID}, got)

	got = steam.LaunchCommand("windows", steam.InstallPaths{}, false)
	assert.Equal(t, []string{"cmd", "/c", "start", "", "steam://rungameid/311210"}, got)
}

func TestLaunchCommandDarwin(t *testing.T) {
	got := steam.LaunchCommand("darwin", steam.InstallPaths{}, false)
	assert.Equal(t, []string{"open", steam.LaunchURI()}, got)
}

func TestLaunchCommandOtherUsesSteamBinary(t *testing.T) {
	got := steam.LaunchCommand("freebsd", steam.InstallPaths{Executable: "/usr/bin/steam"}, true)
	assert.Equal(t, []string{"/usr/bin/steam", steam.LaunchURI()}, got)

	got = steam.LaunchCommand("freebsd", steam.InstallPaths{}, false)
	assert.Equal(t, []string{"steam", steam.LaunchURI()}, got)
}

func TestLaunchMissingBinary(t *testing.T) {
	err := steam.Launch([]string{"patchops-no-such-binary-xyz", "arg"})
	assert.ErrorIs(t, err, patcherr.ErrNotFound)

	assert.ErrorIs(t, steam.Launch(nil), patcherr.ErrNotFound)
}
