package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/patchops/internal/config"
	"github.com/CodexForgeBR/patchops/internal/exitcode"
	"github.com/CodexForgeBR/patchops/internal/gameconfig"
	"github.com/CodexForgeBR/patchops/internal/runner"
	"github.com/CodexForgeBR/patchops/internal/state"
	"github.com/CodexForgeBR/patchops/internal/steam"
)

func init() {
	color.NoColor = true
}

// =============================================================================
// Helpers
// =============================================================================

// isolate points the user config and home directories at a temp dir so no
// global config file or real Steam install is picked up.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func newGameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "players"), 0755))
	require.NoError(t, os.WriteFile(gameconfig.ConfigPath(dir), []byte(
		"MaxFPS = \"60\" // 0 to 1000\nVsync = \"0\" // 0 or 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BlackOps3.exe"), nil, 0644))
	return dir
}

func noSteam() steam.Locator {
	return steam.LocatorFunc(func() (steam.InstallPaths, bool) { return steam.InstallPaths{}, false })
}

// execute runs one patchops invocation and returns its output and exit code.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	a := &app{cfg: config.NewDefaultConfig(), locator: noSteam()}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	code := a.finish(root.Execute())
	return out.String(), code
}

func readConfig(t *testing.T, gameDir string) string {
	t.Helper()
	data, err := os.ReadFile(gameconfig.ConfigPath(gameDir))
	require.NoError(t, err)
	return string(data)
}

// =============================================================================
// Argument parsing
// =============================================================================

func TestParseOnOff(t *testing.T) {
	for _, s := range []string{"on", "ON", "true", "1", "yes", "enable"} {
		v, err := parseOnOff(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"off", "false", "0", "no", "disable"} {
		v, err := parseOnOff(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := parseOnOff("maybe")
	assert.Error(t, err)
}

// =============================================================================
// Commands
// =============================================================================

func TestPresetListPrintsBuiltInNames(t *testing.T) {
	isolate(t)
	out, code := execute(t, "--data-dir", t.TempDir(), "preset", "list")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Quality\nBalanced\nPerformance\nUltra Performance\n", out)
}

func TestSetRewritesConfigAndLocks(t *testing.T) {
	isolate(t)
	game := newGameDir(t)

	_, code := execute(t, "--data-dir", t.TempDir(), "--game-dir", game, "--lock-config", "set", "MaxFPS", "144")
	require.Equal(t, exitcode.Success, code)

	assert.Contains(t, readConfig(t, game), `MaxFPS = "144" // 0 to 1000`)
	locked, err := gameconfig.NewPatcher(game, nil).IsReadOnly()
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestPresetApplyUnlocksLockedConfig(t *testing.T) {
	isolate(t)
	game := newGameDir(t)
	require.NoError(t, os.Chmod(gameconfig.ConfigPath(game), 0444))

	_, code := execute(t, "--data-dir", t.TempDir(), "--game-dir", game, "preset", "apply", "Balanced")
	require.Equal(t, exitcode.Success, code)

	assert.Contains(t, readConfig(t, game), `MaxFPS = "165"`)
	info, err := os.Stat(gameconfig.ConfigPath(game))
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0200, "config.ini should be relocked")
}

func TestUnknownPresetExitsNotFound(t *testing.T) {
	isolate(t)
	game := newGameDir(t)
	_, code := execute(t, "--data-dir", t.TempDir(), "--game-dir", game, "preset", "apply", "Potato")
	assert.Equal(t, exitcode.NotFound, code)
}

func TestStatusPrintsSettings(t *testing.T) {
	isolate(t)
	game := newGameDir(t)
	out, code := execute(t, "--data-dir", t.TempDir(), "--game-dir", game, "status")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "60")
	assert.Contains(t, out, game)
}

func TestGameDirSetThenShow(t *testing.T) {
	isolate(t)
	game := newGameDir(t)
	data := t.TempDir()

	_, code := execute(t, "--data-dir", data, "gamedir", "set", game)
	require.Equal(t, exitcode.Success, code)

	settings, err := state.Load(data)
	require.NoError(t, err)
	assert.Equal(t, game, settings.GameDirectory)

	out, code := execute(t, "--data-dir", data, "gamedir", "show")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, game+"\n", out)
}

func TestGameDirSetMissingDirectory(t *testing.T) {
	isolate(t)
	_, code := execute(t, "--data-dir", t.TempDir(), "gamedir", "set", filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, exitcode.NotFound, code)
}

func TestNoGameDirectoryExitsNotFound(t *testing.T) {
	isolate(t)
	_, code := execute(t, "--data-dir", t.TempDir(), "status")
	assert.Equal(t, exitcode.NotFound, code)
}

func TestHistoryListsOperations(t *testing.T) {
	isolate(t)
	game := newGameDir(t)
	data := t.TempDir()

	_, code := execute(t, "--data-dir", data, "--game-dir", game, "vram", "on")
	require.Equal(t, exitcode.Success, code)
	_, code = execute(t, "--data-dir", data, "--game-dir", game, "lock", "maybe")
	require.Equal(t, exitcode.Error, code)

	out, code := execute(t, "--data-dir", data, "history")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, out, "vram")
	assert.NotContains(t, out, "lock")
}

func TestConcurrentWriteFromAnotherProcessIsBusy(t *testing.T) {
	isolate(t)
	game := newGameDir(t)
	data := t.TempDir()

	held := flock.New(runner.LockPath(filepath.Join(data, "locks"), game))
	require.NoError(t, os.MkdirAll(filepath.Join(data, "locks"), 0755))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	_, code := execute(t, "--data-dir", data, "--game-dir", game, "set", "MaxFPS", "144")
	assert.Equal(t, exitcode.Busy, code)
	assert.Contains(t, readConfig(t, game), `MaxFPS = "60"`)
}

func TestInvalidRetriesRejected(t *testing.T) {
	isolate(t)
	_, code := execute(t, "--data-dir", t.TempDir(), "--retries", "-1", "preset", "list")
	assert.Equal(t, exitcode.Error, code)
}
