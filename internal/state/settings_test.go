package state_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/state"
)

func gameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BlackOps3.exe"), []byte("x"), 0644))
	return dir
}

func TestLoadMissingFile(t *testing.T) {
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, s.GameDirectory)
}

func TestSaveThenLoad(t *testing.T) {
	data := t.TempDir()
	game := gameDir(t)

	require.NoError(t, state.SaveGameDirectory(data, game))

	s, err := state.Load(data)
	require.NoError(t, err)
	assert.Equal(t, game, s.GameDirectory)
}

func TestLoadDropsStaleGameDirectory(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, state.SaveGameDirectory(data, filepath.Join(t.TempDir(), "uninstalled")))

	s, err := state.Load(data)
	require.NoError(t, err)
	assert.Empty(t, s.GameDirectory)
}

func TestSavePreservesOtherKeys(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.WriteFile(state.Path(data), []byte(`{"launch_options": "-fullscreen", "game_directory": "old"}`), 0644))

	game := gameDir(t)
	require.NoError(t, state.SaveGameDirectory(data, game))

	raw, err := os.ReadFile(state.Path(data))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "-fullscreen", m["launch_options"])
	assert.Equal(t, game, m["game_directory"])
	assert.Contains(t, string(raw), "\n    \"", "settings are written with 4-space indent")
}

func TestLoadCorruptFile(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.WriteFile(state.Path(data), []byte("{not json"), 0644))

	_, err := state.Load(data)
	assert.ErrorIs(t, err, patcherr.ErrMalformed)
}

func TestLoadWrongType(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.WriteFile(state.Path(data), []byte(`{"game_directory": 5}`), 0644))

	_, err := state.Load(data)
	assert.ErrorIs(t, err, patcherr.ErrMalformed)
}

func TestSaveReplacesCorruptFile(t *testing.T) {
	data := t.TempDir()
	require.NoError(t, os.WriteFile(state.Path(data), []byte("garbage"), 0644))

	game := gameDir(t)
	require.NoError(t, state.SaveGameDirectory(data, game))

	s, err := state.Load(data)
	require.NoError(t, err)
	assert.Equal(t, game, s.GameDirectory)
}

func TestSaveCreatesDataDir(t *testing.T) {
	data := filepath.Join(t.TempDir(), "nested", "PatchOpsIII")
	require.NoError(t, state.SaveGameDirectory(data, "/x"))
	assert.FileExists(t, state.Path(data))
}
