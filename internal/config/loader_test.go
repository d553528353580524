package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/patchops/internal/config"
)

// writeFile is a test helper that creates a temporary file with the given content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

// ---------------------------------------------------------------------------
// LoadFile tests
// ---------------------------------------------------------------------------

func TestLoadFileBasicKeyValue(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "GAME_DIR=/games/bo3\nDOWNLOAD_RETRIES=5\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"GAME_DIR": "/games/bo3", "DOWNLOAD_RETRIES": "5"}, m)
}

func TestLoadFileSkipsCommentsBlankAndMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "# comment\n\nnot a pair\n  VERBOSE = true  \n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"VERBOSE": "true"}, m)
}

func TestLoadFileSkipsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "STEAM_USER=12345\nMOD_DIR=/mods\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MOD_DIR": "/mods"}, m)
}

func TestLoadFileValueWithEquals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config", "GAME_DIR=/games/a=b\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/games/a=b", m["GAME_DIR"])
}

func TestLoadFileStripsMatchingQuotes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config",
		"GAME_DIR=\"/games/Call of Duty Black Ops III\"\nMOD_DIR='/mods'\nLOG_FILE=\"/half\n")

	m, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/games/Call of Duty Black Ops III", m["GAME_DIR"])
	assert.Equal(t, "/mods", m["MOD_DIR"])
	assert.Equal(t, "\"/half", m["LOG_FILE"])
}

func TestLoadFileReturnsErrorForMissingFile(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ---------------------------------------------------------------------------
// LoadWithPrecedence tests
// ---------------------------------------------------------------------------

func TestLoadWithPrecedenceDefaultsOnly(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDataDir(), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, config.ModDirName), cfg.ModDir)
	assert.Equal(t, 3, cfg.DownloadRetries)
}

func TestLoadWithPrecedenceFullChain(t *testing.T) {
	dir := t.TempDir()
	global := writeFile(t, dir, "global", "GAME_DIR=/global\nMOD_DIR=/global-mods\nDATA_DIR=/global-data\nVERBOSE=true\n")
	explicit := writeFile(t, dir, "explicit", "MOD_DIR=/explicit-mods\nLOCK_CONFIG=yes\n")

	cfg, err := config.LoadWithPrecedence(global, explicit, map[string]string{"GAME_DIR": "/cli"})
	require.NoError(t, err)

	assert.Equal(t, "/cli", cfg.GameDir)
	assert.Equal(t, "/explicit-mods", cfg.ModDir)
	assert.Equal(t, "/global-data", cfg.DataDir)
	assert.Equal(t, filepath.Join("/global-data", "PatchOpsIII.log"), cfg.LogFile)
	assert.True(t, cfg.LockConfig)
	assert.True(t, cfg.Verbose)
}

func TestLoadWithPrecedenceDataDirFromCLIDrivesDerivedPaths(t *testing.T) {
	cfg, err := config.LoadWithPrecedence("", "", map[string]string{"DATA_DIR": "/d"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/d", config.ModDirName), cfg.ModDir)
}

func TestLoadWithPrecedenceMissingGlobalIsNotError(t *testing.T) {
	_, err := config.LoadWithPrecedence(filepath.Join(t.TempDir(), "missing"), "", nil)
	assert.NoError(t, err)
}

func TestLoadWithPrecedenceMissingExplicitIsError(t *testing.T) {
	_, err := config.LoadWithPrecedence("", filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}

func TestLoadWithPrecedenceInvalidGlobalPath(t *testing.T) {
	// A directory cannot be read as a config file.
	_, err := config.LoadWithPrecedence(t.TempDir(), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global config")
}

// ---------------------------------------------------------------------------
// ApplyMapToConfig tests
// ---------------------------------------------------------------------------

func TestApplyMapToConfigSetsAllFields(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"GAME_DIR":         "/g",
		"MOD_DIR":          "/m",
		"PRESETS_FILE":     "/p.yaml",
		"LOG_FILE":         "/l.log",
		"DATA_DIR":         "/d",
		"LOCK_CONFIG":      "1",
		"VERBOSE":          "TRUE",
		"DOWNLOAD_RETRIES": "0",
		"DOWNLOAD_TIMEOUT": "60",
	})

	assert.Equal(t, "/g", cfg.GameDir)
	assert.Equal(t, "/m", cfg.ModDir)
	assert.Equal(t, "/p.yaml", cfg.PresetsFile)
	assert.Equal(t, "/l.log", cfg.LogFile)
	assert.Equal(t, "/d", cfg.DataDir)
	assert.True(t, cfg.LockConfig)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 0, cfg.DownloadRetries)
	assert.Equal(t, 60, cfg.DownloadTimeout)
}

func TestApplyMapToConfigBooleanVariations(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"On", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			config.ApplyMapToConfig(cfg, map[string]string{"VERBOSE": tt.value})
			assert.Equal(t, tt.want, cfg.Verbose)
		})
	}
}

func TestApplyMapToConfigIgnoresInvalidIntegers(t *testing.T) {
	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{
		"DOWNLOAD_RETRIES": "many",
		"DOWNLOAD_TIMEOUT": "0",
	})
	assert.Equal(t, 3, cfg.DownloadRetries)
	assert.Equal(t, 300, cfg.DownloadTimeout)

	config.ApplyMapToConfig(cfg, map[string]string{"DOWNLOAD_RETRIES": "-1"})
	assert.Equal(t, 3, cfg.DownloadRetries)
}

func TestApplyMapToConfigIgnoresUnknownKeys(t *testing.T) {
	cfg := config.NewDefaultConfig()
	before := *cfg
	config.ApplyMapToConfig(cfg, map[string]string{"STEAM_USER": "12345"})
	assert.Equal(t, before, *cfg)
}

func TestApplyMapToConfigExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.NewDefaultConfig()
	config.ApplyMapToConfig(cfg, map[string]string{"DATA_DIR": "~/patchops", "GAME_DIR": "/abs/~/x"})
	assert.Equal(t, filepath.Join(home, "patchops"), cfg.DataDir)
	assert.Equal(t, "/abs/~/x", cfg.GameDir)
}
