// Package config defines the patchops tool configuration and its defaults.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < explicit config file <
// CLI flag overrides.
package config

import (
	"os"
	"path/filepath"
)

// WhitelistedVars lists every variable name that may appear in config
// files. Other names are silently ignored during loading.
var WhitelistedVars = [9]string{
	"GAME_DIR",
	"MOD_DIR",
	"PRESETS_FILE",
	"LOG_FILE",
	"DATA_DIR",
	"LOCK_CONFIG",
	"VERBOSE",
	"DOWNLOAD_RETRIES",
	"DOWNLOAD_TIMEOUT",
}

// AppName names the data directory and the log file.
const AppName = "PatchOpsIII"

// ModDirName is the mod download directory inside the data directory.
const ModDirName = "BO3 Mod Files"

// Config holds every configuration field for the patchops CLI.
type Config struct {
	// Paths. Empty ModDir and LogFile are derived from DataDir by Resolve.
	GameDir     string
	ModDir      string
	PresetsFile string
	LogFile     string
	DataDir     string

	// LockConfig re-locks config.ini as read-only after every rewrite.
	LockConfig bool
	Verbose    bool

	// Downloads. Timeout is in seconds.
	DownloadRetries int
	DownloadTimeout int

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	NoColor    bool
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:         DefaultDataDir(),
		DownloadRetries: 3,
		DownloadTimeout: 300,
	}
}

// Resolve fills the paths derived from DataDir.
func (c *Config) Resolve() {
	if c.ModDir == "" {
		c.ModDir = filepath.Join(c.DataDir, ModDirName)
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, AppName+".log")
	}
}

// DefaultDataDir is <user config dir>/PatchOpsIII, or ./PatchOpsIII when the
// user config dir is unknown.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(base, AppName)
}

// GlobalConfigPath is <user config dir>/patchops/config, or "" when the user
// config dir is unknown.
func GlobalConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "patchops", "config")
}
