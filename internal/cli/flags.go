// Package cli provides flag binding and validation for the patchops CLI.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/patchops/internal/config"
)

// BindFlags registers the global flags as persistent flags on cmd so every
// subcommand accepts them. The flags write directly into cfg; call
// BuildOverrides after parsing to layer them over config files.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Paths
	flags.StringVar(&cfg.GameDir, "game-dir", "", "Black Ops III installation directory")
	flags.StringVar(&cfg.ModDir, "mod-dir", "", "Download and extraction directory (default: <data-dir>/BO3 Mod Files)")
	flags.StringVar(&cfg.PresetsFile, "presets", "", "Preset table (.json, .yaml or .yml)")
	flags.StringVar(&cfg.LogFile, "log-file", "", "Log file (default: <data-dir>/PatchOpsIII.log)")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for settings, history and logs")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")

	// Behavior
	flags.BoolVar(&cfg.LockConfig, "lock-config", false, "Keep config.ini read-only after changes")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Show debug output")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")

	// Downloads
	flags.IntVar(&cfg.DownloadRetries, "retries", cfg.DownloadRetries, "Download retries on transient failures")
	flags.IntVar(&cfg.DownloadTimeout, "timeout", cfg.DownloadTimeout, "Download timeout in seconds")
}

// flagKeys maps flag names to their config file keys.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"game-dir", "GAME_DIR"},
	{"mod-dir", "MOD_DIR"},
	{"presets", "PRESETS_FILE"},
	{"log-file", "LOG_FILE"},
	{"data-dir", "DATA_DIR"},
	{"lock-config", "LOCK_CONFIG"},
	{"verbose", "VERBOSE"},
	{"retries", "DOWNLOAD_RETRIES"},
	{"timeout", "DOWNLOAD_TIMEOUT"},
}

// BuildOverrides returns the config keys for flags explicitly set on the
// command line, so config file values are not overridden by flag defaults.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	values := map[string]string{
		"GAME_DIR":         cfg.GameDir,
		"MOD_DIR":          cfg.ModDir,
		"PRESETS_FILE":     cfg.PresetsFile,
		"LOG_FILE":         cfg.LogFile,
		"DATA_DIR":         cfg.DataDir,
		"LOCK_CONFIG":      strconv.FormatBool(cfg.LockConfig),
		"VERBOSE":          strconv.FormatBool(cfg.Verbose),
		"DOWNLOAD_RETRIES": strconv.Itoa(cfg.DownloadRetries),
		"DOWNLOAD_TIMEOUT": strconv.Itoa(cfg.DownloadTimeout),
	}

	overrides := make(map[string]string)
	for _, fk := range flagKeys {
		if cmd.Flags().Changed(fk.flag) {
			overrides[fk.key] = values[fk.key]
		}
	}
	return overrides
}

// ValidateFlags checks flag values after parsing.
func ValidateFlags(cfg *config.Config) error {
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}
	if cfg.DownloadRetries < 0 {
		return fmt.Errorf("--retries must be >= 0, got: %d", cfg.DownloadRetries)
	}
	if cfg.DownloadTimeout <= 0 {
		return fmt.Errorf("--timeout must be > 0, got: %d", cfg.DownloadTimeout)
	}
	return nil
}
