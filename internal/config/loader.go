package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// LoadFile reads the whitelisted KEY=VALUE pairs from path. Blank lines,
// # comments and lines without "=" are skipped, and one pair of matching
// quotes around a value is removed so paths with spaces can be quoted.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	values := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !slices.Contains(WhitelistedVars[:], key) {
			continue
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return values, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
}

// LoadWithPrecedence layers, lowest first: built-in defaults, the global
// config file, the explicit config file and the CLI overrides. An empty
// path is skipped. The global file may be missing; the explicit one must
// exist. Derived paths are resolved once every layer is applied.
func LoadWithPrecedence(globalPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	if globalPath != "" {
		m, err := LoadFile(globalPath)
		switch {
		case err == nil:
			ApplyMapToConfig(cfg, m)
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("global config: %w", err)
		}
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	ApplyMapToConfig(cfg, cliOverrides)
	cfg.Resolve()
	return cfg, nil
}

// ApplyMapToConfig copies the values in m onto cfg. Unknown keys are
// ignored, as are counts that do not parse or are out of range. Path values
// get "~/" expanded.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "GAME_DIR":
			cfg.GameDir = expandHome(value)
		case "MOD_DIR":
			cfg.ModDir = expandHome(value)
		case "PRESETS_FILE":
			cfg.PresetsFile = expandHome(value)
		case "LOG_FILE":
			cfg.LogFile = expandHome(value)
		case "DATA_DIR":
			cfg.DataDir = expandHome(value)
		case "LOCK_CONFIG":
			cfg.LockConfig = parseBool(value)
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "DOWNLOAD_RETRIES":
			if v, err := strconv.Atoi(value); err == nil && v >= 0 {
				cfg.DownloadRetries = v
			}
		case "DOWNLOAD_TIMEOUT":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				cfg.DownloadTimeout = v
			}
		}
	}
}

// parseBool accepts true, 1, yes and on in any case. Anything else is false.
func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}
