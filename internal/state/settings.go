// Package state persists patchops application settings between runs.
package state

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/creachadair/atomicfile"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/steam"
)

// SettingsFile is the settings file name inside the data directory.
const SettingsFile = "PatchOpsIII_settings.json"

const gameDirKey = "game_directory"

// AppSettings is the subset of the settings file patchops reads.
type AppSettings struct {
	GameDirectory string
}

// Path returns the settings file location in dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, SettingsFile)
}

// Load reads the settings in dataDir. A missing file yields empty settings.
// A saved game directory that no longer holds the game is dropped.
func Load(dataDir string) (AppSettings, error) {
	raw, err := readRaw(Path(dataDir))
	if err != nil {
		return AppSettings{}, err
	}

	var s AppSettings
	if v, ok := raw[gameDirKey]; ok {
		var dir string
		if err := json.Unmarshal(v, &dir); err != nil {
			return AppSettings{}, patcherr.Malformed("%s: %s is not a string", Path(dataDir), gameDirKey)
		}
		if steam.HasGameExecutable(dir) {
			s.GameDirectory = dir
		}
	}
	return s, nil
}

// SaveGameDirectory records dir in the settings file, keeping any other keys
// already stored there. An unreadable settings file is replaced.
func SaveGameDirectory(dataDir, dir string) error {
	path := Path(dataDir)
	raw, err := readRaw(path)
	if err != nil {
		if !errors.Is(err, patcherr.ErrMalformed) {
			return err
		}
		raw = nil
	}
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}

	v, err := json.Marshal(dir)
	if err != nil {
		return err
	}
	raw[gameDirKey] = v

	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return patcherr.IO("create dir", dataDir, err)
	}
	out, err := atomicfile.New(path, 0644)
	if err != nil {
		return patcherr.IO("create", path, err)
	}
	defer out.Cancel()

	if _, err := out.Write(append(data, '\n')); err != nil {
		return patcherr.IO("write", path, err)
	}
	return patcherr.IO("replace", path, out.Close())
}

func readRaw(path string) (map[string]json.RawMessage, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, patcherr.IO("open", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, patcherr.IO("read", path, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, patcherr.Malformed("%s: %v", path, err)
	}
	return raw, nil
}
