// Package gameconfig reads and patches the game's players/config.ini.
//
// All writes go through the rewrite package, so each operation is a single
// read-modify-write pass over the file. Companion files (the shader compiler
// DLL and intro videos) are switched on and off with toggle pairs.
package gameconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/rewrite"
	"github.com/CodexForgeBR/patchops/internal/toggle"
)

const (
	// ReduceStutterKey is the reserved preset key that toggles the shader
	// compiler DLL instead of rewriting a config line.
	ReduceStutterKey = "ReduceStutter"

	// StutterDLL is renamed aside to reduce shader-compile stutter.
	StutterDLL = "d3dcompiler_46.dll"

	backbufferKey   = "BackbufferCount"
	tripleBuffering = "3"
	vsyncKey        = "Vsync"
	tripleVsyncNote = "Enabled with triple-buffered V-sync"
)

// ConfigPath is the location of config.ini under gameDir.
func ConfigPath(gameDir string) string {
	return filepath.Join(gameDir, "players", "config.ini")
}

// StutterPair is the DLL toggle pair used for stutter reduction.
func StutterPair(gameDir string) toggle.Pair {
	return toggle.NewPair(filepath.Join(gameDir, StutterDLL))
}

// Patcher applies changes to one game installation.
type Patcher struct {
	GameDir string
	Log     *logging.Logger
}

// NewPatcher returns a Patcher for gameDir. A nil log discards output.
func NewPatcher(gameDir string, log *logging.Logger) *Patcher {
	if log == nil {
		log = logging.Discard()
	}
	return &Patcher{GameDir: gameDir, Log: log}
}

// ConfigPath is the config.ini path for this installation.
func (p *Patcher) ConfigPath() string {
	return ConfigPath(p.GameDir)
}

// ApplyPreset rewrites config.ini with every setting of the named preset in
// one pass. The reserved ReduceStutter key toggles the DLL instead, and a
// triple-buffered BackbufferCount also forces V-sync on.
func (p *Patcher) ApplyPreset(name string, table *Table) error {
	preset, err := table.Lookup(name)
	if err != nil {
		return err
	}
	path := p.ConfigPath()
	if err := requireFile(path); err != nil {
		return err
	}

	rules := make([]rewrite.Rule, 0, len(preset.Settings)+1)
	for _, s := range preset.Settings {
		if s.Name == ReduceStutterKey {
			if err := p.SetStutterReduction(s.Value == "1"); err != nil {
				return err
			}
			continue
		}
		rules = append(rules, rewrite.KeyRule(s.Name, s.Value, s.Comment))
		if s.Name == backbufferKey && s.Value == tripleBuffering {
			rules = append(rules, rewrite.KeyRule(vsyncKey, "1", tripleVsyncNote))
		}
	}

	return rewrite.Apply(path, rules, fmt.Sprintf("Applied preset '%s'", preset.Name), p.Log)
}

// SetValue rewrites the single line assigning key.
func (p *Patcher) SetValue(key, value, comment string) error {
	if comment == "" {
		comment = SettingComment(key)
	}
	return rewrite.Apply(p.ConfigPath(),
		[]rewrite.Rule{rewrite.KeyRule(key, value, comment)},
		fmt.Sprintf("Set %s to %s", key, value), p.Log)
}

// SetFullVRAM switches between full VRAM usage (VideoMemory 1,
// StreamMinResident 0) and the reduced baseline.
func (p *Patcher) SetFullVRAM(on bool) error {
	videoMemory, minResident, msg := "0.75", "1", "Reverted VRAM usage"
	if on {
		videoMemory, minResident, msg = "1", "0", "Enabled full VRAM usage"
	}
	return rewrite.Apply(p.ConfigPath(), []rewrite.Rule{
		rewrite.KeyRule("VideoMemory", videoMemory, "0.75 to 1"),
		rewrite.KeyRule("StreamMinResident", minResident, "0 or 1"),
	}, msg, p.Log)
}

// SetStutterReduction moves the shader compiler DLL aside (enable) or
// restores it.
func (p *Patcher) SetStutterReduction(enable bool) error {
	return StutterPair(p.GameDir).Toggle(enable, p.Log)
}

// SetReadOnly locks or unlocks config.ini by clearing or setting the write
// bits.
func (p *Patcher) SetReadOnly(readOnly bool) error {
	path := p.ConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return patcherr.NotFound("config.ini", path)
		}
		return patcherr.IO("stat", path, err)
	}

	perm := info.Mode().Perm()
	msg := "config.ini set to writable"
	if readOnly {
		perm &^= 0222
		msg = "config.ini set to read-only"
	} else {
		perm |= 0200
	}
	if err := os.Chmod(path, perm); err != nil {
		return patcherr.IO("chmod", path, err)
	}
	p.Log.Success(msg)
	return nil
}

// IsReadOnly reports whether config.ini lacks the owner write bit.
func (p *Patcher) IsReadOnly() (bool, error) {
	path := p.ConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, patcherr.NotFound("config.ini", path)
		}
		return false, patcherr.IO("stat", path, err)
	}
	return info.Mode().Perm()&0200 == 0, nil
}

// WithWritable runs fn with config.ini unlocked and relocks it afterwards if
// it was read-only on entry.
func (p *Patcher) WithWritable(fn func() error) error {
	locked, err := p.IsReadOnly()
	if err != nil {
		return err
	}
	if !locked {
		return fn()
	}

	if err := p.SetReadOnly(false); err != nil {
		return err
	}
	fnErr := fn()
	return errors.Join(fnErr, p.SetReadOnly(true))
}

func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return patcherr.NotFound("config.ini", path)
		}
		return patcherr.IO("stat", path, err)
	}
	return nil
}
