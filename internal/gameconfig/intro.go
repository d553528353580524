package gameconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/toggle"
)

// MainIntro is the logo sequence played on every launch.
const MainIntro = "BO3_Global_Logo_LogoSequence.mkv"

const videoExt = ".mkv"

// VideoDir is the directory holding the intro videos.
func VideoDir(gameDir string) string {
	return filepath.Join(gameDir, "video")
}

// IntroPair is the toggle pair for the main intro video.
func IntroPair(gameDir string) toggle.Pair {
	return toggle.NewPair(filepath.Join(VideoDir(gameDir), MainIntro))
}

// SkipIntro moves the main intro aside (skip) or restores it.
func (p *Patcher) SkipIntro(skip bool) error {
	if !dirExists(VideoDir(p.GameDir)) {
		p.Log.Warn("Video directory not found")
		return nil
	}
	return IntroPair(p.GameDir).Toggle(skip, p.Log)
}

// SkipAllIntros moves every .mkv in the video directory aside, or restores
// them. When restoring with keepMain set, the main intro stays skipped.
// Rename failures are logged per file and returned together.
func (p *Patcher) SkipAllIntros(skip, keepMain bool) error {
	dir := VideoDir(p.GameDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.Log.Warn("Video directory not found")
			return nil
		}
		return patcherr.IO("read dir", dir, err)
	}

	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		var from, to string
		switch {
		case skip && strings.HasSuffix(name, videoExt):
			from = filepath.Join(dir, name)
			to = from + toggle.BackupSuffix
		case !skip && strings.HasSuffix(name, videoExt+toggle.BackupSuffix):
			original := strings.TrimSuffix(name, toggle.BackupSuffix)
			if keepMain && original == MainIntro {
				continue
			}
			from = filepath.Join(dir, name)
			to = filepath.Join(dir, original)
		default:
			continue
		}

		if fileExists(to) {
			continue
		}
		if err := os.Rename(from, to); err != nil {
			p.Log.Error(fmt.Sprintf("Failed to rename %s: %v", name, err))
			errs = append(errs, patcherr.IO("rename", from, err))
		}
	}

	if skip {
		p.Log.Success("All intro videos skipped")
	} else {
		p.Log.Success("Intro videos restored")
	}
	return errors.Join(errs...)
}

// allIntrosSkipped is true when at least one intro backup exists and no
// playable .mkv is left.
func allIntrosSkipped(gameDir string) bool {
	entries, err := os.ReadDir(VideoDir(gameDir))
	if err != nil {
		return false
	}
	backups, videos := 0, 0
	for _, e := range entries {
		switch name := e.Name(); {
		case strings.HasSuffix(name, videoExt):
			videos++
		case strings.HasSuffix(name, videoExt+toggle.BackupSuffix):
			backups++
		}
	}
	return backups > 0 && videos == 0
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
