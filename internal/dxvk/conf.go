package dxvk

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/creachadair/atomicfile"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// ConfFile is written next to the game executable.
const ConfFile = "dxvk.conf"

// Settings are the dxvk.conf options exposed to the user.
type Settings struct {
	EnableAsync        bool
	GPLAsyncCache      bool
	NumCompilerThreads int
	MaxFrameRate       int
	MaxFrameLatency    int
	TearFree           string // Auto, True or False
	HUD                bool
}

// PresetNames lists the accepted preset names.
var PresetNames = []string{"recommended", "none"}

// Preset returns the settings for a named preset.
func Preset(name string) (Settings, error) {
	switch strings.ToLower(name) {
	case "", "recommended", "default":
		return Settings{
			EnableAsync:     true,
			GPLAsyncCache:   true,
			MaxFrameLatency: 1,
			TearFree:        "True",
		}, nil
	case "none":
		return Settings{
			EnableAsync: true,
			TearFree:    "Auto",
		}, nil
	default:
		return Settings{}, fmt.Errorf("dxvk preset %s: %w", name, patcherr.ErrNotFound)
	}
}

// BuildConf renders s as dxvk.conf. The GPL async cache line is only
// emitted when includeCache is set and s asks for it.
func BuildConf(s Settings, includeCache bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "dxvk.enableAsync=%t\n", s.EnableAsync)
	if includeCache && s.GPLAsyncCache {
		b.WriteString("dxvk.gplAsyncCache=true\n")
	}
	fmt.Fprintf(&b, "dxvk.numCompilerThreads=%d\n", s.NumCompilerThreads)
	fmt.Fprintf(&b, "dxgi.maxFrameRate=%d\n", s.MaxFrameRate)
	fmt.Fprintf(&b, "dxgi.maxFrameLatency=%d\n", s.MaxFrameLatency)
	tearFree := s.TearFree
	if tearFree == "" {
		tearFree = "Auto"
	}
	fmt.Fprintf(&b, "dxvk.tearFree=%s\n", tearFree)
	if s.HUD {
		b.WriteString("dxvk.hud=fps,frametimes,gpuload\n")
	}
	return b.String()
}

// WriteConf atomically replaces gameDir/dxvk.conf.
func WriteConf(gameDir string, s Settings, includeCache bool) error {
	path := filepath.Join(gameDir, ConfFile)
	out, err := atomicfile.New(path, 0644)
	if err != nil {
		return patcherr.IO("create", path, err)
	}
	defer out.Cancel()

	if _, err := io.WriteString(out, BuildConf(s, includeCache)); err != nil {
		return patcherr.IO("write", path, err)
	}
	return patcherr.IO("replace", path, out.Close())
}
