package gameconfig

import (
	"errors"
	"os"
	"regexp"
	"strconv"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// EssentialStatus is a default-tolerant snapshot of the settings shown by
// the status command.
type EssentialStatus struct {
	MaxFPS                  int
	FOV                     int
	FullScreenMode          int
	WindowSize              string
	RefreshRate             float64
	ResolutionPercent       int
	Vsync                   bool
	DrawFPS                 bool
	RestrictGraphicsOptions bool
	SmoothFramerate         bool
	VideoMemory             float64
	// VRAMOverride is true whenever VideoMemory/StreamMinResident deviate
	// from the full-VRAM baseline of "1"/"0".
	VRAMOverride    bool
	MaxFrameLatency int
	SerializeRender int
	ReduceCPU       bool // any SerializeRender mode, 1 or 2

	SkipIntro        bool
	AllIntrosSkipped bool
	ReduceStutter    bool
	ReadOnly         bool
	ConfigFound      bool
}

// DefaultStatus is the snapshot reported for a missing config.ini.
func DefaultStatus() EssentialStatus {
	return EssentialStatus{
		MaxFPS:            165,
		FOV:               80,
		FullScreenMode:    1,
		WindowSize:        "2560x1440",
		RefreshRate:       165.0,
		ResolutionPercent: 100,
		Vsync:             true,
		VideoMemory:       1.0,
		MaxFrameLatency:   1,
	}
}

type statusField struct {
	key string
	set func(s *EssentialStatus, raw string, found bool)
}

func intField(key string, def int, dst func(*EssentialStatus) *int) statusField {
	return statusField{key: key, set: func(s *EssentialStatus, raw string, found bool) {
		v, err := strconv.Atoi(raw)
		if !found || err != nil {
			v = def
		}
		*dst(s) = v
	}}
}

func floatField(key string, def float64, dst func(*EssentialStatus) *float64) statusField {
	return statusField{key: key, set: func(s *EssentialStatus, raw string, found bool) {
		v, err := strconv.ParseFloat(raw, 64)
		if !found || err != nil {
			v = def
		}
		*dst(s) = v
	}}
}

func stringField(key, def string, dst func(*EssentialStatus) *string) statusField {
	return statusField{key: key, set: func(s *EssentialStatus, raw string, found bool) {
		if !found {
			raw = def
		}
		*dst(s) = raw
	}}
}

func boolField(key string, def bool, dst func(*EssentialStatus) *bool) statusField {
	return statusField{key: key, set: func(s *EssentialStatus, raw string, found bool) {
		v := def
		if found {
			v = raw == "1"
		}
		*dst(s) = v
	}}
}

// statusFields is evaluated field by field; no entry depends on another.
var statusFields = []statusField{
	intField("MaxFPS", 165, func(s *EssentialStatus) *int { return &s.MaxFPS }),
	intField("FOV", 80, func(s *EssentialStatus) *int { return &s.FOV }),
	intField("FullScreenMode", 1, func(s *EssentialStatus) *int { return &s.FullScreenMode }),
	stringField("WindowSize", "2560x1440", func(s *EssentialStatus) *string { return &s.WindowSize }),
	floatField("RefreshRate", 165.0, func(s *EssentialStatus) *float64 { return &s.RefreshRate }),
	intField("ResolutionPercent", 100, func(s *EssentialStatus) *int { return &s.ResolutionPercent }),
	boolField("Vsync", true, func(s *EssentialStatus) *bool { return &s.Vsync }),
	boolField("DrawFPS", false, func(s *EssentialStatus) *bool { return &s.DrawFPS }),
	boolField("RestrictGraphicsOptions", false, func(s *EssentialStatus) *bool { return &s.RestrictGraphicsOptions }),
	boolField("SmoothFramerate", false, func(s *EssentialStatus) *bool { return &s.SmoothFramerate }),
	intField("MaxFrameLatency", 1, func(s *EssentialStatus) *int { return &s.MaxFrameLatency }),
	intField("SerializeRender", 0, func(s *EssentialStatus) *int { return &s.SerializeRender }),
	{key: "VideoMemory", set: func(s *EssentialStatus, raw string, found bool) {
		if !found {
			raw = "1"
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v = 0.75
		}
		s.VideoMemory = v
	}},
}

var capturePatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(statusFields)+1)
	for _, f := range statusFields {
		m[f.key] = valuePattern(f.key)
	}
	m["StreamMinResident"] = valuePattern("StreamMinResident")
	return m
}()

func valuePattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(key) + `\s*=\s*"([^"]+)"`)
}

func capture(content []byte, key string) (string, bool) {
	m := capturePatterns[key].FindSubmatch(content)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}

// ParseStatus extracts the config-derived fields from config.ini content.
// Every field falls back to its own default independently.
func ParseStatus(content []byte) EssentialStatus {
	s := DefaultStatus()
	for _, f := range statusFields {
		raw, found := capture(content, f.key)
		f.set(&s, raw, found)
	}

	videoMemory, ok := capture(content, "VideoMemory")
	if !ok {
		videoMemory = "1"
	}
	minResident, ok := capture(content, "StreamMinResident")
	if !ok {
		minResident = "0"
	}
	s.VRAMOverride = !(videoMemory == "1" && minResident == "0")
	s.ReduceCPU = s.SerializeRender > 0
	return s
}

// ReadStatus reads the status of the installation at gameDir. A missing
// config.ini yields DefaultStatus; only read failures of an existing file
// are returned as errors. File-derived flags are filled in either way.
func ReadStatus(gameDir string) (EssentialStatus, error) {
	path := ConfigPath(gameDir)
	s := DefaultStatus()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		s = ParseStatus(content)
		s.ConfigFound = true
		if info, statErr := os.Stat(path); statErr == nil {
			s.ReadOnly = info.Mode().Perm()&0200 == 0
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return s, patcherr.IO("read", path, err)
	}

	s.SkipIntro = fileExists(IntroPair(gameDir).Backup)
	s.AllIntrosSkipped = allIntrosSkipped(gameDir)
	s.ReduceStutter = fileExists(StutterPair(gameDir).Backup)
	return s, nil
}
