// Package t7patch installs the T7 network patch and edits its t7patch.conf.
package t7patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
	"github.com/CodexForgeBR/patchops/internal/rewrite"
)

// ConfFile is the patch's key=value settings file in the game directory.
const ConfFile = "t7patch.conf"

const (
	keyName        = "playername"
	keyPassword    = "networkpassword"
	keyFriendsOnly = "isfriendsonly"

	// MaxNameLength bounds the plain gamertag, colour code excluded.
	MaxNameLength = 20
)

// Color is a gamertag colour code.
type Color struct {
	Code  string
	Label string
}

// Colors are the colour codes accepted in front of a gamertag.
var Colors = []Color{
	{"^1", "Red"},
	{"^2", "Green"},
	{"^3", "Yellow"},
	{"^4", "Blue"},
	{"^5", "Cyan"},
	{"^6", "Pink"},
	{"^7", "White"},
	{"^8", "Middle Blue"},
	{"^9", "Cinnabar Red"},
	{"^0", "Black"},
}

// LookupColor resolves a colour by code ("^1") or label ("red").
func LookupColor(s string) (Color, bool) {
	for _, c := range Colors {
		if c.Code == s || strings.EqualFold(c.Label, s) {
			return c, true
		}
	}
	return Color{}, false
}

// ConfPath is the t7patch.conf location under gameDir.
func ConfPath(gameDir string) string {
	return filepath.Join(gameDir, ConfFile)
}

// Update lists the conf keys to change. Nil fields are left alone.
type Update struct {
	Name        *string
	Password    *string
	FriendsOnly *bool
}

// ComposeGamertag joins a colour code and a plain name after validating the
// name.
func ComposeGamertag(color, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("gamertag cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("gamertag cannot exceed %d characters", MaxNameLength)
	}
	if color == "" {
		return name, nil
	}
	c, ok := LookupColor(color)
	if !ok {
		return "", fmt.Errorf("unknown colour %q", color)
	}
	return c.Code + name, nil
}

// SplitGamertag separates a leading "^N" colour code from the name.
func SplitGamertag(tag string) (color, name string) {
	if strings.HasPrefix(tag, "^") && len(tag) >= 2 {
		return tag[:2], tag[2:]
	}
	return "", tag
}

// UpdateConf rewrites the keys named in u, appending any that are missing.
// A missing t7patch.conf is only a warning.
func UpdateConf(gameDir string, u Update, log *logging.Logger) error {
	path := ConfPath(gameDir)
	lines, err := rewrite.ReadLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn(fmt.Sprintf("%s not found in %s", ConfFile, gameDir))
			return nil
		}
		return patcherr.IO("read", path, err)
	}

	type change struct {
		key, value string
		found      bool
	}
	var changes []*change
	if u.Name != nil {
		changes = append(changes, &change{key: keyName, value: *u.Name})
	}
	if u.Password != nil {
		changes = append(changes, &change{key: keyPassword, value: *u.Password})
	}
	if u.FriendsOnly != nil {
		changes = append(changes, &change{key: keyFriendsOnly, value: boolValue(*u.FriendsOnly)})
	}

	for i, line := range lines {
		for _, c := range changes {
			if strings.HasPrefix(line, c.key+"=") {
				lines[i] = c.key + "=" + c.value
				c.found = true
				break
			}
		}
	}
	for _, c := range changes {
		if !c.found {
			lines = append(lines, c.key+"="+c.value)
		}
	}

	if err := rewrite.WriteLines(path, lines); err != nil {
		return err
	}

	if u.Name != nil {
		log.Success(fmt.Sprintf("Updated '%s' to %s", keyName, *u.Name))
	}
	if u.Password != nil {
		if *u.Password == "" {
			log.Success("Cleared network password")
		} else {
			log.Success("Updated network password")
		}
	}
	if u.FriendsOnly != nil {
		state := "Off"
		if *u.FriendsOnly {
			state = "On"
		}
		log.Success(fmt.Sprintf("Set '%s' to %s", keyFriendsOnly, state))
	}
	return nil
}

// Status is what t7patch.conf currently says. Nil fields are absent.
type Status struct {
	Installed   bool
	ConfFound   bool
	Gamertag    *string
	PlainName   *string
	ColorCode   *string
	Password    *string
	FriendsOnly *bool
}

// ReadStatus parses t7patch.conf. A missing file yields an empty Status.
func ReadStatus(gameDir string) (Status, error) {
	s := Status{Installed: IsInstalled(gameDir)}
	path := ConfPath(gameDir)
	lines, err := rewrite.ReadLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, patcherr.IO("read", path, err)
	}
	s.ConfFound = true

	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case keyName:
			s.Gamertag = &value
		case keyPassword:
			s.Password = &value
		case keyFriendsOnly:
			on := value == "1"
			s.FriendsOnly = &on
		}
	}

	if s.Gamertag != nil {
		color, name := SplitGamertag(*s.Gamertag)
		s.PlainName = &name
		if color != "" {
			s.ColorCode = &color
		}
	}
	return s, nil
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
