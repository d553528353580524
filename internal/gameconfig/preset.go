package gameconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

//go:embed presets.json
var defaultPresetsJSON []byte

// Setting is one preset assignment: Name = "Value" // Comment.
type Setting struct {
	Name    string
	Value   string
	Comment string
}

// Preset is a named, ordered list of settings.
type Preset struct {
	Name     string
	Settings []Setting
}

// Value returns the value assigned to name and whether the preset sets it.
func (p Preset) Value(name string) (string, bool) {
	for _, s := range p.Settings {
		if s.Name == name {
			return s.Value, true
		}
	}
	return "", false
}

// Table holds presets in document order.
type Table struct {
	presets []Preset
	index   map[string]int
}

func newTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) add(p Preset) error {
	if _, dup := t.index[p.Name]; dup {
		return patcherr.Malformed("duplicate preset %q", p.Name)
	}
	t.index[p.Name] = len(t.presets)
	t.presets = append(t.presets, p)
	return nil
}

// Lookup returns the preset called name.
func (t *Table) Lookup(name string) (Preset, error) {
	i, ok := t.index[name]
	if !ok {
		return Preset{}, fmt.Errorf("preset %s: %w", name, patcherr.ErrNotFound)
	}
	return t.presets[i], nil
}

// Names lists preset names in document order.
func (t *Table) Names() []string {
	names := make([]string, len(t.presets))
	for i, p := range t.presets {
		names[i] = p.Name
	}
	return names
}

// Len is the number of presets in the table.
func (t *Table) Len() int {
	return len(t.presets)
}

// DefaultPresets returns the built-in preset table.
func DefaultPresets() *Table {
	t, err := ParseJSON(defaultPresetsJSON)
	if err != nil {
		panic("gameconfig: embedded presets: " + err.Error())
	}
	return t
}

// LoadPresets reads a preset table from path. The format is chosen by
// extension: .json, .yaml or .yml.
func LoadPresets(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, patcherr.NotFound("presets file", path)
		}
		return nil, patcherr.IO("read", path, err)
	}

	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		t, err = ParseJSON(data)
	case ".yaml", ".yml":
		t, err = ParseYAML(data)
	default:
		return nil, patcherr.Malformed("unsupported presets format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseJSON decodes {"preset": {"setting": ["value", "comment"]}} keeping
// key order.
func ParseJSON(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	t := newTable()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		p := Preset{Name: name}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			var pair []string
			if err := dec.Decode(&pair); err != nil {
				return nil, patcherr.Malformed("preset %q setting %q: %v", name, key, err)
			}
			s, err := newSetting(name, key, pair)
			if err != nil {
				return nil, err
			}
			p.Settings = append(p.Settings, s)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		if err := t.add(p); err != nil {
			return nil, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, patcherr.Malformed("trailing data after presets object")
	}
	return t, nil
}

// ParseYAML decodes the same schema as ParseJSON from YAML.
func ParseYAML(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, patcherr.Malformed("parse presets: %v", err)
	}
	t := newTable()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return t, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, patcherr.Malformed("presets: expected mapping at line %d", root.Line)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		body := root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, patcherr.Malformed("preset %q: expected mapping at line %d", name, body.Line)
		}

		p := Preset{Name: name}
		for j := 0; j+1 < len(body.Content); j += 2 {
			key := body.Content[j].Value
			val := body.Content[j+1]
			if val.Kind != yaml.SequenceNode {
				return nil, patcherr.Malformed("preset %q setting %q: expected [value, comment] at line %d", name, key, val.Line)
			}
			pair := make([]string, 0, len(val.Content))
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, patcherr.Malformed("preset %q setting %q: non-scalar item at line %d", name, key, item.Line)
				}
				pair = append(pair, item.Value)
			}
			s, err := newSetting(name, key, pair)
			if err != nil {
				return nil, err
			}
			p.Settings = append(p.Settings, s)
		}
		if err := t.add(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func newSetting(preset, key string, pair []string) (Setting, error) {
	if len(pair) != 2 {
		return Setting{}, patcherr.Malformed("preset %q setting %q: want [value, comment], got %d items", preset, key, len(pair))
	}
	if strings.TrimSpace(key) == "" {
		return Setting{}, patcherr.Malformed("preset %q: empty setting name", preset)
	}
	return Setting{Name: key, Value: pair[0], Comment: pair[1]}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return patcherr.Malformed("parse presets: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return patcherr.Malformed("parse presets: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", patcherr.Malformed("parse presets: %v", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", patcherr.Malformed("parse presets: expected key, got %v", tok)
	}
	return key, nil
}
