// Package rewrite applies ordered line-substitution rules to a text file.
//
// Each line is tested against the rules in order; the first rule whose
// matcher hits replaces the whole line with its literal replacement and no
// further rules are consulted for that line. Lines that match nothing are
// kept verbatim. The file is written back in full through a temporary file
// and an atomic rename.
package rewrite

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/creachadair/atomicfile"

	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// maxLineSize bounds a single line when scanning the input.
const maxLineSize = 1 << 20

// Rule replaces any line matched by Match with Replacement.
type Rule struct {
	Match       *regexp.Regexp
	Replacement string
}

// KeyMatcher matches a `key =` assignment at line start, ignoring leading
// whitespace. The key is matched literally.
func KeyMatcher(key string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + `\s*=`)
}

// SettingLine renders a settings line in the `Key = "Value" // comment` shape.
func SettingLine(key, value, comment string) string {
	return fmt.Sprintf(`%s = "%s" // %s`, key, value, comment)
}

// KeyRule builds the rule that rewrites key's line to the given value and comment.
func KeyRule(key, value, comment string) Rule {
	return Rule{Match: KeyMatcher(key), Replacement: SettingLine(key, value, comment)}
}

// Lines applies rules to lines and returns the rewritten slice along with
// the number of lines that changed. The input slice is not modified.
func Lines(lines []string, rules []Rule) ([]string, int) {
	out := make([]string, len(lines))
	changed := 0
	for i, line := range lines {
		out[i] = line
		for _, r := range rules {
			if r.Match.MatchString(line) {
				if r.Replacement != line {
					changed++
				}
				out[i] = r.Replacement
				break
			}
		}
	}
	return out, changed
}

// ReadLines reads path and splits it into lines. Line terminators (LF or
// CRLF) are stripped.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// WriteLines atomically replaces path with lines, each followed by "\n".
// The file keeps its existing permission bits when it already exists.
func WriteLines(path string, lines []string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	out, err := atomicfile.New(path, mode)
	if err != nil {
		return patcherr.IO("create temp for", path, err)
	}
	defer out.Cancel()

	w := bufio.NewWriter(out)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return patcherr.IO("write", path, err)
	}
	if err := out.Close(); err != nil {
		return patcherr.IO("replace", path, err)
	}
	return nil
}

// Apply rewrites the file at path in place using rules and logs
// successMessage on success.
//
// The file must exist; a missing file is ErrNotFound and nothing is created.
// A file without the owner write bit is ErrReadOnly.
func Apply(path string, rules []Rule, successMessage string, log *logging.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return patcherr.NotFound("file", path)
		}
		return patcherr.IO("stat", path, err)
	}
	if info.Mode().Perm()&0200 == 0 {
		return fmt.Errorf("rewrite %s: %w", path, patcherr.ErrReadOnly)
	}

	lines, err := ReadLines(path)
	if err != nil {
		return patcherr.IO("read", path, err)
	}

	updated, changed := Lines(lines, rules)
	if err := WriteLines(path, updated); err != nil {
		return err
	}

	log.Debug(fmt.Sprintf("Rewrote %d of %d lines in %s", changed, len(lines), path))
	log.Success(successMessage)
	return nil
}
