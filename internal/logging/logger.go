// Package logging provides colored, leveled log output for the patchops CLI.
//
// A Logger is constructed explicitly and handed to each component. Every
// entry is printed with a color-coded prefix, optionally appended to a log
// file, and fanned out to any subscribers. Debug output is suppressed unless
// verbose mode is enabled.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Category is the severity of a log entry.
type Category int

const (
	CategoryInfo Category = iota
	CategoryWarning
	CategorySuccess
	CategoryError
)

// String returns the category name used in the log file.
func (c Category) String() string {
	switch c {
	case CategoryInfo:
		return "Info"
	case CategoryWarning:
		return "Warning"
	case CategorySuccess:
		return "Success"
	case CategoryError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Entry is one log event as delivered to subscribers.
type Entry struct {
	Time     time.Time
	Category Category
	Message  string
}

// timestampLayout is the log-file timestamp format.
const timestampLayout = "2006-01-02 15:04:05"

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	phasePrefix   = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgBlue).SprintFunc()
)

// Logger writes console, file and subscriber output. The zero value is not
// usable; construct with New.
type Logger struct {
	mu          sync.Mutex
	out         io.Writer
	errOut      io.Writer
	file        io.WriteCloser
	verbose     bool
	subscribers []chan Entry
	now         func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends console output (all levels, including errors) to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
		l.errOut = w
	}
}

// WithVerbose enables Debug output.
func WithVerbose(v bool) Option {
	return func(l *Logger) { l.verbose = v }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New returns a Logger writing to stdout (and stderr for errors).
func New(opts ...Option) *Logger {
	l := &Logger{
		out:    os.Stdout,
		errOut: os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discard returns a Logger that prints nothing. Subscribers still work.
func Discard() *Logger {
	return New(WithOutput(io.Discard))
}

// SetVerbose enables or disables Debug output.
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// OpenFile appends every subsequent entry to the file at path, creating it
// if needed. A previously opened file is closed first.
func (l *Logger) OpenFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	return nil
}

// Close closes the log file and all subscriber channels.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = nil
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Subscribe returns a channel receiving every subsequent entry. Entries are
// dropped when the channel buffer is full; logging never blocks on a slow
// subscriber.
func (l *Logger) Subscribe(buffer int) <-chan Entry {
	ch := make(chan Entry, buffer)
	l.mu.Lock()
	l.subscribers = append(l.subscribers, ch)
	l.mu.Unlock()
	return ch
}

// Info prints an informational message in blue.
func (l *Logger) Info(msg string) {
	l.emit(CategoryInfo, l.out, infoPrefix("[INFO]"), msg)
}

// Success prints a success message in green.
func (l *Logger) Success(msg string) {
	l.emit(CategorySuccess, l.out, successPrefix("[SUCCESS]"), msg)
}

// Warn prints a warning message in yellow.
func (l *Logger) Warn(msg string) {
	l.emit(CategoryWarning, l.out, warnPrefix("[WARN]"), msg)
}

// Error prints an error message to stderr in red.
func (l *Logger) Error(msg string) {
	l.emit(CategoryError, l.errOut, errorPrefix("[ERROR]"), msg)
}

// Phase prints a section header in cyan, surrounded by separator lines.
// Headers are console-only.
func (l *Logger) Phase(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sep := phasePrefix("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(l.out, sep)
	fmt.Fprintln(l.out, phasePrefix("[PHASE]")+" "+msg)
	fmt.Fprintln(l.out, sep)
}

// Debug prints a debug message in blue, only when verbose mode is enabled.
// Debug lines are console-only.
func (l *Logger) Debug(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.verbose {
		return
	}
	fmt.Fprintln(l.out, debugPrefix("[DEBUG]")+" "+msg)
}

func (l *Logger) emit(cat Category, w io.Writer, prefix, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(w, prefix+" "+msg)

	ts := l.now()
	if l.file != nil {
		fmt.Fprintf(l.file, "%s - %s: %s\n", ts.Format(timestampLayout), cat, msg)
	}

	entry := Entry{Time: ts, Category: cat, Message: msg}
	for _, ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
//	FormatDuration(7200) => "2h 0m 0s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		m := seconds / 60
		s := seconds % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
