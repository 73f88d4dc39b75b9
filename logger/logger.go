// Package logger provides the levelled, prefixed logger used by the parser
// trace, the evaluator and the drawlang command.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/metaphox/drawlang/ast"
)

// Level represents logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff disables all output.
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name such as "debug" or "WARN" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "OFF", "NONE":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger writes timestamped lines of the form
//
//	15:04:05.000 LEVEL [prefix] message
//
// Loggers derived with WithPrefix share the writer and its lock, so a Logger
// is safe for concurrent use.
type Logger struct {
	mu       *sync.Mutex
	out      io.Writer
	minLevel Level
	prefix   string
	clock    func() time.Time
}

// New creates a new logger. A nil out writes to os.Stderr.
func New(out io.Writer, minLevel Level, prefix string) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		mu:       &sync.Mutex{},
		out:      out,
		minLevel: minLevel,
		prefix:   prefix,
		clock:    time.Now,
	}
}

// Default returns an info-level logger to stderr.
func Default() *Logger {
	return New(os.Stderr, LevelInfo, "")
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelOff, "")
}

// WithPrefix creates a sub-logger with an additional prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + "/" + prefix
	}
	return &Logger{
		mu:       l.mu,
		out:      l.out,
		minLevel: l.minLevel,
		prefix:   newPrefix,
		clock:    l.clock,
	}
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.minLevel && l.minLevel != LevelOff
}

func (l *Logger) log(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := l.clock().Format("15:04:05.000")
	prefix := ""
	if l.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", l.prefix)
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s %-5s %s%s\n", timestamp, level.String(), prefix, msg)
}

// Debugf logs a debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Infof logs an info message
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warnf logs a warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Errorf logs an error message
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Diagnostic logs d at the level matching its severity.
func (l *Logger) Diagnostic(d ast.Diagnostic) {
	if d.Severity == ast.SeverityWarning {
		l.Warnf("%s", d)
		return
	}
	l.Errorf("%s", d)
}

// Step logs a named step and returns a func that logs its completion time.
func (l *Logger) Step(name string) func() {
	start := l.clock()
	l.Debugf("starting %s", name)
	return func() {
		l.Debugf("finished %s (took %v)", name, l.clock().Sub(start).Round(time.Microsecond))
	}
}
