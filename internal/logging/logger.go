package logging

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level represents how verbose a Logger is. Levels are ordered and
// comparable by value: a Logger at LevelWarn emits both Error and Warn
// lines but not Info, Debug, or Trace ones.
//
// This repository uses Warn for conditions GenerateDelta can recover from
// on its own (a Reused token whose chunk number falls outside the
// signature it was matched against - see rsync/delta_generator.go), Debug
// for Patch's Removed-token bookkeeping, and Trace for the run identifiers
// internal/rsyncformat stamps into its save/load log lines.
type Level uint

const (
	// LevelDisabled indicates that logging is completely disabled.
	LevelDisabled Level = iota
	// LevelError indicates that only fatal errors are logged.
	LevelError
	// LevelWarn indicates that both fatal and non-fatal errors are logged.
	LevelWarn
	// LevelInfo indicates that basic execution information is logged (in
	// addition to all errors). This is the default level.
	LevelInfo
	// LevelDebug indicates that advanced execution information is logged
	// (in addition to basic information and all errors).
	LevelDebug
	// LevelTrace indicates that low-level execution information is logged
	// (in addition to all other execution information and all errors).
	LevelTrace
)

// defaultLevel is used by NewRoot when RDIFF_LOG_LEVEL is unset or invalid.
const defaultLevel = LevelInfo

// NameToLevel converts the string form of a log level - as accepted by the
// RDIFF_LOG_LEVEL environment variable and the --log-level CLI flag - to
// the corresponding Level. The returned bool is false (and the returned
// Level is LevelDisabled) when name isn't one of the six recognized level
// names.
func NameToLevel(name string) (Level, bool) {
	switch name {
	case "disabled":
		return LevelDisabled, true
	case "error":
		return LevelError, true
	case "warn":
		return LevelWarn, true
	case "info":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	case "trace":
		return LevelTrace, true
	default:
		return LevelDisabled, false
	}
}

// String provides a human-readable representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelDisabled:
		return "disabled"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// colorEnabled controls whether Warn/Error output is colorized. It is
// disabled when standard error is not a terminal (e.g. when output is
// redirected to a file or piped), mirroring the teacher's use of
// mattn/go-isatty to gate fatih/color output.
var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

// writer is an io.Writer that splits its input stream into lines and writes
// those lines to an underlying logging callback.
type writer struct {
	callback func(string)
	buffer   []byte
}

func trimCarriageReturn(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	w.buffer = append(w.buffer, buffer...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(buffer), nil
}

// Logger is a leveled logger with the novel property that a nil *Logger is
// fully functional but discards everything, so that call sites never need a
// nil check before logging. It is safe for concurrent use.
type Logger struct {
	prefix string
	level  Level
}

// RootLogger is the root logger from which all other loggers in the process
// derive. Its level is determined once, from the RDIFF_LOG_LEVEL
// environment variable, defaulting to LevelInfo if unset or invalid.
var RootLogger = NewRoot()

// NewRoot creates a new root logger with its level taken from the
// RDIFF_LOG_LEVEL environment variable.
func NewRoot() *Logger {
	level := defaultLevel
	if name := os.Getenv("RDIFF_LOG_LEVEL"); name != "" {
		if l, ok := NameToLevel(name); ok {
			level = l
		}
	}
	return &Logger{level: level}
}

// NewWithLevel creates a new root logger with an explicit level, bypassing
// the RDIFF_LOG_LEVEL environment variable. It's useful for CLI flags that
// should take precedence over the environment.
func NewWithLevel(level Level) *Logger {
	return &Logger{level: level}
}

// Sublogger creates a new logger with name appended (dot-separated) to this
// logger's prefix, inheriting its level.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{prefix: prefix, level: l.level}
}

func (l *Logger) enabled(at Level) bool {
	return l != nil && l.level >= at
}

func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

// Error logs a message at LevelError, colorized red.
func (l *Logger) Error(v ...interface{}) {
	if !l.enabled(LevelError) {
		return
	}
	l.output(3, l.colorize(color.RedString, fmt.Sprint(v...)))
}

// Errorf logs a formatted message at LevelError, colorized red.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if !l.enabled(LevelError) {
		return
	}
	l.output(3, l.colorize(color.RedString, fmt.Sprintf(format, v...)))
}

// Warn logs a message at LevelWarn, colorized yellow.
func (l *Logger) Warn(v ...interface{}) {
	if !l.enabled(LevelWarn) {
		return
	}
	l.output(3, l.colorize(color.YellowString, fmt.Sprint(v...)))
}

// Warnf logs a formatted message at LevelWarn, colorized yellow.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if !l.enabled(LevelWarn) {
		return
	}
	l.output(3, l.colorize(color.YellowString, fmt.Sprintf(format, v...)))
}

// Info logs a message at LevelInfo.
func (l *Logger) Info(v ...interface{}) {
	if !l.enabled(LevelInfo) {
		return
	}
	l.output(3, fmt.Sprint(v...))
}

// Infof logs a formatted message at LevelInfo.
func (l *Logger) Infof(format string, v ...interface{}) {
	if !l.enabled(LevelInfo) {
		return
	}
	l.output(3, fmt.Sprintf(format, v...))
}

// Debug logs a message at LevelDebug.
func (l *Logger) Debug(v ...interface{}) {
	if !l.enabled(LevelDebug) {
		return
	}
	l.output(3, fmt.Sprint(v...))
}

// Debugf logs a formatted message at LevelDebug.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !l.enabled(LevelDebug) {
		return
	}
	l.output(3, fmt.Sprintf(format, v...))
}

// Trace logs a message at LevelTrace.
func (l *Logger) Trace(v ...interface{}) {
	if !l.enabled(LevelTrace) {
		return
	}
	l.output(3, fmt.Sprint(v...))
}

// Tracef logs a formatted message at LevelTrace.
func (l *Logger) Tracef(format string, v ...interface{}) {
	if !l.enabled(LevelTrace) {
		return
	}
	l.output(3, fmt.Sprintf(format, v...))
}

// colorize applies c to s if colorized output is enabled, and returns s
// unchanged otherwise.
func (l *Logger) colorize(c func(format string, a ...interface{}) string, s string) string {
	if !colorEnabled {
		return s
	}
	return c("%s", s)
}

// Writer returns an io.Writer that logs each line written to it at
// LevelInfo.
func (l *Logger) Writer() io.Writer {
	if !l.enabled(LevelInfo) {
		return ioutil.Discard
	}
	return &writer{callback: func(s string) { l.Info(s) }}
}
