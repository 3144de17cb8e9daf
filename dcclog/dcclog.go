// Package dcclog is a small level-gated wrapper around log.Logger,
// mirroring the granularity of the original base station's log_d/log_i/
// log_w macros. It exists so target code can drop the output entirely
// (Level Silent) without touching call sites, and so host tests can
// assert on emitted lines without pulling in a heavier logging stack.
package dcclog

import (
	"log"
	"os"
)

// Level selects which severities a Logger emits.
type Level int

const (
	// Silent suppresses all output.
	Silent Level = iota
	// Warn emits Warnf only.
	Warn
	// Info emits Infof and Warnf.
	Info
	// Debug emits everything, including Debugf.
	Debug
)

// Logger is a leveled logger. The zero value is a Silent logger with no
// backing *log.Logger and is safe to use.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a Logger at level, writing through std (falling back to
// os.Stderr with no extra prefix if std is nil).
func New(level Level, std *log.Logger) *Logger {
	if std == nil {
		std = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Logger{level: level, out: std}
}

// Debugf logs a debug-level message if the logger's level permits it.
// Never call this from ISR context: formatting allocates.
func (l *Logger) Debugf(format string, args ...any) {
	l.logAt(Debug, format, args...)
}

// Infof logs an info-level message if the logger's level permits it.
func (l *Logger) Infof(format string, args ...any) {
	l.logAt(Info, format, args...)
}

// Warnf logs a warning if the logger's level permits it.
func (l *Logger) Warnf(format string, args ...any) {
	l.logAt(Warn, format, args...)
}

func (l *Logger) logAt(level Level, format string, args ...any) {
	if l == nil || l.out == nil || l.level < level {
		return
	}
	l.out.Printf(format, args...)
}
