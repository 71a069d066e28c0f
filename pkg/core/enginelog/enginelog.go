// Package enginelog is the non-RT logging sink every part of the engine
// writes to. The audio thread never touches it directly: RT-side problems
// are forwarded as events (§7) and logged here by whichever goroutine drains
// them, never inline inside ProcessAudio.
package enginelog

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Level mirrors the teacher's debug.LogLevel constant shape so call sites
// ported from pkg/framework/debug read the same way against this package.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Logger wraps a charmbracelet/log.Logger with the leveled Debug/Info/Warn/
// Error surface the rest of the engine expects, replacing the teacher's
// hand-rolled, mutex-guarded debug.Logger with the structured logger the
// audio-adjacent repo in this pack (doismellburning-samoyed) already
// depends on for the same purpose.
type Logger struct {
	mu   sync.Mutex
	inner *log.Logger
}

// New builds a Logger writing to w with the given prefix, analogous to the
// teacher's debug.New(output, prefix, flags) constructor.
func New(w io.Writer, prefix string) *Logger {
	inner := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	return &Logger{inner: inner}
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide logger, lazily writing to stderr at Info
// level until reconfigured — mirroring debug.Default()'s eager os.Stderr
// default.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr, "sushi")
		defaultLogger.SetLevel(LevelInfo)
	})
	return defaultLogger
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.SetLevel(level.charm())
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.SetOutput(w)
}

// With returns a child logger carrying the given structured key/value
// pairs on every subsequent call, e.g. enginelog.Default().With("track",
// id).Error("processor init failed", "err", err).
func (l *Logger) With(keyvals ...any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{inner: l.inner.With(keyvals...)}
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.Debug(msg, keyvals...)
}

func (l *Logger) Info(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.Info(msg, keyvals...)
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.Warn(msg, keyvals...)
}

func (l *Logger) Error(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inner.Error(msg, keyvals...)
}

// Debug logs a debug message on the default logger.
func Debug(msg string, keyvals ...any) { Default().Debug(msg, keyvals...) }

// Info logs an informational message on the default logger.
func Info(msg string, keyvals ...any) { Default().Info(msg, keyvals...) }

// Warn logs a warning message on the default logger.
func Warn(msg string, keyvals ...any) { Default().Warn(msg, keyvals...) }

// Error logs an error message on the default logger.
func Error(msg string, keyvals ...any) { Default().Error(msg, keyvals...) }
