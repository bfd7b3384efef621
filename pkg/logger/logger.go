// Package logger provides structured logging for the registry core.
//
// It wraps zerolog behind a small fluent surface so components never
// depend on the logging backend directly.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a leveled, structured logger scoped to a named component.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level, component string) *Logger {
	zl := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &Logger{zl: zl}
}

// NewDefault creates a stderr logger at info level.
func NewDefault(component string) *Logger {
	return New(os.Stderr, zerolog.InfoLevel, component)
}

// NewNop creates a logger that discards everything. Useful in tests.
func NewNop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithField returns a logger with an additional field attached.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// WithError returns a logger with the error attached.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zl: l.zl.With().Err(err).Logger()}
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }

// Info logs a message at info level.
func (l *Logger) Info(msg string) { l.zl.Info().Msg(msg) }

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string) { l.zl.Warn().Msg(msg) }

// Error logs a message at error level.
func (l *Logger) Error(msg string) { l.zl.Error().Msg(msg) }
