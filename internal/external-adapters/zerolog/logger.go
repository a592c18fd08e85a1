// Package zerolog adapts rs/zerolog to the domain Logger contract.
// This is in external-adapters to isolate the external dependency.
package zerolog

import (
	"io"

	zl "github.com/rs/zerolog"

	"github.com/ochairo/dwarflocate/internal/domain/interfaces"
)

// Logger implements interfaces.Logger on top of a zerolog logger
type Logger struct {
	log zl.Logger
}

// New creates a console logger writing to w. Debug-level events are
// emitted only when verbose is set.
func New(w io.Writer, verbose bool) *Logger {
	level := zl.InfoLevel
	if verbose {
		level = zl.DebugLevel
	}
	logger := zl.New(zl.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return &Logger{log: logger}
}

var _ interfaces.Logger = (*Logger)(nil)

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	emit(l.log.Debug(), msg, fields)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	emit(l.log.Info(), msg, fields)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	emit(l.log.Warn(), msg, fields)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	emit(l.log.Error(), msg, fields)
}

func emit(e *zl.Event, msg string, fields []interfaces.Field) {
	for _, f := range fields {
		e = e.Interface(f.Key, f.Value)
	}
	e.Msg(msg)
}
