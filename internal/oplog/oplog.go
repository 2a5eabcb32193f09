// Package oplog writes the append-only audit log: every scan, deletion,
// backup, and flush is recorded so users can review what the tool touched.
// The logger is passed explicitly to the components that record events.
package oplog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper over a line-oriented audit sink.
type Logger struct {
	z zerolog.Logger
	f *os.File
}

// Open creates (or appends to) the audit log at path. Entries are
// timestamped JSON lines.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	return &Logger{
		z: zerolog.New(f).With().Timestamp().Logger(),
		f: f,
	}, nil
}

// Nop returns a logger that discards everything. Used in tests and when the
// log file cannot be opened (logging must never block an operation).
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// Event records one audit line.
func (l *Logger) Event(format string, args ...any) {
	if l == nil {
		return
	}
	l.z.Info().Msgf(format, args...)
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}
