// Package logging constructs the application logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a [log.Logger] writing to w with timestamps enabled. The writer
// defaults to [os.Stderr].
func New(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true})
}

// SetLevel applies a level name ("debug", "info", "warn", "error") to the
// logger. Unknown names leave the level unchanged.
func SetLevel(l *log.Logger, level string) {
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
}
