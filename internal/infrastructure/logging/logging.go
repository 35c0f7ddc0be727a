// Package logging builds the console logger shared by commands, handlers
// and the server.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Options controls the console logger.
type Options struct {
	Debug bool
	// Prefix is shown before every message, e.g. the command name.
	Prefix string
}

// New creates a console logger writing to w with timestamps.
func New(w io.Writer, opts Options) *log.Logger {
	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
