// Package logx provides the shared structured logger.
package logx

import (
	"fmt"
	"io"
	"strings"

	clog "github.com/charmbracelet/log"
)

// Logger is the logger type handed to the pipeline.
type Logger = clog.Logger

// New returns a logger writing to w with timestamps and the hush prefix.
// An unknown level name is an error; an empty one means info.
func New(w io.Writer, level string) (*Logger, error) {
	lvl := clog.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := clog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", level)
		}
		lvl = parsed
	}
	return clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Prefix:          "hush",
		Level:           lvl,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return clog.NewWithOptions(io.Discard, clog.Options{Level: clog.FatalLevel})
}
