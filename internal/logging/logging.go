// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the application logger.
type Options struct {
	Level           string
	Format          string // text, json, or logfmt
	ReportTimestamp bool
	Prefix          string
}

// New creates a leveled logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	formatter, err := ParseFormatter(opts.Format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	}), nil
}

// ParseFormatter parses a formatter name to a charmbracelet/log Formatter.
func ParseFormatter(name string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q", name)
	}
}

// Standard adapts logger for packages that expect a *log.Logger from the
// standard library, such as chi's request logger. Lines are logged at info.
func Standard(logger *log.Logger) *stdlog.Logger {
	return logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})
}
