// Package logging builds the charmbracelet/log loggers shared by every front end.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Options configures a logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// Format is one of text, logfmt, json.
	Format string
	// Prefix is printed before each message.
	Prefix string
	// Timestamps enables time reporting.
	Timestamps bool
}

// New returns a logger writing to w. A nil writer discards output.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = io.Discard
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a level name. Empty input yields DefaultLevel.
func ParseLevel(value string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return log.WarnLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", value)
	}
}

// ParseFormat parses a formatter name. Empty input yields text.
func ParseFormat(value string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "text":
		return log.TextFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("invalid log format %q: must be text, logfmt, or json", value)
	}
}
