// Package logging configures structured logging for hirn-login.
//
// Logs are written with zerolog to the writer the CLI passes in (its stderr), so
// they never interleave with command output on stdout. Field maps that may carry
// secrets go through a Redactor first.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log entry.
type LogLevel string

// Log severity levels.
const (
	// LevelTrace additionally logs submitted form fields (redacted).
	LevelTrace LogLevel = "trace"
	// LevelDebug enables debug-level logging.
	LevelDebug LogLevel = "debug"
	// LevelInfo enables info-level logging.
	LevelInfo LogLevel = "info"
	// LevelWarn enables warn-level logging.
	LevelWarn LogLevel = "warn"
	// LevelError enables error-level logging.
	LevelError LogLevel = "error"
	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "disabled"
)

// LogFormat represents the output format for log entries.
type LogFormat string

// Log output formats.
const (
	// FormatJSON outputs one JSON object per line.
	FormatJSON LogFormat = "json"
	// FormatHuman outputs logs in human-readable format (default).
	FormatHuman LogFormat = "human"
)

// ParseLevel parses a level name. Names are case-insensitive.
func ParseLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, err := level.zerolog(); err != nil {
		return "", err
	}
	return level, nil
}

// ParseFormat parses a format name.
func ParseFormat(s string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatHuman:
		return FormatHuman, nil
	default:
		return "", fmt.Errorf("invalid log format '%s': must be 'json' or 'human'", s)
	}
}

func (l LogLevel) zerolog() (zerolog.Level, error) {
	switch l {
	case LevelTrace:
		return zerolog.TraceLevel, nil
	case LevelDebug:
		return zerolog.DebugLevel, nil
	case LevelInfo:
		return zerolog.InfoLevel, nil
	case LevelWarn:
		return zerolog.WarnLevel, nil
	case LevelError:
		return zerolog.ErrorLevel, nil
	case LevelDisabled:
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid log level '%s': must be one of trace, debug, info, warn, error, disabled", string(l))
	}
}

// NewWithWriter creates a logger writing to w. Unknown levels fall back to warn.
func NewWithWriter(level LogLevel, format LogFormat, w io.Writer) zerolog.Logger {
	zl, err := level.zerolog()
	if err != nil {
		zl = zerolog.WarnLevel
	}

	if format == FormatHuman {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}

	return zerolog.New(w).Level(zl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
