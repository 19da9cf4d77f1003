// Package logging provides the command logger. It is configured from the
// environment:
//
//	AVMDIS_LOG_LEVEL   debug, info, warn, error (default: info)
//	AVMDIS_LOG_PREFIX  prefix for log messages (default: "avmdis ")
//	AVMDIS_LOG_TO_FILE when "1", log to a timestamped file instead of stderr
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and closes its writer when done.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps the AVMDIS_LOG_LEVEL spellings to a level. Unknown values
// select info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLoggerWithWriter creates a logger writing to w, configured from getenv.
func NewLoggerWithWriter(w io.Writer, getenv func(string) string) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           ParseLevel(getenv("AVMDIS_LOG_LEVEL")),
	})

	prefix := getenv("AVMDIS_LOG_PREFIX")
	if prefix == "" {
		prefix = "avmdis "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}
	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a logger from the process environment.
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)
	if os.Getenv("AVMDIS_LOG_TO_FILE") == "1" {
		logFile := fmt.Sprintf("avmdis-%s-debug.log", time.Now().Format("20060102-150405"))
		// Falls back to stderr when the file cannot be created.
		if f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); err == nil {
			output = f
		}
	}
	return NewLoggerWithWriter(output, os.Getenv)
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return ParseLevel(os.Getenv("AVMDIS_LOG_LEVEL")) == log.DebugLevel
}
