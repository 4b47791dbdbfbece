// internal/cmdutil/log.go
package cmdutil

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger returns a logger writing to w at the named level.
func NewLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name onto a log level. Empty and unknown names
// select warn.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
