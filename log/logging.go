// Package log provides a public logging interface for this module.
package log // import "github.com/autofdo-go/sampleprofile/log"

import (
	"log/slog"

	"github.com/autofdo-go/sampleprofile/internal/log"
)

// SetLevel configures the log level for the pass's internal logger.
func SetLevel(level slog.Level) {
	log.SetLevel(level)
}

// SetLogger configures the pass's internal logger.
func SetLogger(l slog.Logger) {
	log.SetLogger(l)
}

// Infof logs informational messages about the pass's general progress.
func Infof(msg string, keysAndValues ...any) {
	log.Infof(msg, keysAndValues...)
}

// Info logs informational messages about the pass's general progress.
func Info(msg string) {
	log.Info(msg)
}

// Errorf logs error messages about exceptional states the pass hit.
func Errorf(msg string, keysAndValues ...any) {
	log.Errorf(msg, keysAndValues...)
}

// Error logs error messages about exceptional states the pass hit.
func Error(err error) {
	log.Error(err)
}

// Debugf logs detailed debugging information about internal pass behavior.
func Debugf(msg string, keysAndValues ...any) {
	log.Debugf(msg, keysAndValues...)
}

// Debug logs detailed debugging information about internal pass behavior.
func Debug(msg string) {
	log.Debug(msg)
}

// Warnf logs warnings — not errors, but likely more important than
// informational messages.
func Warnf(msg string, keysAndValues ...any) {
	log.Warnf(msg, keysAndValues...)
}

// Warn logs warnings — not errors, but likely more important than
// informational messages.
func Warn(msg string) {
	log.Warn(msg)
}

// Fatalf logs a fatal error message and exits the program.
func Fatalf(msg string, keysAndValues ...any) {
	log.Fatalf(msg, keysAndValues...)
}
