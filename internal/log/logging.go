package log // import "github.com/autofdo-go/sampleprofile/internal/log"

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// level is shared by every handler this package creates, so SetLevel
// can adjust verbosity without needing to replace the logger.
var level = new(slog.LevelVar)

// globalLogger holds a reference to the [slog.Logger] used within this
// module.
//
// The default logger writes text records directly to stderr through an
// slog.TextHandler. It shows messages at the Info level and above until
// SetLevel changes the shared level.
var globalLogger = func() *atomic.Pointer[slog.Logger] {
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	p := new(atomic.Pointer[slog.Logger])
	p.Store(l)
	return p
}()

// SetLogger sets the global Logger to l.
func SetLogger(l slog.Logger) {
	globalLogger.Store(&l)
}

// SetLevel adjusts the verbosity of the default logger. It has no
// effect once a custom logger has been installed with SetLogger.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetDebugLogger configures the global logger to write debug-level logs to stderr.
func SetDebugLogger() {
	SetLevel(slog.LevelDebug)
}

// getLogger returns the global logger.
func getLogger() *slog.Logger {
	return globalLogger.Load()
}

// Infof logs informational messages about the pass's general progress.
// This function is a wrapper around the structured slog-based logger,
// formatting the message as a string for backward compatibility with
// previous unstructured logging.
func Infof(msg string, keysAndValues ...any) {
	if getLogger().Enabled(context.Background(), slog.LevelInfo) {
		getLogger().Info(fmt.Sprintf(msg, keysAndValues...))
	}
}

// Info logs informational messages about the pass's general progress.
// Unlike Infof, it logs msg as-is, without formatting.
func Info(msg string) {
	if getLogger().Enabled(context.Background(), slog.LevelInfo) {
		getLogger().Info(msg)
	}
}

// Errorf logs error messages about exceptional states the pass hit.
// This wrapper formats structured log data into a string message for
// backward compatibility with older unstructured logs.
func Errorf(msg string, keysAndValues ...any) {
	if getLogger().Enabled(context.Background(), slog.LevelError) {
		getLogger().Error(fmt.Sprintf(msg, keysAndValues...))
	}
}

// Error logs error messages about exceptional states the pass hit.
// Unlike Errorf, it logs err's message as-is, without formatting.
func Error(err error) {
	if getLogger().Enabled(context.Background(), slog.LevelError) {
		getLogger().Error(err.Error())
	}
}

// Debugf logs detailed debugging information about internal pass behavior.
// This wrapper converts structured log data into a string message for
// backward compatibility with older unstructured logs.
func Debugf(msg string, keysAndValues ...any) {
	if getLogger().Enabled(context.Background(), slog.LevelDebug) {
		getLogger().Debug(fmt.Sprintf(msg, keysAndValues...))
	}
}

// Debug logs detailed debugging information about internal pass behavior.
// Unlike Debugf, it logs msg as-is, without formatting.
func Debug(msg string) {
	if getLogger().Enabled(context.Background(), slog.LevelDebug) {
		getLogger().Debug(msg)
	}
}

// Warnf logs warnings — not errors, but likely more important than
// informational messages. This wrapper preserves backward compatibility
// by string-formatting structured log data.
func Warnf(msg string, keysAndValues ...any) {
	if getLogger().Enabled(context.Background(), slog.LevelWarn) {
		getLogger().Warn(fmt.Sprintf(msg, keysAndValues...))
	}
}

// Warn logs warnings — not errors, but likely more important than
// informational messages. Unlike Warnf, it logs msg as-is, without
// formatting.
func Warn(msg string) {
	if getLogger().Enabled(context.Background(), slog.LevelWarn) {
		getLogger().Warn(msg)
	}
}

// Fatalf logs a fatal error message and exits the program. Reserved for
// the command-line entry point's top-level recovery from structurally
// impossible states; library code never calls this.
func Fatalf(msg string, keysAndValues ...any) {
	Errorf(msg, keysAndValues...)
	os.Exit(1)
}
