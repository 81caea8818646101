// Package logging configures the process-wide slog default logger.
//
// Servers use SetDefaultStructuredLogger, which emits JSON tagged with the
// program name and version. The CLI uses SetDefaultCLILogger, which emits
// human-readable text. Both honor the LOG_LEVEL environment variable when no
// explicit level is requested.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable holding the default level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLogLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelFromEnv() slog.Level {
	return ParseLogLevel(os.Getenv(EnvLogLevel))
}

// NewStructuredLogger returns a JSON logger writing to w with name and
// version attached to every record.
func NewStructuredLogger(w io.Writer, name, version string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	return slog.New(h).With("name", name, "version", version)
}

// SetDefaultStructuredLogger installs a JSON logger on stderr as the slog default.
func SetDefaultStructuredLogger(name, version string) {
	slog.SetDefault(NewStructuredLogger(os.Stderr, name, version, levelFromEnv()))
}

// SetDefaultCLILogger installs a text logger on stderr as the slog default.
// An empty level falls back to LOG_LEVEL.
func SetDefaultCLILogger(level string) {
	lvl := levelFromEnv()
	if level != "" {
		lvl = ParseLogLevel(level)
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}
