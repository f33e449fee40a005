// SPDX-License-Identifier: AGPL-3.0-or-later
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide base logger. Component derives scoped
// children from it for call sites that want a "component" tag.
var Logger *slog.Logger

func init() {
	SetLevel(slog.LevelInfo)
}

// SetLevel rebuilds Logger at the given level and tags every record with
// "service": "campaignd" so its JSON output is distinguishable in a log
// stream shared with other processes. Debug level also turns on source
// file:line annotations, since that's the level an operator reaches for
// when chasing a misfiring trigger.
func SetLevel(level slog.Level) {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})).With("service", "campaignd")
}

// ParseLevel maps CAMPAIGND_LOG_LEVEL's value to a slog.Level, defaulting
// to info for anything unrecognized rather than failing startup over a
// typo'd environment variable.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns a logger tagged with a "component" field, so every
// record emitted by a trigger, scheduler, or adapter can be filtered
// independently in the JSON log stream.
func Component(name string) *slog.Logger {
	return Logger.With("component", name)
}

