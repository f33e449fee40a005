// SPDX-License-Identifier: AGPL-3.0-or-later
package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug lowercase", "debug", slog.LevelDebug},
		{"debug uppercase", "DEBUG", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown defaults to info", "bogus", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
		{"padded", "  debug  ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestComponent_TagsLoggerWithComponentField(t *testing.T) {
	SetLevel(slog.LevelInfo)
	sub := Component("trigger.datetime")
	assert.NotNil(t, sub)
	assert.NotSame(t, Logger, sub)

	var buf bytes.Buffer
	Logger = slog.New(slog.NewJSONHandler(&buf, nil))
	defer SetLevel(slog.LevelInfo)
	Component("trigger.datetime").Info("probe")
	assert.Contains(t, buf.String(), `"component":"trigger.datetime"`)
}
