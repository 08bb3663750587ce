// Cinematch - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// restoreGlobal resets the global logger and level after a test.
func restoreGlobal(t *testing.T) {
	t.Helper()
	prev := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prev)
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer

	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("suppressed")
	Warn().Str("component", "refresh").Msg("kept")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, `"message":"kept"`) || !strings.Contains(output, `"component":"refresh"`) {
		t.Errorf("unexpected output: %s", output)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("global level = %v, want warn", zerolog.GlobalLevel())
	}
}

func TestNew_DoesNotTouchGlobal(t *testing.T) {
	restoreGlobal(t)
	var global, local bytes.Buffer
	SetLogger(NewTestLogger(&global))

	logger := New(Config{Level: "debug", Output: &local})
	logger.Debug().Msg("local")

	if !strings.Contains(local.String(), "local") {
		t.Errorf("New() logger output = %q", local.String())
	}
	if global.Len() != 0 {
		t.Errorf("global logger should be untouched, got %q", global.String())
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "console", Output: &buf})
	logger.Info().Msg("console message")

	if !strings.Contains(buf.String(), "console message") {
		t.Errorf("console output = %q", buf.String())
	}
	if strings.Contains(buf.String(), `"message"`) {
		t.Errorf("console format should not be JSON: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGlobalHelpers(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	SetLevelString("trace")

	Trace().Msg("t")
	Debug().Msg("d")
	Info().Msg("i")
	Warn().Msg("w")
	Error().Msg("e")
	Err(errors.New("boom")).Msg("with error")
	child := With().Str("k", "v").Logger()
	child.Info().Msg("child")

	output := buf.String()
	for _, want := range []string{`"level":"trace"`, `"level":"debug"`, `"level":"warn"`, `"error":"boom"`, `"k":"v"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}
