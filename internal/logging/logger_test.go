// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package logging

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// captureMu serializes tests that swap the global logger.
var captureMu sync.Mutex

// captureLogs routes the global logger into a buffer at trace level and
// restores the previous logger and level on cleanup.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	captureMu.Lock()

	prevLogger := Logger()
	prevLevel := zerolog.GlobalLevel()

	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
		captureMu.Unlock()
	})
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

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
	if cfg.Output == nil {
		t.Error("expected default output to be set")
	}
}

func TestInit_AddsServiceField(t *testing.T) {
	captureMu.Lock()
	defer captureMu.Unlock()
	prevLogger := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	Info().Msg("gateway started")

	output := buf.String()
	for _, want := range []string{`"message":"gateway started"`, `"level":"info"`, `"service":"oceans-admin"`, `"time":`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %s, got: %s", want, output)
		}
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	captureMu.Lock()
	defer captureMu.Unlock()
	prevLogger := Logger()
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})
	Info().Msg("console line")

	output := buf.String()
	if !strings.Contains(output, "console line") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if strings.Contains(output, `"message"`) {
		t.Errorf("console output should not be JSON, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	buf := captureLogs(t)

	tests := []struct {
		name  string
		event func() *zerolog.Event
		want  string
	}{
		{"trace", Trace, `"level":"trace"`},
		{"debug", Debug, `"level":"debug"`},
		{"info", Info, `"level":"info"`},
		{"warn", Warn, `"level":"warn"`},
		{"error", Error, `"level":"error"`},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.event().Msg(tt.name + " message")
		output := buf.String()
		if !strings.Contains(output, tt.want) {
			t.Errorf("%s: expected %s, got: %s", tt.name, tt.want, output)
		}
		if !strings.Contains(output, tt.name+" message") {
			t.Errorf("%s: expected message in output, got: %s", tt.name, output)
		}
	}
}

func TestSetLevelString_FiltersLowerLevels(t *testing.T) {
	buf := captureLogs(t)

	SetLevelString("warn")
	Info().Msg("hidden")
	Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info line written at warn level: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("warn line missing at warn level: %s", output)
	}
}

func TestWith(t *testing.T) {
	buf := captureLogs(t)

	l := With().Str("component", "proxy").Logger()
	l.Info().Msg("forwarded")

	if !strings.Contains(buf.String(), `"component":"proxy"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestErr(t *testing.T) {
	buf := captureLogs(t)

	Err(errors.New("upstream refused")).Msg("login failed")

	output := buf.String()
	if !strings.Contains(output, `"error":"upstream refused"`) {
		t.Errorf("expected error field, got: %s", output)
	}
	if !strings.Contains(output, `"level":"error"`) {
		t.Errorf("expected error level, got: %s", output)
	}
}

func TestNewTestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewTestLogger(&buf)
	l.Warn().Str("k", "v").Msg("isolated")

	output := buf.String()
	if !strings.Contains(output, `"k":"v"`) || !strings.Contains(output, "isolated") {
		t.Errorf("unexpected output: %s", output)
	}
}
