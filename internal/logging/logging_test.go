package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false", s)
		}
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true")
	}
}

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.core.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestLogger_Format(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)
	l.Info("loaded %s", "draw.lua")

	want := "2026-01-02T03:04:05.000 [INFO] test: loaded draw.lua\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "[INFO]") {
		t.Errorf("filtered levels were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] test: warn") || !strings.Contains(out, "[ERROR] test: error") {
		t.Errorf("missing warn/error lines: %q", out)
	}

	l.SetLevel(LevelDebug)
	if l.Level() != LevelDebug {
		t.Errorf("Level() = %v after SetLevel", l.Level())
	}
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)
	l.WithComponent("reload").WithFields(map[string]any{"state": "bound", "a": 1}).Info("tick")

	if !strings.HasSuffix(buf.String(), "tick {a=1, component=reload, state=bound}\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogger_DerivedSharesOutput(t *testing.T) {
	l, _ := newBufferLogger(LevelDebug)
	child := l.WithField("k", "v")

	var other bytes.Buffer
	l.SetOutput(&other)
	child.Info("hello")

	if !strings.Contains(other.String(), "hello") {
		t.Errorf("derived logger did not follow SetOutput: %q", other.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	l.WithField("a", 1).Warn("still nothing")

	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	real := New(DefaultConfig())
	if OrNop(real) != real {
		t.Error("OrNop did not return the given logger")
	}
}
