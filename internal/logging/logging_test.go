package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: "text", Output: &buf})
	l.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: "json", Output: &buf})
	l.Info("hello", "key", "value")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %q: %v", buf.String(), err)
	}
	if decoded["key"] != "value" {
		t.Fatalf("expected key=value, got %v", decoded["key"])
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "warn", Format: "text", Output: &buf})
	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("info line leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("expected warn line in output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWithComponentAndWithPath(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Level: "info", Format: "json", Output: &buf})
	l := WithPath(WithComponent(base, "tailer"), "/var/log/auth.log")
	l.Info("opened")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["component"] != "tailer" || decoded["path"] != "/var/log/auth.log" {
		t.Fatalf("missing fields in %v", decoded)
	}
}

func TestContextWithLoggerAndFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: "text", Output: &buf})
	ctx := ContextWithLogger(context.Background(), l)

	got := FromContext(ctx)
	got.Info("via context")
	if !strings.Contains(buf.String(), "via context") {
		t.Fatalf("expected logger from context to be used")
	}
}

func TestFromContext_Default(t *testing.T) {
	got := FromContext(context.Background())
	if got == nil {
		t.Fatal("expected a non-nil default logger")
	}
}

func TestSetDefault(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Format: "text", Output: &buf})
	SetDefault(l)
	defer SetDefault(slog.Default())

	Info("through package func")
	if !strings.Contains(buf.String(), "through package func") {
		t.Fatalf("expected SetDefault to redirect package-level Info")
	}
}
