package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	l := NewLogger("TEST")
	var buf bytes.Buffer
	l.Base().SetOutput(&buf)

	l.Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug message written at INFO level: %q", buf.String())
	}

	l.Info("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("expected info message, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "component=TEST") {
		t.Errorf("expected component field, got %q", buf.String())
	}

	buf.Reset()
	child := l.WithPrefix("child")
	l.SetLevel(LevelTrace)
	child.Trace("traced")
	if !strings.Contains(buf.String(), "component=child") {
		t.Errorf("child logger did not follow parent level: %q", buf.String())
	}
	if child.Level() != LevelTrace {
		t.Errorf("expected child level TRACE, got %v", child.Level())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
		ok    bool
	}{
		{"ERROR", LevelError, true},
		{"debug", LevelDebug, true},
		{"Trace", LevelTrace, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.name)
			if ok != tt.ok || level != tt.level {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.name, level, ok, tt.level, tt.ok)
			}
		})
	}
}
