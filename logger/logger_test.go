package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "voicedoc-test", buf)
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-service")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-service" {
		t.Errorf("expected service 'test-service', got %q", l.Service())
	}
}

func TestComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "debug").WithComponent("recording")
	l.Info("cycle started", Fields(FieldCycleID, "abc", FieldState, "recording"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	want := map[string]string{
		"service":      "voicedoc-test",
		FieldComponent: "recording",
		FieldCycleID:   "abc",
		FieldState:     "recording",
		"message":      "cycle started",
		"level":        "info",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn entry, got %s", out)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "bogus")
	l.Debug("debug-entry")
	l.Info("info-entry")
	if strings.Contains(buf.String(), "debug-entry") {
		t.Error("debug should be filtered at fallback info level")
	}
	if !strings.Contains(buf.String(), "info-entry") {
		t.Error("info should be logged at fallback info level")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad format", Config{Format: "xml"}, true},
		{"bad output", Config{Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
