package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewFromEnvDefaults(t *testing.T) {
	l := NewFromEnv("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "my-service", &buf)
	l.WithComponent("foundation").Error("resolve failed", Fields("code", "NO_CANDIDATES"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" {
		t.Errorf("expected level error, got %v", entry["level"])
	}
	if entry[FieldComponent] != "foundation" {
		t.Errorf("expected component foundation, got %v", entry[FieldComponent])
	}
	if entry["service"] != "my-service" {
		t.Errorf("expected service my-service, got %v", entry["service"])
	}
	if entry["code"] != "NO_CANDIDATES" {
		t.Errorf("expected code field, got %v", entry["code"])
	}
	if entry["message"] != "resolve failed" {
		t.Errorf("expected message, got %v", entry["message"])
	}
}

func TestNewWithWriterLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "svc", &buf)
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info/debug to be filtered, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn entry, got %q", buf.String())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "invalid-level", Format: "json"}, "test", &buf)
	l.Info("still logged")
	if !strings.Contains(buf.String(), "still logged") {
		t.Error("expected invalid level to fall back to info")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "svc", &buf)
	l.Warn("fallback selected")
	out := buf.String()
	if !strings.Contains(out, "[WRN]") {
		t.Errorf("expected [WRN] tag, got %q", out)
	}
	if !strings.Contains(out, "fallback selected") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	// Must not panic.
	l.Error("nothing", Fields("k", "v"))
	l.WithComponent("x").WithFields(Fields("a", 1)).WithError(fmt.Errorf("e")).Info("nothing")
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.GetLogger().GetLevel().String() != "debug" {
		t.Errorf("expected debug level, got %s", l.GetLogger().GetLevel())
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	l := NewFromEnv("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	Init(&Config{ServiceName: "boot", Level: "error", Format: "json"})
	if GetGlobalLogger() == l {
		t.Error("expected Init to replace the global logger")
	}
	// Package-level helpers must not panic.
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewFromEnv("custom-component")
	Register("my-component", l)

	if got := Get("my-component"); got != l {
		t.Error("expected Get to return the registered logger")
	}
	if got := Get("unregistered-component"); got == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "save", "id", 42}, map[string]interface{}{"op": "save", "id": 42}},
		{"odd number of args", []interface{}{"op", "save", "trailing"}, map[string]interface{}{"op": "save"}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	fields := ErrorFields("resolve", fmt.Errorf("something broke"))
	if fields[FieldOperation] != "resolve" || fields[FieldError] != "something broke" {
		t.Errorf("unexpected error fields %v", fields)
	}

	fields = DurationFields("discover", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}

	merged := MergeWithError(nil, fmt.Errorf("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected error field from nil map, got %v", merged[FieldError])
	}
}
