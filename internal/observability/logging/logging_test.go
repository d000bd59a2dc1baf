package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func TestValidateAndExtractRequestID(t *testing.T) {
	valid := uuid.NewString()

	if got := ValidateAndExtractRequestID(valid); got != valid {
		t.Errorf("ValidateAndExtractRequestID(valid) = %q, want %q", got, valid)
	}

	for _, in := range []string{"", "not-a-uuid", "<script>"} {
		got := ValidateAndExtractRequestID(in)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("ValidateAndExtractRequestID(%q) = %q, not a uuid", in, got)
		}
		if got == in {
			t.Errorf("ValidateAndExtractRequestID(%q) returned input unchanged", in)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHandler_AddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{
		Service:       ServiceInfo{Name: "attendance-alerts", Version: "test"},
		Environment:   EnvDev,
		Level:         slog.LevelInfo,
		DefaultModule: Module("alerts"),
	})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithModule(ctx, Module("listener"))
	logger.InfoContext(ctx, "hello", slog.String("recipient", "parent:p1"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}

	want := map[string]string{
		"service":    "attendance-alerts",
		"version":    "test",
		"env":        "dev",
		"module":     "listener",
		"request_id": "req-1",
		"recipient":  "parent:p1",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestHandler_DefaultModule(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{
		Service:       ServiceInfo{Name: "svc"},
		Environment:   EnvDev,
		DefaultModule: Module("alerts"),
	})

	logger.With(slog.String("component", "x")).Info("hi")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["module"] != "alerts" {
		t.Errorf("module = %v, want alerts", entry["module"])
	}
	if entry["component"] != "x" {
		t.Errorf("component = %v, want x", entry["component"])
	}
}
