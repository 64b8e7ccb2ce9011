package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestCloudRunHandlerSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(&CloudRunHandler{level: slog.LevelInfo, out: &buf})

	log.With("service", "x402").Warn("settlement rejected", "status", 402, "error", errors.New("bad proof"))

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("unmarshal log line: %v (%q)", err, buf.String())
	}
	if event["severity"] != "WARNING" {
		t.Fatalf("severity = %v, want WARNING", event["severity"])
	}
	if event["message"] != "settlement rejected" {
		t.Fatalf("message = %v", event["message"])
	}
	data, ok := event["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", event["data"])
	}
	if data["service"] != "x402" || data["error"] != "bad proof" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestCloudRunHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(&CloudRunHandler{level: slog.LevelWarn, out: &buf})

	log.Info("ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be dropped, got %q", buf.String())
	}
}

func TestGetSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := getSlogLevel(in); got != want {
			t.Fatalf("getSlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
