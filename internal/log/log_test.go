package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetOutput_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug")

	Gateway.Debug().Str("method", "name_history").Msg("rpc call")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if entry["component"] != "gateway" {
		t.Errorf("component = %v, want gateway", entry["component"])
	}
	if entry["method"] != "name_history" {
		t.Errorf("method = %v, want name_history", entry["method"])
	}
}

func TestSetOutput_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")

	Trade.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
	Trade.Warn().Msg("shown")
	if buf.Len() == 0 {
		t.Error("warn not logged at warn level")
	}
}

func TestInit_FileLifecycle(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	t.Cleanup(func() { _ = Close() })

	if err := Init("info", true, first); err != nil {
		t.Fatalf("Init: %v", err)
	}
	opened := logFile
	if opened == nil {
		t.Fatal("Init did not keep the log file")
	}
	CLI.Info().Msg("to first")

	if err := Init("info", true, second); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := opened.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Errorf("earlier log file still open: write err = %v", err)
	}
	CLI.Info().Msg("to second")

	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if logFile != nil {
		t.Error("Close left the log file set")
	}
	if err := Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to first") || strings.Contains(string(data), "to second") {
		t.Errorf("first log = %q", data)
	}
	data, err = os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to second") {
		t.Errorf("second log = %q", data)
	}
}

func TestInit_BadFileKeepsLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info")

	err := Init("info", false, filepath.Join(t.TempDir(), "missing", "x.log"))
	if err == nil {
		t.Fatal("expected error for unwritable log path")
	}
	CLI.Info().Msg("still here")
	if !strings.Contains(buf.String(), "still here") {
		t.Errorf("logger replaced after failed Init: %q", buf.String())
	}
}
