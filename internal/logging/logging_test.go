package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("snapshot loaded", "tasks", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "snapshot loaded" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "WARN", Format: "text"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn to be logged, got %q", out)
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "bad level", opts: Options{Level: "loud", Format: "text"}},
		{name: "bad format", opts: Options{Level: "info", Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&bytes.Buffer{}, tt.opts); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestStandard(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(&buf, Options{Level: "info"})

	Standard(logger).Print("GET /api/tasks 200")

	if !strings.Contains(buf.String(), "GET /api/tasks 200") {
		t.Errorf("expected standard logger output, got %q", buf.String())
	}
}
