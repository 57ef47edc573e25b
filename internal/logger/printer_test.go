package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestPrinter_WritesThroughLog(t *testing.T) {
	previous := Log
	t.Cleanup(func() { Log = previous })

	var buf bytes.Buffer
	Log = zerolog.New(&buf)

	NewPrinter("gorm").Printf("%s\n[%.3fms] %s", "task_repository.go:42", 1.5, "SELECT 1")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "gorm" || entry["level"] != "warn" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["message"] != "task_repository.go:42 [1.500ms] SELECT 1" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
}
