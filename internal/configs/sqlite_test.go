package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"childcare-tasks.com/childcare-tasks/internal/logger"
)

func TestNewDatabase_LogsThroughAppLogger(t *testing.T) {
	previous := logger.Log
	t.Cleanup(func() { logger.Log = previous })

	var buf bytes.Buffer
	logger.Log = zerolog.New(&buf)

	db, err := NewDatabase("file::memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	if err := db.Exec("SELECT * FROM missing_table").Error; err == nil {
		t.Fatal("expected query against a missing table to fail")
	}

	out := buf.String()
	if !strings.Contains(out, `"component":"gorm"`) || !strings.Contains(out, "missing_table") {
		t.Errorf("expected gorm error in application log, got %q", out)
	}
}
