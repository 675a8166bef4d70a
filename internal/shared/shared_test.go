package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if !ValidID(id) {
		t.Errorf("generated id %q should parse as a UUID", id)
	}

	if GenerateID() == id {
		t.Error("consecutive ids should differ")
	}
}

func TestValidID(t *testing.T) {
	if ValidID("not-a-uuid") {
		t.Error("expected invalid id to be rejected")
	}
	if !ValidID("6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("expected canonical UUID to be accepted")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"name": "chill"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("compact marshal failed: %v", err)
	}
	if string(compact) != `{"name":"chill"}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("pretty marshal failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"name\"") {
		t.Errorf("expected indented output, got: %s", pretty)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Error("something broke", "code", 7)

	out := buf.String()
	if !strings.Contains(out, "something broke") {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, "code=7") {
		t.Errorf("expected key-value pair in output, got: %s", out)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "client.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	logger.Info("hello")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if !strings.Contains(string(content), "hello") {
		t.Errorf("expected log line in file, got: %s", content)
	}
}
