package jsonutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncodePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePretty(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.json")
	if err := WriteFile(path, []string{"x"}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[\n  \"x\"\n]\n" {
		t.Fatalf("got %q", b)
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "no", "dir.json"), 1); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
