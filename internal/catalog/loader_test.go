package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMergesOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `kind: catalog
schema_version: 1
languages:
  - id: python
    endpoint: http://localhost:8000/run-python
  - id: go
    name: Go
    extension: go
    endpoint: http://localhost:8000/run-go
    default_code: |
      package main
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	langs := c.List()
	if len(langs) != 6 {
		t.Fatalf("expected 6 languages, got %d", len(langs))
	}
	if langs[5].ID != "go" {
		t.Fatalf("expected new language appended last, got %q", langs[5].ID)
	}
	py, _ := c.Find("python")
	if py.Endpoint != "http://localhost:8000/run-python" {
		t.Fatalf("expected overridden endpoint, got %q", py.Endpoint)
	}
	if py.DefaultCode == "" || py.Name != "Python" {
		t.Fatalf("expected untouched fields to keep builtin values: %+v", py)
	}
	goLang, _ := c.Find("go")
	if goLang.DefaultCode != "package main\n" {
		t.Fatalf("unexpected go default code: %q", goLang.DefaultCode)
	}
}

func TestParseRejectsUnsupportedSchemaVersion(t *testing.T) {
	if _, err := Parse([]byte("kind: catalog\nschema_version: 2\n")); err == nil {
		t.Fatalf("expected unsupported schema version error")
	}
	if _, err := Parse([]byte("kind: pack\nschema_version: 1\n")); err == nil {
		t.Fatalf("expected wrong kind error")
	}
}

func TestParseRejectsIncompleteNewLanguage(t *testing.T) {
	doc := "kind: catalog\nschema_version: 1\nlanguages:\n  - id: rust\n    name: Rust\n"
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatalf("expected error for language without extension and endpoint")
	}
}
