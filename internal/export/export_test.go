package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"coderunner/internal/catalog"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"js":     "main.js",
		"python": "main.py",
		"c":      "main.c",
		"cpp":    "main.cpp",
		"java":   "main.java",
	}
	cat := catalog.Default()
	for id, want := range cases {
		lang, err := cat.Find(id)
		if err != nil {
			t.Fatalf("find %s: %v", id, err)
		}
		if got := FileName(lang); got != want {
			t.Fatalf("expected %q for %s, got %q", want, id, got)
		}
	}
}

func TestExportWritesExactBytes(t *testing.T) {
	dir := t.TempDir()
	lang, _ := catalog.Default().Find("cpp")
	text := "int main() {\r\n\treturn 0;  \n}\n\n"

	path, err := Exporter{Dir: dir}.Export(lang, text)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if path != filepath.Join(dir, "main.cpp") {
		t.Fatalf("unexpected path %q", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != text {
		t.Fatalf("expected exact bytes, got %q", raw)
	}

	if _, err := (Exporter{Dir: dir}).Export(lang, "x"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	raw, _ = os.ReadFile(path)
	if string(raw) != "x" {
		t.Fatalf("expected overwrite, got %q", raw)
	}
}

func TestExportCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	lang, _ := catalog.Default().Find("python")
	if _, err := (Exporter{Dir: dir}).Export(lang, ""); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "main.py")); err != nil {
		t.Fatalf("expected file: %v", err)
	}
}

func TestCopier(t *testing.T) {
	cb := &fakeClipboard{}
	if err := (Copier{Clipboard: cb}).Copy(context.Background(), "hello"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if cb.text != "hello" {
		t.Fatalf("expected clipboard text, got %q", cb.text)
	}

	cb.err = errors.New("no display")
	err := (Copier{Clipboard: cb}).Copy(context.Background(), "x")
	if err == nil || !errors.Is(err, cb.err) {
		t.Fatalf("expected wrapped clipboard error, got %v", err)
	}
}
