// Package export moves buffer text out of the editor: to the clipboard or to
// a main.<ext> file.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"coderunner/internal/catalog"
	"coderunner/internal/telemetry"
)

// FileName is the download name for lang, e.g. main.py.
func FileName(lang catalog.Language) string {
	return "main." + lang.Extension
}

// Exporter writes buffers under Dir. An empty Dir resolves to DefaultDir.
type Exporter struct {
	Dir    string
	Logger *telemetry.Logger
}

// DefaultDir is ~/Downloads when it exists, else the working directory.
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dl := filepath.Join(home, "Downloads")
		if fi, err := os.Stat(dl); err == nil && fi.IsDir() {
			return dl
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Export writes text byte for byte to Dir/main.<ext>, replacing any existing
// file, and returns the written path.
func (e Exporter) Export(lang catalog.Language, text string) (string, error) {
	if lang.Extension == "" {
		return "", errors.New("language has no file extension")
	}
	dir := e.Dir
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(lang))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		e.Logger.Error("export.write_failed", map[string]any{"path": path, "error": err.Error()})
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	e.Logger.Info("export.written", map[string]any{"path": path, "lang": lang.ID, "bytes": len(text)})
	return path, nil
}
