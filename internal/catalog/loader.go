package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileKind               = "catalog"
	SupportedSchemaVersion = 1
)

// File is the on-disk YAML form of a catalog override.
type File struct {
	Kind          string          `yaml:"kind"`
	SchemaVersion int             `yaml:"schema_version"`
	Languages     []LanguageEntry `yaml:"languages"`
}

type LanguageEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Extension   string `yaml:"extension"`
	DefaultCode string `yaml:"default_code"`
	Endpoint    string `yaml:"endpoint"`
	Color       string `yaml:"color"`
	Lexer       string `yaml:"lexer"`
}

func (f File) Validate() error {
	if f.Kind != FileKind {
		return fmt.Errorf("kind must be %q, got %q", FileKind, f.Kind)
	}
	if f.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d", f.SchemaVersion)
	}
	seen := map[string]bool{}
	for i, e := range f.Languages {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return fmt.Errorf("languages[%d]: id is required", i)
		}
		if seen[id] {
			return fmt.Errorf("languages[%d]: duplicate id %q", i, id)
		}
		seen[id] = true
	}
	return nil
}

// LoadFile reads a YAML catalog and merges it over the built-in table.
// Entries with a known id override the built-in fields they set; unknown ids
// are appended in file order.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return New(merge(builtinLanguages(), f.Languages))
}

func merge(base []Language, entries []LanguageEntry) []Language {
	out := append([]Language(nil), base...)
	pos := make(map[string]int, len(out))
	for i, l := range out {
		pos[l.ID] = i
	}
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if i, ok := pos[id]; ok {
			out[i] = applyEntry(out[i], e)
			continue
		}
		pos[id] = len(out)
		out = append(out, applyEntry(Language{ID: id}, e))
	}
	return out
}

func applyEntry(l Language, e LanguageEntry) Language {
	if v := strings.TrimSpace(e.Name); v != "" {
		l.Name = v
	}
	if v := strings.TrimPrefix(strings.TrimSpace(e.Extension), "."); v != "" {
		l.Extension = v
	}
	if e.DefaultCode != "" {
		l.DefaultCode = e.DefaultCode
	}
	if v := strings.TrimSpace(e.Endpoint); v != "" {
		l.Endpoint = v
	}
	if v := strings.TrimSpace(e.Color); v != "" {
		l.Color = v
	}
	if v := strings.TrimSpace(e.Lexer); v != "" {
		l.Lexer = v
	}
	return l
}
