package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Detect picks a catalog language for source. The file extension wins when
// it is known; otherwise a shebang and then content classification are
// tried, and the detected language is matched against catalog names.
func (c *Catalog) Detect(filename, source string) (Language, error) {
	if ext := filepath.Ext(filename); ext != "" {
		if l, err := c.ByExtension(ext); err == nil {
			return l, nil
		}
	}
	if strings.TrimSpace(source) == "" {
		return Language{}, fmt.Errorf("%w: cannot detect language of empty source", ErrNotFound)
	}

	content := []byte(source)
	if strings.HasPrefix(strings.TrimSpace(source), "#!") {
		if name, safe := enry.GetLanguageByShebang(content); safe {
			if l, ok := c.byName(name); ok {
				return l, nil
			}
		}
	}

	hint := filename
	if hint == "" {
		hint = "main"
	}
	for _, name := range enry.GetLanguages(hint, content) {
		if l, ok := c.byName(name); ok {
			return l, nil
		}
	}
	if l, ok := c.byName(enry.GetLanguage(hint, content)); ok {
		return l, nil
	}
	return Language{}, fmt.Errorf("%w: could not detect a supported language", ErrNotFound)
}

func (c *Catalog) byName(name string) (Language, bool) {
	if name == "" {
		return Language{}, false
	}
	for _, l := range c.langs {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}
