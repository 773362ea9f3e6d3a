package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrNotFound is returned by Find for ids that are not in the catalog.
var ErrNotFound = errors.New("language not found")

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_+-]{0,31}$`)

// Language describes one runnable language. Values are immutable once they
// are part of a Catalog.
type Language struct {
	ID          string
	Name        string
	Extension   string
	DefaultCode string
	Endpoint    string
	// Color is the accent used for the file label in the header.
	Color string
	// Lexer names the syntax highlighter; empty means match by extension.
	Lexer string
}

func (l Language) Validate() error {
	if !idPattern.MatchString(l.ID) {
		return fmt.Errorf("invalid language id %q", l.ID)
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("language %s: name is required", l.ID)
	}
	if strings.TrimSpace(l.Extension) == "" || strings.ContainsAny(l.Extension, "./\\") {
		return fmt.Errorf("language %s: invalid extension %q", l.ID, l.Extension)
	}
	u, err := url.Parse(l.Endpoint)
	if err != nil {
		return fmt.Errorf("language %s: endpoint: %w", l.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("language %s: endpoint must be an absolute http(s) URL, got %q", l.ID, l.Endpoint)
	}
	return nil
}

// Catalog is a read-only, ordered registry of languages built once at startup.
type Catalog struct {
	langs []Language
	index map[string]int
}

func New(langs []Language) (*Catalog, error) {
	if len(langs) == 0 {
		return nil, errors.New("catalog needs at least one language")
	}
	c := &Catalog{
		langs: make([]Language, 0, len(langs)),
		index: make(map[string]int, len(langs)),
	}
	for _, l := range langs {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[l.ID]; dup {
			return nil, fmt.Errorf("duplicate language id %q", l.ID)
		}
		c.index[l.ID] = len(c.langs)
		c.langs = append(c.langs, l)
	}
	return c, nil
}

// List returns the languages in display order.
func (c *Catalog) List() []Language {
	return append([]Language(nil), c.langs...)
}

func (c *Catalog) Find(id string) (Language, error) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.langs[i], nil
}

// First is the language selected when a session starts.
func (c *Catalog) First() Language {
	return c.langs[0]
}

// Next returns the language after id, wrapping around.
func (c *Catalog) Next(id string) Language {
	i, ok := c.index[id]
	if !ok {
		return c.langs[0]
	}
	return c.langs[(i+1)%len(c.langs)]
}

// ByExtension finds the language whose extension matches ext (with or
// without the leading dot).
func (c *Catalog) ByExtension(ext string) (Language, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, l := range c.langs {
		if strings.EqualFold(l.Extension, ext) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("%w: no language for extension %q", ErrNotFound, ext)
}

// WithEndpointBase returns a copy of the catalog whose endpoints point at
// base. Only scheme and host are replaced; paths are kept.
func (c *Catalog) WithEndpointBase(base string) (*Catalog, error) {
	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("endpoint base: %w", err)
	}
	if (b.Scheme != "http" && b.Scheme != "https") || b.Host == "" {
		return nil, fmt.Errorf("endpoint base must be an absolute http(s) URL, got %q", base)
	}
	out := make([]Language, 0, len(c.langs))
	for _, l := range c.langs {
		u, err := url.Parse(l.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("language %s: endpoint: %w", l.ID, err)
		}
		u.Scheme = b.Scheme
		u.Host = b.Host
		if p := strings.TrimSuffix(b.Path, "/"); p != "" {
			u.Path = p + u.Path
		}
		l.Endpoint = u.String()
		out = append(out, l)
	}
	return New(out)
}
