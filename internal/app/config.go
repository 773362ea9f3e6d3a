package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config controls runtime behavior for the editor and the CLI subcommands.
type Config struct {
	DataDir      string `env:"CODERUNNER_DATA_DIR"`
	LogPath      string `env:"CODERUNNER_LOG"`
	CatalogPath  string `env:"CODERUNNER_CATALOG"`
	EndpointBase string `env:"CODERUNNER_ENDPOINT_BASE"`
	ExportDir    string `env:"CODERUNNER_EXPORT_DIR"`
	Language     string `env:"CODERUNNER_LANG"`
	Ephemeral    bool   `env:"CODERUNNER_EPHEMERAL"`
	ASCIIOnly    bool   `env:"CODERUNNER_ASCII"`
	NoMotion     bool   `env:"CODERUNNER_NO_MOTION"`
	DebugLayout  bool
	UserAgent    string
}

func DefaultConfig() Config {
	return Config{
		UserAgent: "coderunner",
	}
}

// LoadConfig returns DefaultConfig overlaid with CODERUNNER_* environment
// variables. Flags are applied by the caller afterwards.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.Language = strings.TrimSpace(c.Language)
	c.EndpointBase = strings.TrimSpace(c.EndpointBase)
	if c.EndpointBase != "" {
		u, err := url.Parse(c.EndpointBase)
		if err != nil {
			return fmt.Errorf("invalid endpoint base %q: %w", c.EndpointBase, err)
		}
		switch u.Scheme {
		case "http", "https":
		default:
			return fmt.Errorf("invalid endpoint base %q: scheme must be http or https", c.EndpointBase)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid endpoint base %q: missing host", c.EndpointBase)
		}
	}
	if c.UserAgent == "" {
		c.UserAgent = "coderunner"
	}

	if c.DataDir == "" && !c.Ephemeral {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "coderunner")
	}
	if c.ExportDir != "" {
		c.ExportDir = expandHome(c.ExportDir)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
