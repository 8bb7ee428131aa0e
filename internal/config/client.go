// File: internal/config/client.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/iyunix/lexbrief/internal/dtos"
	"github.com/iyunix/lexbrief/internal/ui/styles"
)

// Store backends understood by the client.
const (
	StoreSQLite = "sqlite"
	StorePebble = "pebble"
)

// ClientConfig is the terminal client configuration. Values are layered as
// defaults, then ~/.lexbrief/config.toml, then environment variables.
type ClientConfig struct {
	APIURL   string `toml:"api_url"`
	DataDir  string `toml:"data_dir"`
	Store    string `toml:"store"`
	Theme    string `toml:"theme"`
	RevealMS int    `toml:"reveal_ms"`
	TopK     int    `toml:"top_k"`
}

// DefaultClientConfig returns the built-in client defaults.
func DefaultClientConfig() *ClientConfig {
	dir, err := DataDir()
	if err != nil {
		dir = ".lexbrief"
	}
	return &ClientConfig{
		APIURL:   "http://localhost:8080",
		DataDir:  dir,
		Store:    StoreSQLite,
		Theme:    "light",
		RevealMS: 10,
		TopK:     dtos.DefaultTopK,
	}
}

// DataDir returns the default client data directory.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".lexbrief"), nil
}

// LoadClient builds the client config from defaults, the TOML file at
// path (skipped when it does not exist) and the environment.
// An empty path means <DataDir>/config.toml.
func LoadClient(path string) (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := DefaultClientConfig()
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.toml")
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies LEXBRIEF_* environment variables.
func (c *ClientConfig) ApplyEnvOverrides() {
	c.APIURL = getEnv("LEXBRIEF_API_URL", c.APIURL)
	c.DataDir = getEnv("LEXBRIEF_DATA_DIR", c.DataDir)
	c.Store = strings.ToLower(getEnv("LEXBRIEF_STORE", c.Store))
	c.Theme = strings.ToLower(getEnv("LEXBRIEF_THEME", c.Theme))
	c.RevealMS = getEnvAsInt("LEXBRIEF_REVEAL_MS", c.RevealMS)
	c.TopK = getEnvAsInt("LEXBRIEF_TOP_K", c.TopK)
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Store != StoreSQLite && c.Store != StorePebble {
		return fmt.Errorf("store must be %q or %q, got %q", StoreSQLite, StorePebble, c.Store)
	}
	if !knownTheme(c.Theme) {
		return fmt.Errorf("theme must be one of %v, got %q", styles.Names(), c.Theme)
	}
	if c.RevealMS < 0 {
		return fmt.Errorf("reveal_ms must not be negative")
	}
	if c.TopK <= 0 || c.TopK > dtos.MaxTopK {
		return fmt.Errorf("top_k must be between 1 and %d, got %d", dtos.MaxTopK, c.TopK)
	}
	return nil
}

// RevealInterval is the per-rune reveal cadence.
func (c *ClientConfig) RevealInterval() time.Duration {
	return time.Duration(c.RevealMS) * time.Millisecond
}

// LogPath is where the terminal client writes its log file.
func (c *ClientConfig) LogPath() string {
	return filepath.Join(c.DataDir, "lexbrief.log")
}

// StorePath is the on-disk location of the selected history backend.
func (c *ClientConfig) StorePath() string {
	if c.Store == StorePebble {
		return filepath.Join(c.DataDir, "history.pebble")
	}
	return filepath.Join(c.DataDir, "history.db")
}

func knownTheme(name string) bool {
	for _, t := range styles.Names() {
		if t == name {
			return true
		}
	}
	return false
}
