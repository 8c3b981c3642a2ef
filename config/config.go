// Package config loads application configuration from a TOML file. It
// supplies repository defaults, expands user paths (including tilde
// expansion) and validates values before the rest of the program sees them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/fetchbites/recipecard/layout"
)

// DefaultLayoutVersion is baked into every fingerprint; bump it whenever the
// card template changes in a way that should invalidate cached renders.
const DefaultLayoutVersion = "v2"

// ShortLinks configures best-effort URL shortening for the source link.
type ShortLinks struct {
	Enabled        bool     `toml:"enabled"`
	Endpoint       string   `toml:"endpoint"`
	AllowedDomains []string `toml:"allowed_domains"`
}

// Config is the root application configuration.
type Config struct {
	PageSize       string     `toml:"page_size"`
	LayoutVersion  string     `toml:"layout_version"`
	CacheEnabled   bool       `toml:"cache_enabled"`
	CachePath      string     `toml:"cache_path"`
	OutputDir      string     `toml:"output_dir"`
	AssetsDir      string     `toml:"assets_dir"`
	LayoutOverride string     `toml:"layout_override"`
	ShortLinks     ShortLinks `toml:"short_links"`
}

// Default returns the repository defaults: letter pages, caching on under
// the user cache directory, output next to the working directory.
func Default() Config {
	return Config{
		PageSize:      string(layout.PageLetter),
		LayoutVersion: DefaultLayoutVersion,
		CacheEnabled:  true,
		CachePath:     "~/.cache/recipecard/cache.json",
		OutputDir:     "out",
		ShortLinks: ShortLinks{
			Enabled:  false,
			Endpoint: "https://is.gd/create.php",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error: the defaults are returned so the tool works with zero setup.
// Paths are expanded and the result validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	var err error
	if c.CachePath, err = expandPath(c.CachePath); err != nil {
		return fmt.Errorf("cache_path: %w", err)
	}
	if c.OutputDir, err = expandPath(c.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}
	if c.AssetsDir, err = expandPath(c.AssetsDir); err != nil {
		return fmt.Errorf("assets_dir: %w", err)
	}
	if c.LayoutOverride, err = expandPath(c.LayoutOverride); err != nil {
		return fmt.Errorf("layout_override: %w", err)
	}
	return nil
}

// Validate rejects configurations the rest of the program cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LayoutVersion) == "" {
		return errors.New("layout_version must not be empty")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.CacheEnabled && strings.TrimSpace(c.CachePath) == "" {
		return errors.New("cache_enabled requires cache_path")
	}
	if c.ShortLinks.Enabled && strings.TrimSpace(c.ShortLinks.Endpoint) == "" {
		return errors.New("short_links.enabled requires short_links.endpoint")
	}
	return nil
}

// expandPath resolves a leading ~/ against the user home directory.
func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return "", nil
	}
	if pathValue == "~" || strings.HasPrefix(pathValue, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(pathValue, "~")), nil
	}
	return pathValue, nil
}
