// Package config handles persisted CLI settings.
//
// Settings are stored at $XDG_CONFIG_HOME/skinforge/config.yaml (defaults
// to ~/.config/skinforge/config.yaml). Every field is optional; flags on
// the build command override whatever is stored here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultManifestURL is the release feed queried by the update command
// when the config does not override it.
const DefaultManifestURL = "https://releases.fmskinbuilder.com/latest.json"

// Config holds the persisted defaults for build runs and tool behaviour.
type Config struct {
	SkinPath    string `yaml:"skin-path,omitempty"`    // default skin directory for builds
	BundlesPath string `yaml:"bundles-path,omitempty"` // default game bundles directory
	DebugExport bool   `yaml:"debug-export,omitempty"`
	DryRun      bool   `yaml:"dry-run,omitempty"`
	CacheDir    string `yaml:"cache-dir,omitempty"`    // overrides the platform cache location
	ManifestURL string `yaml:"manifest-url,omitempty"` // overrides the update feed
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/skinforge/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "skinforge", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "skinforge", "config.yaml")
}

// Load reads the config file. If the file does not exist, an empty Config
// is returned (not an error).
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// UpdateManifestURL returns the configured release feed, or the default.
func (c *Config) UpdateManifestURL() string {
	if c.ManifestURL != "" {
		return c.ManifestURL
	}
	return DefaultManifestURL
}
