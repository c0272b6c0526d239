// Package config handles the optional org-linter configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is returned when a config file parses but holds values
// the linter cannot use.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultExtension is the document suffix used when none is configured.
const DefaultExtension = ".org"

// Config represents the org-linter configuration.
type Config struct {
	// Extension is the suffix of documents to scan.
	Extension string `toml:"extension"`

	// Exclude lists doublestar patterns, relative to each scanned root,
	// for paths to skip.
	Exclude []string `toml:"exclude"`

	// Workers bounds how many documents are parsed at once.
	// Zero means one per CPU.
	Workers int `toml:"workers"`

	// Features selects the report sections.
	Features Features `toml:"features"`
}

// Features toggles report sections.
type Features struct {
	DuplicateIDs bool `toml:"duplicate_ids"`
	TagsSummary  bool `toml:"tags_summary"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Extension: DefaultExtension}
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path. Unlike Load, a
// missing file is an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate fills an empty extension with the default and rejects values
// that decode cleanly but cannot be used.
func (c *Config) Validate() error {
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if !strings.HasPrefix(c.Extension, ".") || strings.ContainsAny(c.Extension, `/\`) {
		return fmt.Errorf("%w: extension %q must start with a dot and name no directory", ErrInvalidConfig, c.Extension)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// WorkerCount resolves Workers, substituting the CPU count for zero.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/org-linter/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "org-linter", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/org-linter/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "org-linter", "config.toml"), nil
}
