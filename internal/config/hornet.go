// Package config loads the hornet configuration file: solver tuning
// overrides, the step budget, and the optional result archive.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hornet/internal/chc"
)

// Config holds all hornet configuration.
type Config struct {
	// Solver tuning. Defaults are the fixed parameters counterexample
	// extraction depends on; override with care.
	Solver chc.Config `yaml:"solver"`

	// Archive configures the SQLite query-result archive.
	Archive ArchiveConfig `yaml:"archive"`

	// Logging configures CLI logging.
	Logging LoggingConfig `yaml:"logging"`
}

// ArchiveConfig configures result persistence.
type ArchiveConfig struct {
	// Path of the SQLite database. Empty disables archiving.
	Path string `yaml:"path"`
}

// LoggingConfig configures CLI logging.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{Solver: chc.DefaultConfig()}
}

// Load reads a YAML configuration file over the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
