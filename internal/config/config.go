// Package config provides configuration management for portflow.
//
// The config file carries bench conventions (reference depression,
// blend policy, velocity targets) so that a shop's standards apply
// uniformly to every analysis without per-invocation flags.
//
// Config file locations (priority order):
//  1. $PORTFLOW_CONFIG
//  2. ./portflow.yaml
//  3. ~/.config/portflow/config.yaml
//  4. /etc/portflow/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Archive: ArchiveConfig{Path: "./portflow.db"},
		Watch:   WatchConfig{Debounce: Duration(500 * time.Millisecond)},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Archive.Path == "" {
		c.Archive.Path = "./portflow.db"
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(500 * time.Millisecond)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// validate rejects enum values the analysis core would not recognize.
func (c *Config) validate() error {
	switch c.Analysis.Blend {
	case "", "smoothmin", "logistic":
	default:
		return fmt.Errorf("unknown blend policy %q", c.Analysis.Blend)
	}
	switch c.Analysis.ARef {
	case "", "throat", "curtain", "eff":
	default:
		return fmt.Errorf("unknown reference area mode %q", c.Analysis.ARef)
	}
	switch c.Analysis.QHead {
	case "", "max", "mean_top_third":
	default:
		return fmt.Errorf("unknown q_head strategy %q", c.Analysis.QHead)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	opts := c.FlowOptions()
	return fmt.Sprintf("Reference: %g inH2O, Blend: %s, ARef: %s, QHead: %s\nArchive: %s, Debounce: %s",
		opts.DPRefInH2O, opts.Blend, opts.ARef, opts.QHead,
		c.Archive.Path, c.Watch.Debounce.Duration())
}
