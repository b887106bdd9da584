// Package config provides configuration management for gridbridge.
//
// Config file locations (priority order):
//  1. $GRIDBRIDGE_CONFIG
//  2. ./gridbridge.yaml
//  3. $XDG_CONFIG_HOME/gridbridge/config.yaml
//  4. ~/.config/gridbridge/config.yaml
//  5. /etc/gridbridge/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the path the config was loaded from, empty
// when defaults were used.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
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
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path.
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

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Planner.URL == "" {
		c.Planner.URL = "http://localhost:8008"
	}
	if c.Planner.RequestTimeout == 0 {
		c.Planner.RequestTimeout = Duration(defaultRequestTimeout)
	}
	if c.Planner.PollInterval == 0 {
		c.Planner.PollInterval = Duration(defaultPollInterval)
	}
	if c.Runs.MaxConcurrent == 0 {
		c.Runs.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Database.Path == "" {
		c.Database.Path = "./gridbridge.db"
	}
}

func (c *Config) validate() error {
	if c.Planner.RequestTimeout < 0 {
		return fmt.Errorf("planner.request_timeout must not be negative")
	}
	if c.Planner.PollInterval < 0 {
		return fmt.Errorf("planner.poll_interval must not be negative")
	}
	if c.Runs.MaxConcurrent < 0 {
		return fmt.Errorf("runs.max_concurrent must not be negative")
	}
	return nil
}
