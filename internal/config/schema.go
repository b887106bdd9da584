package config

import (
	"time"
)

const (
	defaultRequestTimeout = 10 * time.Minute
	defaultPollInterval   = time.Second
	defaultMaxConcurrent  = 3
)

// Config is the root configuration structure.
type Config struct {
	Version  int            `yaml:"version"`
	Planner  PlannerConfig  `yaml:"planner"`
	Runs     RunsConfig     `yaml:"runs"`
	Database DatabaseConfig `yaml:"database"`
}

// PlannerConfig holds settings for the remote network planner.
type PlannerConfig struct {
	// URL of the planner service, without trailing slash.
	URL string `yaml:"url"`
	// RequestTimeout caps one full send-and-poll cycle.
	RequestTimeout Duration `yaml:"request_timeout,omitempty"`
	// PollInterval between result checks.
	PollInterval Duration `yaml:"poll_interval,omitempty"`
}

// RunsConfig holds settings for run execution.
type RunsConfig struct {
	// MaxConcurrent bounds how many clusters are optimized at once.
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
