// Package config provides configuration loading for idscheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config represents the complete idscheck configuration
type Config struct {
	// Lang is a BCP 47 tag selecting the report language (default: en)
	Lang string `yaml:"lang"`
	// Format is the report format: text, json or yaml
	Format string `yaml:"format"`
	// MaxEntities caps checked entities per specification (0 = all)
	MaxEntities int `yaml:"maxEntities"`
	// OmitPassing drops passing entities from the report
	OmitPassing bool `yaml:"omitPassing"`
	// Concurrency is the number of specifications evaluated in parallel
	Concurrency int `yaml:"concurrency"`
	// MetricsFile receives Prometheus metrics in text format when set
	MetricsFile string `yaml:"metricsFile"`

	Log LogConfig `yaml:"log"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// Formats lists the accepted report formats.
var Formats = []string{"text", "json", "yaml"}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lang:        "en",
		Format:      "text",
		MaxEntities: 0,
		Concurrency: 1,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("format must be one of %v, got %q", Formats, c.Format)
	}
	if c.MaxEntities < 0 {
		return fmt.Errorf("maxEntities must not be negative")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file. Unset keys keep their
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Lang != "" {
		c.Lang = other.Lang
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.MaxEntities != 0 {
		c.MaxEntities = other.MaxEntities
	}
	if other.OmitPassing {
		c.OmitPassing = true
	}
	if other.Concurrency != 0 {
		c.Concurrency = other.Concurrency
	}
	if other.MetricsFile != "" {
		c.MetricsFile = other.MetricsFile
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}
