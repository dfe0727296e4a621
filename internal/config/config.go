// Package config loads scssexpand settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jasonmoo/scssexpand/internal/errors"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = ".scssexpand.yaml"

var (
	validOutputs    = []string{"json", "yaml", "markdown", "text"}
	validColors     = []string{"auto", "always", "never"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

// Config holds application configuration.
type Config struct {
	Separator    string   `yaml:"separator"`
	Output       string   `yaml:"output"`
	Color        string   `yaml:"color"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"`
	ContextLines int      `yaml:"context_lines"`
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Separator:    " ",
		Output:       "text",
		Color:        "auto",
		LogLevel:     "warn",
		LogFormat:    "text",
		ContextLines: 3,
		Include:      []string{"**/*.scss", "**/*.sass", "**/*.less", "**/*.css"},
		Exclude:      []string{"node_modules", ".git", "dist"},
	}
}

// Load reads configuration from a file. Fields missing from the file keep
// their defaults. An empty path reads DefaultFile if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"output", c.Output, validOutputs},
		{"color", c.Color, validColors},
		{"log_level", c.LogLevel, validLogLevels},
		{"log_format", c.LogFormat, validLogFormats},
	}
	for _, ch := range checks {
		if !slices.Contains(ch.valid, ch.value) {
			return errors.NewInvalidConfig(ch.field, ch.value, ch.valid)
		}
	}
	if c.ContextLines < 0 {
		return errors.NewInvalidConfig("context_lines", c.ContextLines, nil)
	}
	return nil
}
