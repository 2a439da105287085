// Package config holds the run configuration for a collect run: defaults,
// an optional YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"repeattools/internal/filter"
	"repeattools/internal/repeat"
)

// Environment variables consulted after the YAML file.
const (
	EnvOutput = "RECOLLECTOR_OUTPUT"
	EnvDepth  = "RECOLLECTOR_DEPTH"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the full set of collect options.
type Config struct {
	Input  string `yaml:"input"`
	Names  string `yaml:"names"`
	Output string `yaml:"output"`

	Depth        string `yaml:"depth"`
	Override     bool   `yaml:"override"`
	ExcludeNonTE bool   `yaml:"exclude_non_te"`

	Length      int              `yaml:"length"`
	Chromosomes ChromosomeConfig `yaml:"chromosomes"`
	Domains     DomainConfig     `yaml:"domains"`
	Percentage  PercentageConfig `yaml:"percentage"`
	Database    string           `yaml:"database"`
	FailFast    bool             `yaml:"fail_fast"`
	Logging     LoggingConfig    `yaml:"logging"`
}

// ChromosomeConfig configures the chromosome filter. An empty File
// disables it.
type ChromosomeConfig struct {
	File    string `yaml:"file"`
	Exclude bool   `yaml:"exclude"`
}

// DomainConfig configures the domain filter.
type DomainConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// PercentageConfig configures the percentage filter. Threshold is written
// as "field=value", e.g. "div=20.0".
type PercentageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Threshold string `yaml:"threshold"`
	Mode      string `yaml:"mode"`
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
	Quiet   bool `yaml:"quiet"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Output: ".",
		Depth:  string(repeat.FieldSuperfamily),
		Percentage: PercentageConfig{
			Threshold: "div=20.0",
			Mode:      string(filter.LowerThan),
		},
	}
}

// Load reads path over the defaults and then applies environment
// overrides. An empty path yields the defaults plus the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvDepth); v != "" {
		c.Depth = v
	}
}

// Validate checks required fields and resolves every enumerated option so
// that bad values are reported before any species is processed.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: input directory is required", ErrInvalid)
	}
	if c.Names == "" {
		return fmt.Errorf("%w: names file is required", ErrInvalid)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalid)
	}
	if c.Length < 0 {
		return fmt.Errorf("%w: length must be >= 0 (got %d)", ErrInvalid, c.Length)
	}
	if c.Chromosomes.Exclude && c.Chromosomes.File == "" {
		return fmt.Errorf("%w: chromosome exclusion needs a chromosome file", ErrInvalid)
	}
	if c.Logging.Verbose && c.Logging.Quiet {
		return fmt.Errorf("%w: verbose and quiet are mutually exclusive", ErrInvalid)
	}
	if _, err := c.Categorizer(); err != nil {
		return err
	}
	if _, err := c.PercentCriteria(); err != nil {
		return err
	}
	return nil
}

// Categorizer resolves Depth and Override.
func (c *Config) Categorizer() (repeat.Categorizer, error) {
	f, err := repeat.ParseField(c.Depth)
	if err != nil {
		return repeat.Categorizer{}, err
	}
	return repeat.Categorizer{Field: f, Override: c.Override}, nil
}

// PercentCriteria resolves the percentage filter, or nil when disabled.
func (c *Config) PercentCriteria() (*filter.PercentCriteria, error) {
	if !c.Percentage.Enabled {
		return nil, nil
	}
	field, thr, err := filter.ParseThreshold(c.Percentage.Threshold)
	if err != nil {
		return nil, err
	}
	mode, err := filter.ParseMode(c.Percentage.Mode)
	if err != nil {
		return nil, err
	}
	return &filter.PercentCriteria{Field: field, Threshold: thr, Mode: mode}, nil
}
