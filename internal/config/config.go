// Package config holds all imaginarium configuration, loaded from an
// imaginarium.yaml file with environment-variable overrides for the solver
// knobs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all imaginarium configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Definitions configures the ontology sources.
	Definitions DefinitionsConfig `yaml:"definitions"`

	// Solver configures the SAT bridge.
	Solver SolverConfig `yaml:"solver"`

	// Archive configures invention persistence.
	Archive ArchiveConfig `yaml:"archive"`

	// Logging configures categorized file logging.
	Logging LoggingConfig `yaml:"logging"`
}

// DefinitionsConfig locates the .gen definition files and list sources.
type DefinitionsConfig struct {
	Dir string `yaml:"dir"`
}

// SolverConfig tunes the solve loop.
type SolverConfig struct {
	Retries int    `yaml:"retries"`
	Timeout string `yaml:"timeout"`
}

// ParsedTimeout returns the solve timeout as a duration.
func (s SolverConfig) ParsedTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// ArchiveConfig locates the invention database.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode bool            `yaml:"debug_mode"`
	Level     string          `yaml:"level"` // debug, info, warn, error
	Dir       string          `yaml:"dir"`
	Disabled  map[string]bool `yaml:"disabled_categories"`
}

// Default returns the standing configuration.
func Default() *Config {
	return &Config{
		Name:    "imaginarium",
		Version: "0.1.0",
		Definitions: DefinitionsConfig{
			Dir: "definitions",
		},
		Solver: SolverConfig{
			Retries: 4,
			Timeout: "5s",
		},
		Archive: ArchiveConfig{
			Path: "inventions.db",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
	}
}

// Load reads path when it exists, layering the file over the defaults and
// the environment over the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers IMAG_* environment overrides over the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("IMAG_SOLVER_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Solver.Retries = n
		}
	}
	if v := os.Getenv("IMAG_SOLVER_TIMEOUT"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			c.Solver.Timeout = v
		}
	}
	if v := os.Getenv("IMAG_DEFINITIONS_DIR"); v != "" {
		c.Definitions.Dir = v
	}
	if v := os.Getenv("IMAG_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}
