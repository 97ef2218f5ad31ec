// Package config loads runner defaults from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings a run falls back to when a flag is not given.
type Config struct {
	// Entry overrides the program's entry function.
	Entry string `yaml:"entry,omitempty"`

	// Parallel is the number of concurrent invocations of the entry
	// function. Defaults to 1.
	Parallel int `yaml:"parallel,omitempty"`

	// MaxSteps caps loop iterations per invocation; 0 means unlimited.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Timeout abandons invocations still running after this long (e.g. "5s").
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Dump prints the entry function's top frame after each invocation.
	Dump bool `yaml:"dump,omitempty"`

	NoColor bool `yaml:"no_color,omitempty"`

	// JSONLog is a file invocation records are appended to as JSON lines.
	JSONLog string `yaml:"json_log,omitempty"`

	// Journal also sends invocation records to the systemd journal.
	Journal bool `yaml:"journal,omitempty"`

	// Args are passed to the entry function, parsed by its parameter types.
	Args []string `yaml:"args,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses config content. The path argument is used only for error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if c.Parallel < 0 {
		return fmt.Errorf("%s: parallel must not be negative, got %d", path, c.Parallel)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%s: max_steps must not be negative, got %d", path, c.MaxSteps)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%s: timeout must not be negative, got %s", path, c.Timeout)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Parallel == 0 {
		c.Parallel = 1
	}
}
