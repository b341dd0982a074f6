// Package config holds cgtool settings loaded from a YAML or TOML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "cgtool.yaml"

// Config holds cgtool settings.
type Config struct {
	// Shorthand lists shorthand separator characters used to resolve terminal sets when checking grammars.
	Shorthand string `yaml:"shorthand" toml:"shorthand"`

	// HexWidth is the number of bytes per line in hex output.
	HexWidth int `yaml:"hex_width" toml:"hex_width"`

	// Validate makes pack and gen refuse grammars with validation errors.
	Validate bool `yaml:"validate" toml:"validate"`

	// Workers limits the number of files checked concurrently.
	Workers int `yaml:"workers" toml:"workers"`

	// Debounce is the delay between a file change and its re-check in watch mode.
	Debounce string `yaml:"debounce" toml:"debounce"`

	Gen GenConfig `yaml:"gen" toml:"gen"`
}

// GenConfig holds defaults for generated Go code.
type GenConfig struct {
	Package string `yaml:"package,omitempty" toml:"package,omitempty"`
	Var     string `yaml:"var,omitempty" toml:"var,omitempty"`
}

// DefaultConfig returns default settings.
func DefaultConfig() *Config {
	return &Config{
		Shorthand: " ",
		HexWidth:  32,
		Validate:  true,
		Workers:   4,
		Debounce:  "200ms",
	}
}

// Load loads configuration from a YAML file, or a TOML file if path ends with ".toml".
// Missing file gives defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, e := os.ReadFile(path)
		switch {
		case e == nil:
			if e := cfg.decode(path, data); e != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, e)
			}
		case !os.IsNotExist(e):
			return nil, fmt.Errorf("failed to read config: %w", e)
		}
	}

	if e := cfg.applyEnvOverrides(); e != nil {
		return nil, e
	}
	return cfg, cfg.check()
}

func (c *Config) decode(path string, data []byte) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, e := toml.Decode(string(data), c)
		return e
	}
	return yaml.Unmarshal(data, c)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	// empty shorthand is meaningful, so presence is checked
	if s, ok := os.LookupEnv("CGTOOL_SHORTHAND"); ok {
		c.Shorthand = s
	}

	if s := os.Getenv("CGTOOL_HEX_WIDTH"); s != "" {
		n, e := strconv.Atoi(s)
		if e != nil {
			return fmt.Errorf("invalid CGTOOL_HEX_WIDTH: %w", e)
		}
		c.HexWidth = n
	}

	if s := os.Getenv("CGTOOL_WORKERS"); s != "" {
		n, e := strconv.Atoi(s)
		if e != nil {
			return fmt.Errorf("invalid CGTOOL_WORKERS: %w", e)
		}
		c.Workers = n
	}
	return nil
}

func (c *Config) check() error {
	if c.HexWidth < 0 {
		return fmt.Errorf("hex_width must not be negative, got %d", c.HexWidth)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, e := time.ParseDuration(c.Debounce); e != nil {
		return fmt.Errorf("invalid debounce: %w", e)
	}
	return nil
}

// GetDebounce returns the watch debounce delay as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, e := time.ParseDuration(c.Debounce)
	if e != nil {
		return 200 * time.Millisecond
	}
	return d
}

// Save saves configuration to a YAML file, or a TOML file if path ends with ".toml".
func (c *Config) Save(path string) error {
	var data []byte
	var e error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var sb strings.Builder
		e = toml.NewEncoder(&sb).Encode(c)
		data = []byte(sb.String())
	} else {
		data, e = yaml.Marshal(c)
	}
	if e != nil {
		return fmt.Errorf("failed to marshal config: %w", e)
	}

	if e := os.WriteFile(path, data, 0644); e != nil {
		return fmt.Errorf("failed to write config: %w", e)
	}
	return nil
}
