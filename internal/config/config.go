package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Bench   BenchConfig   `toml:"bench" yaml:"bench"`
	Physics PhysicsConfig `toml:"physics" yaml:"physics"`
	Profile ProfileConfig `toml:"profile" yaml:"profile"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type BenchConfig struct {
	Worlds           int `toml:"worlds" yaml:"worlds"`
	EntitiesPerWorld int `toml:"entities_per_world" yaml:"entities_per_world"`
	Variants         int `toml:"variants" yaml:"variants"` // blueprints derived from the root
	Depth            int `toml:"depth" yaml:"depth"`       // length of the ancestor chain of each variant
}

type PhysicsConfig struct {
	Gravity float64 `toml:"gravity" yaml:"gravity"`
	Steps   int     `toml:"steps" yaml:"steps"` // simulation steps after spawning
	StepDt  float64 `toml:"step_dt" yaml:"step_dt"`
}

type ProfileConfig struct {
	Mode string `toml:"mode" yaml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path" yaml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Load reads a toml or yaml file, depending on its extension,
// on top of the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()

	switch ext := filepath.Ext(path); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		Bench: BenchConfig{
			Worlds:           4,
			EntitiesPerWorld: 10_000,
			Variants:         8,
			Depth:            3,
		},
		Physics: PhysicsConfig{
			Gravity: -9.81,
			Steps:   60,
			StepDt:  1.0 / 60.0,
		},
		Profile: ProfileConfig{
			Path: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.Bench.Worlds < 1 {
		errs = append(errs, fmt.Errorf("bench.worlds must be at least 1, got %d", c.Bench.Worlds))
	}

	if c.Bench.EntitiesPerWorld < 0 {
		errs = append(errs, fmt.Errorf("bench.entities_per_world must not be negative, got %d", c.Bench.EntitiesPerWorld))
	}

	if c.Bench.Variants < 1 {
		errs = append(errs, fmt.Errorf("bench.variants must be at least 1, got %d", c.Bench.Variants))
	}

	if c.Bench.Depth < 1 {
		errs = append(errs, fmt.Errorf("bench.depth must be at least 1, got %d", c.Bench.Depth))
	}

	if c.Physics.Steps > 0 && c.Physics.StepDt <= 0 {
		errs = append(errs, fmt.Errorf("physics.step_dt must be positive, got %f", c.Physics.StepDt))
	}

	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("profile.mode must be one of cpu, mem, got %q", c.Profile.Mode))
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
