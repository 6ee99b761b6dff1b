// Package config reads the optional YAML run-configuration file. Values left
// unset stay zero; the CLI layer resolves zeros to its defaults, and explicit
// flags always win over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML file accepted by --config.
type Config struct {
	Tasks      string `yaml:"tasks"`
	Iterations int    `yaml:"iterations"`
	Seed       int64  `yaml:"seed"`
	Workers    int    `yaml:"workers"`
	Format     string `yaml:"format"` // "text" or "json"
}

// Load reads and parses a config file.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Format != "" && cfg.Format != "text" && cfg.Format != "json" {
		return cfg, fmt.Errorf("config %s: unknown format %q (want text or json)", path, cfg.Format)
	}
	if cfg.Iterations < 0 {
		return cfg, fmt.Errorf("config %s: iterations must not be negative", path)
	}
	return cfg, nil
}
