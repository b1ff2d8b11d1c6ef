package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the flat plank configuration.
type Config struct {
	Version         string        `yaml:"version"`
	Author          string        `yaml:"author,omitempty"`
	Namespace       string        `yaml:"namespace,omitempty"`        // default feature namespace
	EnforcementMode string        `yaml:"enforcement_mode,omitempty"` // strict, warn, or auto
	LockWaitTimeout time.Duration `yaml:"lock_wait_timeout,omitempty"`
	LogLevel        string        `yaml:"log_level,omitempty"`
	DatabasePath    string        `yaml:"database_path,omitempty"` // override, default ~/.plank/plank.db
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version:         "1",
		EnforcementMode: "warn",
		LockWaitTimeout: 5 * time.Second,
		LogLevel:        "info",
	}
}

// Load reads .plank/config.yaml from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ".plank", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads the config, falling back to defaults when the file
// is missing.
func LoadOrDefault(dir string) *Config {
	cfg, err := Load(dir)
	if err != nil {
		return Default()
	}
	return cfg
}

// Save writes config.yaml to the directory.
func Save(dir string, cfg *Config) error {
	plankDir := filepath.Join(dir, ".plank")
	if err := os.MkdirAll(plankDir, 0755); err != nil {
		return fmt.Errorf("failed to create .plank dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(plankDir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
