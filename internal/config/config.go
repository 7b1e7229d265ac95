// Package config loads the optional divrecon.yaml configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level divrecon.yaml configuration.
type Config struct {
	Tolerances TolerancesConfig `yaml:"tolerances"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// TolerancesConfig overrides the break-detection thresholds.
type TolerancesConfig struct {
	DateDays   int     `yaml:"date_days"`
	Amount     float64 `yaml:"amount"`
	FXRelative float64 `yaml:"fx_relative"`
}

// ClassifierConfig controls the break enrichment gateway.
type ClassifierConfig struct {
	Model    string `yaml:"model"`
	MaxCalls int    `yaml:"max_calls"`
}

// Default returns the standard configuration: 1 day, 0.01 units, 1% relative
// FX tolerance, and a 100-call classification budget.
func Default() *Config {
	return &Config{
		Tolerances: TolerancesConfig{
			DateDays:   1,
			Amount:     0.01,
			FXRelative: 0.01,
		},
		Classifier: ClassifierConfig{
			Model:    "gemini-2.0-flash",
			MaxCalls: 100,
		},
	}
}

// Load reads a divrecon.yaml file from disk. An empty path yields the
// defaults; a missing file is an error only when a path was given.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
