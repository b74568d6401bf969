// Package config holds the training pipeline configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the fingerml pipeline configuration.
type Config struct {
	// InputPath is the JSONL fingerprint source, one record per line.
	InputPath string `yaml:"input_path"`
	// OutputPath is the model artifact destination. Metadata is written
	// to a sibling path with the extension replaced by .json.
	OutputPath string `yaml:"output_path"`
	// MetadataPath overrides the metadata location for statistics-update
	// runs. Empty means derive from OutputPath.
	MetadataPath string `yaml:"metadata_path"`
	// Contamination is the expected proportion of anomalies in the
	// training population, in (0, 0.5).
	Contamination float64 `yaml:"contamination"`
	// MaxSamples caps the number of input records examined.
	MaxSamples int `yaml:"max_samples"`
	// TargetDim is the fingerprint dimensionality.
	TargetDim int `yaml:"target_dim"`
	// NEstimators is the isolation forest ensemble size.
	NEstimators int `yaml:"n_estimators"`
	// Seed makes training reproducible.
	Seed int64 `yaml:"seed"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// Load reads configuration from a YAML file and applies defaults.
// Callers validate after applying any overrides.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Contamination == 0 {
		c.Contamination = 0.05
	}
	if c.MaxSamples <= 0 {
		c.MaxSamples = 50000
	}
	if c.TargetDim <= 0 {
		c.TargetDim = 96
	}
	if c.NEstimators <= 0 {
		c.NEstimators = 100
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input_path is required")
	}
	if c.OutputPath == "" && c.MetadataPath == "" {
		return fmt.Errorf("output_path is required")
	}
	if c.Contamination <= 0 || c.Contamination >= 0.5 {
		return fmt.Errorf("contamination must be in (0, 0.5), got %g", c.Contamination)
	}
	return nil
}
