package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DynamicConfig represents settings that may change while the server runs
type DynamicConfig struct {
	Search SearchConfig `yaml:"search"`
}

// SearchConfig holds search tunables
type SearchConfig struct {
	MatchThreshold float64 `yaml:"matchThreshold"`
	DefaultLimit   int     `yaml:"defaultLimit"`
}

// DefaultDynamicConfig derives the dynamic settings from the static config
func DefaultDynamicConfig(cfg *Config) *DynamicConfig {
	return &DynamicConfig{
		Search: SearchConfig{
			MatchThreshold: cfg.MatchThreshold,
			DefaultLimit:   cfg.DefaultPageLimit,
		},
	}
}

// Validate checks the dynamic settings
func (d *DynamicConfig) Validate() error {
	if err := validateThreshold(d.Search.MatchThreshold); err != nil {
		return fmt.Errorf("search.matchThreshold: %w", err)
	}
	if d.Search.DefaultLimit < 1 {
		return fmt.Errorf("search.defaultLimit must be >= 1")
	}
	return nil
}

// loadDynamicFile reads a YAML file over a copy of base; keys absent from the file keep base values
func loadDynamicFile(path string, base *DynamicConfig) (*DynamicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	next := *base
	if err := yaml.Unmarshal(data, &next); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}
