package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file, applies environment overrides and
// defaults, and validates the result.
//
// An empty path skips the file and configures from the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		// Clean the path to prevent directory traversal attacks
		data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - Config file path is trusted (from admin/user)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
