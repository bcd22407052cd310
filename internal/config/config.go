// Package config loads the CLI's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type Config struct {
	DataDir       string `yaml:"dataDir"`
	DefaultBase   string `yaml:"defaultBase"` // base32z, base32 or base64
	LogLevel      string `yaml:"logLevel"`
	MinimumFreeGB int    `yaml:"minimumFreeGB"`
}

// Load reads the config file at path. A missing file is not an error;
// defaults are used for every unset field.
func Load(path string) (Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	if config.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("could not determine home directory: %w", err)
		}
		config.DataDir = filepath.Join(home, ".sigil", "data")
	}
	if config.DefaultBase == "" {
		config.DefaultBase = "base32z"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.MinimumFreeGB == 0 {
		config.MinimumFreeGB = 1
	}

	return config, nil
}
