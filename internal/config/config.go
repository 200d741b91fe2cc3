package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file, applies defaults and the environment
// fallback. The decoder is selected by file extension: .json, .toml,
// .yaml/.yml. Unknown extensions are treated as JSON, the documented
// default format.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// LoadOptional loads the config file if it exists. A missing or empty path
// yields a configuration built from defaults and environment variables
// alone; the config file is optional by contract.
func LoadOptional(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to access config file %s: %w", path, err)
		}
	}

	var cfg Config
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}
