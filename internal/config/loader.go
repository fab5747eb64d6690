package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name searched for in the config directories.
const ConfigFile = "sorting.yaml"

// Load loads the sorting configuration.
// Search order: customPath -> ~/.greensort/configs/sorting.yaml -> ./configs/sorting.yaml -> embedded default
func Load(customPath string) (SortingConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := loadFile(filepath.Join("configs", ConfigFile)); err == nil && cfg.Validate() == nil {
		return cfg, nil
	}

	return embeddedConfig(), nil
}

// embeddedConfig decodes the embedded default YAML, falling back to the
// hardcoded defaults if it cannot be parsed.
func embeddedConfig() SortingConfig {
	cfg := DefaultSortingConfig()
	if err := yaml.Unmarshal(defaultSortingYAML, &cfg); err != nil {
		return DefaultSortingConfig()
	}
	return cfg
}

// loadFile decodes a YAML file over the embedded defaults, so a partial
// file only overrides the keys it sets.
func loadFile(path string) (SortingConfig, error) {
	cfg := embeddedConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".greensort", "configs", filename)
}

// Marshal renders cfg as YAML, for `greensort config dump`.
func Marshal(cfg SortingConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
