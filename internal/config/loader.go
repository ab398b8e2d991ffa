package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadOrb loads the orb runner tuning.
// Search order: customPath -> ~/.orbrun/configs/orb.yaml -> ./configs/orb.yaml -> embedded default
//
// Files are decoded on top of the defaults, so a partial file only overrides
// the keys it names.
func LoadOrb(customPath string) (OrbConfig, error) {
	cfg := DefaultOrbConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("orb.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "orb.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	var embedded OrbConfig
	if err := yaml.Unmarshal(defaultOrbYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultOrbConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad reads an optional config file. Missing or broken files are skipped.
func tryLoad(path string) (OrbConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OrbConfig{}, false
	}
	cfg := DefaultOrbConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return OrbConfig{}, false
	}
	if cfg.Validate() != nil {
		return OrbConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".orbrun", "configs", filename)
}
