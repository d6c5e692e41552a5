package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFile is the file name looked up in every search location.
const configFile = "match3.yaml"

// LoadMatch3 loads the match-3 configuration.
// Search order: customPath -> ~/.tilematch/configs/match3.yaml -> ./configs/match3.yaml -> embedded default
func LoadMatch3(customPath string) (Match3Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Match3Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseMatch3(data)
		if err != nil {
			return Match3Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseMatch3(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFile)); err == nil {
		if cfg, err := parseMatch3(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseMatch3(defaultMatch3YAML)
	if err != nil {
		return DefaultMatch3Config(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseMatch3 decodes YAML on top of the hardcoded defaults, so a file may
// override only the sections it cares about.
func parseMatch3(data []byte) (Match3Config, error) {
	cfg := DefaultMatch3Config()
	cfg.Variants = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Match3Config{}, err
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = DefaultMatch3Config().Variants
	}
	if err := cfg.Validate(); err != nil {
		return Match3Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Match3Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilematch", "configs", filename)
}

// ApplyPreset adjusts move budgets and palette sizes for a difficulty.
// Unlimited variants stay unlimited.
func ApplyPreset(cfg *Match3Config, preset DifficultyPreset) {
	for i := range cfg.Variants {
		v := &cfg.Variants[i]
		switch preset {
		case DifficultyEasy:
			if v.Moves > 0 {
				v.Moves += v.Moves / 2
			}
			// One kind fewer makes matches easier to find; keep at least four.
			if len(v.Palette) > 4 {
				v.Palette = v.Palette[:len(v.Palette)-1]
			}
		case DifficultyHard:
			if v.Moves > 0 {
				v.Moves -= v.Moves / 3
			}
			v.Palette = appendMissing(v.Palette, extraKinds)
		}
	}
}

// extraKinds are added on hard difficulty when not already present.
var extraKinds = []string{"cyan", "white"}

// appendMissing appends the first kind from extra not already in palette.
func appendMissing(palette, extra []string) []string {
	have := make(map[string]bool, len(palette))
	for _, k := range palette {
		have[k] = true
	}
	for _, k := range extra {
		if !have[k] {
			out := make([]string, len(palette), len(palette)+1)
			copy(out, palette)
			return append(out, k)
		}
	}
	return palette
}
