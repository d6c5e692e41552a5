package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the hardcoded match-3 configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Engine: EngineConfig{
			RetryLimit:      100,
			MaxCascadeSteps: 1000,
			DragThreshold:   0.5,
		},
		Scoring: ScoringConfig{
			PointsPerTile: 10,
			CascadeBonus:  0.5,
		},
		Variants: []VariantConfig{
			{
				ID:      "classic",
				Title:   "Classic 8x8",
				Rows:    8,
				Cols:    8,
				Palette: []string{"red", "green", "blue", "yellow", "purple", "orange"},
				Moves:   30,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultMatch3YAML
}
