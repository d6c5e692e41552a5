// Package config provides YAML-based configuration loading and difficulty
// presets for the match-3 variants.
package config

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tilematch/internal/match3"
)

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Engine   EngineConfig    `yaml:"engine"`
	Scoring  ScoringConfig   `yaml:"scoring"`
	Variants []VariantConfig `yaml:"variants"`
}

// EngineConfig defines the tuning knobs passed to every engine.
type EngineConfig struct {
	RetryLimit      int     `yaml:"retry_limit"`       // Redraws per cell before generation fails
	MaxCascadeSteps int     `yaml:"max_cascade_steps"` // Upper bound on one cascade
	DragThreshold   float64 `yaml:"drag_threshold"`    // In board cells
}

// ScoringConfig defines how cleared tiles turn into points.
type ScoringConfig struct {
	PointsPerTile int     `yaml:"points_per_tile"`
	CascadeBonus  float64 `yaml:"cascade_bonus"` // Extra multiplier per cascade step after the first
}

// VariantConfig describes one playable board.
type VariantConfig struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Rows    int      `yaml:"rows"`
	Cols    int      `yaml:"cols"`
	Palette []string `yaml:"palette"`
	Moves   int      `yaml:"moves"` // Move budget; 0 means unlimited

	// EndWhenStuck ends the game once no swap can produce a match.
	// Otherwise play goes on: any swap is still committed.
	EndWhenStuck bool `yaml:"end_when_stuck"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// Variant returns the variant with the given id.
func (c Match3Config) Variant(id string) (VariantConfig, bool) {
	for _, v := range c.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return VariantConfig{}, false
}

// Validate checks the parts of the config the engine cannot check itself.
func (c Match3Config) Validate() error {
	if c.Engine.RetryLimit <= 0 {
		return fmt.Errorf("engine.retry_limit must be positive, got %d", c.Engine.RetryLimit)
	}
	if c.Engine.DragThreshold <= 0 {
		return fmt.Errorf("engine.drag_threshold must be positive, got %v", c.Engine.DragThreshold)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("no variants configured")
	}
	seen := make(map[string]bool, len(c.Variants))
	for i, v := range c.Variants {
		if v.ID == "" {
			return fmt.Errorf("variants[%d]: missing id", i)
		}
		if seen[v.ID] {
			return fmt.Errorf("variants[%d]: duplicate id %q", i, v.ID)
		}
		seen[v.ID] = true
		if v.Rows <= 0 || v.Cols <= 0 {
			return fmt.Errorf("variant %s: invalid size %dx%d", v.ID, v.Rows, v.Cols)
		}
		if len(v.Palette) == 0 {
			return fmt.Errorf("variant %s: empty palette", v.ID)
		}
		if v.Moves < 0 {
			return fmt.Errorf("variant %s: negative move budget", v.ID)
		}
	}
	return nil
}

// EngineConfig builds the engine configuration for a variant.
func (c Match3Config) EngineConfig(v VariantConfig, seed int64) match3.Config {
	palette := make([]match3.Kind, len(v.Palette))
	for i, k := range v.Palette {
		palette[i] = match3.Kind(k)
	}
	return match3.Config{
		Rows:                 v.Rows,
		Cols:                 v.Cols,
		Palette:              palette,
		DragThreshold:        c.Engine.DragThreshold,
		GenerationRetryLimit: c.Engine.RetryLimit,
		MaxCascadeSteps:      c.Engine.MaxCascadeSteps,
		Seed:                 seed,
	}
}

// Points awards PointsPerTile for every cleared tile, multiplied by
// (1 + CascadeBonus*(step-1)) for later cascade steps.
func (s ScoringConfig) Points(turn match3.Turn) int {
	pts := 0.0
	for _, ev := range turn.Events {
		removed, ok := ev.(match3.TilesRemoved)
		if !ok {
			continue
		}
		mult := 1 + s.CascadeBonus*float64(removed.Step-1)
		pts += float64(s.PointsPerTile*len(removed.IDs)) * mult
	}
	return int(math.Round(pts))
}
