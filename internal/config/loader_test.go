package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tilematch/internal/match3"
)

// isolate points HOME and the working directory at empty temp dirs so the
// search order only sees what the test writes.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const smallYAML = `
engine:
  retry_limit: 7
  drag_threshold: 0.8
variants:
  - id: tiny
    title: Tiny
    rows: 3
    cols: 3
    palette: [a, b, c]
    moves: 5
`

func TestLoadMatch3EmbeddedDefault(t *testing.T) {
	isolate(t)

	cfg, err := LoadMatch3("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	v, ok := cfg.Variant("classic")
	require.True(t, ok)
	assert.Equal(t, 8, v.Rows)
	assert.Len(t, v.Palette, 6)
	assert.Equal(t, 10, cfg.Scoring.PointsPerTile)
	assert.Len(t, cfg.Variants, 4)
}

func TestLoadMatch3CustomPath(t *testing.T) {
	_, work := isolate(t)
	path := filepath.Join(work, "custom.yaml")
	writeFile(t, path, smallYAML)

	cfg, err := LoadMatch3(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Engine.RetryLimit)
	assert.Equal(t, 0.8, cfg.Engine.DragThreshold)
	assert.Equal(t, 1000, cfg.Engine.MaxCascadeSteps, "unset fields keep defaults")
	assert.Equal(t, 10, cfg.Scoring.PointsPerTile)
	require.Len(t, cfg.Variants, 1)
	assert.Equal(t, "tiny", cfg.Variants[0].ID)
}

func TestLoadMatch3CustomPathErrors(t *testing.T) {
	_, work := isolate(t)

	_, err := LoadMatch3(filepath.Join(work, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(work, "bad.yaml")
	writeFile(t, bad, "engine: [not, a, map]")
	_, err = LoadMatch3(bad)
	assert.Error(t, err)

	invalid := filepath.Join(work, "invalid.yaml")
	writeFile(t, invalid, "engine:\n  drag_threshold: -1\n")
	_, err = LoadMatch3(invalid)
	assert.ErrorContains(t, err, "drag_threshold")
}

func TestLoadMatch3SearchOrder(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(work, "configs", "match3.yaml"), `
variants:
  - {id: local, title: Local, rows: 4, cols: 4, palette: [a, b, c, d]}
`)
	cfg, err := LoadMatch3("")
	require.NoError(t, err)
	_, ok := cfg.Variant("local")
	assert.True(t, ok, "local configs dir beats the embedded default")

	writeFile(t, filepath.Join(home, ".tilematch", "configs", "match3.yaml"), `
variants:
  - {id: user, title: User, rows: 5, cols: 5, palette: [a, b, c, d]}
`)
	cfg, err = LoadMatch3("")
	require.NoError(t, err)
	_, ok = cfg.Variant("user")
	assert.True(t, ok, "user dir beats the local configs dir")
}

func TestLoadMatch3SkipsBrokenUserFile(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".tilematch", "configs", "match3.yaml"), "::: nope")

	cfg, err := LoadMatch3("")
	require.NoError(t, err)
	_, ok := cfg.Variant("classic")
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Match3Config)
	}{
		{"retry limit", func(c *Match3Config) { c.Engine.RetryLimit = 0 }},
		{"threshold", func(c *Match3Config) { c.Engine.DragThreshold = 0 }},
		{"no variants", func(c *Match3Config) { c.Variants = nil }},
		{"missing id", func(c *Match3Config) { c.Variants[0].ID = "" }},
		{"duplicate id", func(c *Match3Config) { c.Variants = append(c.Variants, c.Variants[0]) }},
		{"size", func(c *Match3Config) { c.Variants[0].Rows = 0 }},
		{"palette", func(c *Match3Config) { c.Variants[0].Palette = nil }},
		{"moves", func(c *Match3Config) { c.Variants[0].Moves = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatch3Config()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultMatch3Config().Validate())
}

func TestApplyPreset(t *testing.T) {
	easy := DefaultMatch3Config()
	ApplyPreset(&easy, DifficultyEasy)
	assert.Equal(t, 45, easy.Variants[0].Moves)
	assert.Len(t, easy.Variants[0].Palette, 5)

	hard := DefaultMatch3Config()
	ApplyPreset(&hard, DifficultyHard)
	assert.Equal(t, 20, hard.Variants[0].Moves)
	assert.Equal(t, "cyan", hard.Variants[0].Palette[6])

	normal := DefaultMatch3Config()
	ApplyPreset(&normal, DifficultyNormal)
	assert.Equal(t, DefaultMatch3Config(), normal)

	unlimited := DefaultMatch3Config()
	unlimited.Variants[0].Moves = 0
	ApplyPreset(&unlimited, DifficultyHard)
	assert.Zero(t, unlimited.Variants[0].Moves)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)

	p, err = ParsePreset("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, p)

	_, err = ParsePreset("nightmare")
	assert.Error(t, err)
}

func TestEngineConfig(t *testing.T) {
	cfg := DefaultMatch3Config()
	ec := cfg.EngineConfig(cfg.Variants[0], 99)

	assert.Equal(t, 8, ec.Rows)
	assert.Equal(t, int64(99), ec.Seed)
	assert.Equal(t, cfg.Engine.DragThreshold, ec.DragThreshold)
	require.Len(t, ec.Palette, 6)
	assert.EqualValues(t, "red", ec.Palette[0])
}

func TestScoringPoints(t *testing.T) {
	sc := ScoringConfig{PointsPerTile: 10, CascadeBonus: 0.25}
	turn := match3.Turn{Events: []match3.Event{
		match3.TilesRemoved{Step: 1, IDs: []match3.TileID{1, 2, 3}},
		match3.TilesRemoved{Step: 3, IDs: []match3.TileID{4, 5, 6, 7}},
		match3.BoardStable{Steps: 3},
	}}

	// 30 + 40*1.5
	assert.Equal(t, 90, sc.Points(turn))
	assert.Zero(t, sc.Points(match3.Turn{}))
}
