package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tilematch/internal/core"
)

type stubGame struct {
	id, title string
	resets    int
}

func (g *stubGame) ID() string                           { return g.id }
func (g *stubGame) Title() string                        { return g.title }
func (g *stubGame) Reset(core.RuntimeConfig)             { g.resets++ }
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)                  {}
func (g *stubGame) State() core.GameState                { return core.GameState{} }

func stub(id, title string) Factory {
	return func() Game { return &stubGame{id: id, title: title} }
}

func TestRegisterListCreate(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register("zen", stub("zen", "Zen"))
	Register("blitz", stub("blitz", "Blitz"))

	assert.Equal(t, []GameInfo{
		{ID: "blitz", Title: "Blitz"},
		{ID: "zen", Title: "Zen"},
	}, List(), "sorted by id")

	g, err := Create("zen")
	require.NoError(t, err)
	assert.Equal(t, "Zen", g.Title())

	other, err := Create("zen")
	require.NoError(t, err)
	assert.NotSame(t, g, other, "every Create returns a fresh instance")

	assert.True(t, Exists("blitz"))
	assert.False(t, Exists("classic"))
}

func TestCreateUnknown(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	_, err := Create("missing")
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	Register("classic", stub("classic", "Classic"))
	assert.Panics(t, func() {
		Register("classic", stub("classic", "Again"))
	})
}

func TestClear(t *testing.T) {
	Register("tmp", stub("tmp", "Tmp"))
	Clear()
	assert.Empty(t, List())
	assert.False(t, Exists("tmp"))
}
