package match3

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateAnimating   GameStateType = "animating"
	StatePaused      GameStateType = "paused"
	StateNoMoves     GameStateType = "no_moves"
	StateGameOver    GameStateType = "game_over"
	StateError       GameStateType = "error"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick        uint64
	Variant     string
	Seed        int64
	Score       int
	Moves       int
	MovesLeft   int
	Cleared     int
	BestCascade int
	Cursor      [2]int   // row, col
	Board       []string // one string per row, one letter per tile
	State       GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.err != nil:
		state = StateError
	case g.gameOver && g.stuck:
		state = StateNoMoves
	case g.gameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.anim.Busy():
		state = StateAnimating
	}

	st := g.State()
	return Snapshot{
		Tick:        g.tick,
		Variant:     g.variant.ID,
		Seed:        g.seed,
		Score:       g.score,
		Moves:       st.Moves,
		MovesLeft:   st.MovesLeft,
		Cleared:     g.cleared,
		BestCascade: g.bestCascade,
		Cursor:      [2]int{g.cursor.Row, g.cursor.Col},
		Board:       g.boardLetters(),
		State:       state,
	}
}

// boardLetters renders the engine board as letters, 'a' being the first
// palette kind. Empty cells are '.'.
func (g *Game) boardLetters() []string {
	if g.engine == nil {
		return nil
	}
	kinds := g.engine.Kinds()
	out := make([]string, len(kinds))
	for r, row := range kinds {
		line := make([]byte, len(row))
		for c, k := range row {
			line[c] = '.'
			for i, name := range g.variant.Palette {
				if string(k) == name {
					line[c] = byte('a' + i)
					break
				}
			}
		}
		out[r] = string(line)
	}
	return out
}
