package match3

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilematch/internal/config"
	m3 "github.com/vovakirdan/tilematch/internal/match3"
)

// PlayResult summarizes one headless game.
type PlayResult struct {
	Variant     string
	Seed        int64
	Score       int
	Moves       int
	Cleared     int
	BestCascade int
	Stuck       bool // ended because no swap could match
	Blind       int  // swaps played while no swap could match
}

// Autoplay plays a variant without a screen, taking a random playable swap
// every turn. When none exists it ends the game if the variant says so and
// otherwise plays a random adjacent swap. Unlimited variants stop after
// maxMoves.
func Autoplay(v config.VariantConfig, cfg config.Match3Config, seed int64, maxMoves int, logger *log.Logger) (PlayResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	res := PlayResult{Variant: v.ID, Seed: seed}

	engine, err := m3.New(cfg.EngineConfig(v, seed), m3.WithLogger(logger.With("variant", v.ID)))
	if err != nil {
		return res, err
	}

	budget := v.Moves
	if budget <= 0 {
		budget = maxMoves
	}
	// Move choice must not disturb the engine's own stream.
	picker := rand.New(rand.NewSource(seed ^ 0x5eed))

	for res.Moves < budget {
		var m m3.Move
		if hints := engine.Hints(); len(hints) > 0 {
			m = hints[picker.Intn(len(hints))]
		} else if v.EndWhenStuck {
			res.Stuck = true
			break
		} else {
			m = anySwap(picker, engine.Rows(), engine.Cols())
			res.Blind++
		}

		turn, err := engine.Apply(m)
		if err != nil {
			return res, err
		}
		res.Moves++
		res.Score += cfg.Scoring.Points(turn)
		res.Cleared += turn.Stats.Cleared
		res.BestCascade = max(res.BestCascade, turn.Stats.Steps)
	}

	return res, nil
}

// anySwap picks an adjacent swap that stays on the board.
func anySwap(rng *rand.Rand, rows, cols int) m3.Move {
	for {
		m := m3.Move{
			From: m3.At(rng.Intn(rows), rng.Intn(cols)),
			Dir:  m3.Directions[rng.Intn(len(m3.Directions))],
		}
		to := m.Target()
		if to.Row >= 0 && to.Row < rows && to.Col >= 0 && to.Col < cols {
			return m
		}
	}
}
