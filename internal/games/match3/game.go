// Package match3 adapts the tile engine to the platform's Game interface:
// input mapping, scoring, move budgets and event-driven animation.
package match3

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/core"
	m3 "github.com/vovakirdan/tilematch/internal/match3"
	"github.com/vovakirdan/tilematch/internal/registry"
)

// hintTicks is how long a hint stays highlighted.
const hintTicks = 45

// Game is one playable variant.
type Game struct {
	variant config.VariantConfig
	cfg     config.Match3Config
	logger  *log.Logger

	engine *m3.Engine
	anim   *animator
	seed   int64
	tick   uint64

	score       int
	cleared     int
	bestCascade int

	cursor  m3.Coord
	grabbed bool // keyboard grab: the next arrow swaps instead of moving
	hint    *m3.Move
	hintTTL int

	// Pointer drag in screen coordinates.
	pointerDown    bool
	pressX, pressY int

	screenW int
	screenH int

	gameOver bool
	stuck    bool // no swap can produce a match; ends the game only with EndWhenStuck
	paused   bool
	tooSmall bool
	err      error
}

// New creates a game for one variant.
func New(v config.VariantConfig, cfg config.Match3Config, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		variant: v,
		cfg:     cfg,
		logger:  logger.With("variant", v.ID),
		anim:    newAnimator(),
	}
}

// Register adds every configured variant to the registry.
func Register(cfg config.Match3Config, logger *log.Logger) {
	for _, v := range cfg.Variants {
		registry.Register(v.ID, func() registry.Game {
			return New(v, cfg, logger)
		})
	}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// Reset starts a new board.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.seed = rc.Seed
	g.tick = 0
	g.score = 0
	g.cleared = 0
	g.bestCascade = 0
	g.cursor = m3.At(0, 0)
	g.grabbed = false
	g.hint = nil
	g.hintTTL = 0
	g.pointerDown = false
	g.gameOver = false
	g.stuck = false
	g.paused = false
	g.err = nil
	g.anim = newAnimator()
	g.Resize(rc.ScreenW, rc.ScreenH)

	engine, err := m3.New(
		g.cfg.EngineConfig(g.variant, rc.Seed),
		m3.WithListener(g.anim.Observe),
		m3.WithLogger(g.logger),
	)
	if err != nil {
		g.logger.Error("cannot start board", "error", err)
		g.engine = nil
		g.err = err
		g.gameOver = true
		return
	}
	g.engine = engine
	g.checkStuck()
}

// Resize adapts the layout to a new screen size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	bw, bh := g.boardSize()
	g.tooSmall = w < max(bw, minHUDWidth) || h < bh+hudHeight+footerHeight
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall || g.engine == nil {
		return g.result()
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
		g.cancelDrag()
	}
	if g.paused {
		return g.result()
	}

	g.anim.Tick()
	if g.hintTTL > 0 {
		g.hintTTL--
		if g.hintTTL == 0 {
			g.hint = nil
		}
	}

	if g.gameOver {
		return g.result()
	}

	g.handleCursor(in)
	if !g.anim.Busy() {
		g.handlePointer(in.Pointer)
		if in.Has(core.ActionHint) {
			g.showHint()
		}
	}

	// The turn ends visually once the replay finishes.
	if !g.anim.Busy() && g.outOfMoves() {
		g.gameOver = true
		g.logger.Info("game over", "score", g.score, "moves", g.engine.Turns(), "cleared", g.cleared)
	}

	return g.result()
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Err: g.err}
}

// handleCursor moves the keyboard cursor or, while a tile is grabbed,
// swaps it in the pressed direction.
func (g *Game) handleCursor(in core.InputFrame) {
	var dir m3.Direction
	pressed := true
	switch {
	case in.Has(core.ActionUp):
		dir = m3.North
	case in.Has(core.ActionDown):
		dir = m3.South
	case in.Has(core.ActionLeft):
		dir = m3.West
	case in.Has(core.ActionRight):
		dir = m3.East
	default:
		pressed = false
	}

	if in.Has(core.ActionSelect) {
		g.grabbed = !g.grabbed
	}
	if !pressed {
		return
	}

	next := g.cursor.Step(dir)
	if next.Row < 0 || next.Row >= g.variant.Rows || next.Col < 0 || next.Col >= g.variant.Cols {
		return
	}
	if !g.grabbed {
		g.cursor = next
		return
	}
	if g.anim.Busy() {
		return
	}
	g.grabbed = false
	if g.apply(m3.Move{From: g.cursor, Dir: dir}) {
		g.cursor = next
	}
}

// handlePointer turns pointer events into engine drag calls. Offsets are
// converted to board cells so the drag threshold is resolution independent.
func (g *Game) handlePointer(events []core.PointerEvent) {
	for _, ev := range events {
		switch ev.Kind {
		case core.PointerPress:
			g.cancelDrag()
			col, row, ok := g.boardRect().Grid(ev.X, ev.Y, cellWidth, cellHeight)
			if !ok {
				continue
			}
			c := m3.At(row, col)
			if err := g.engine.DragStart(c); err != nil {
				g.logger.Debug("drag rejected", "cell", c.String(), "error", err)
				continue
			}
			g.cursor = c
			g.grabbed = false
			g.pointerDown = true
			g.pressX, g.pressY = ev.X, ev.Y

		case core.PointerMotion:
			if g.pointerDown {
				g.engine.DragMove(g.dragOffset(ev.X, ev.Y))
			}

		case core.PointerRelease:
			if !g.pointerDown {
				continue
			}
			g.engine.DragMove(g.dragOffset(ev.X, ev.Y))
			g.pointerDown = false
			turn, err := g.engine.DragEnd()
			if err != nil {
				g.fail(err)
				return
			}
			if turn.Committed {
				g.cursor = turn.Move.Target()
				g.score += g.scoreTurn(turn)
				g.afterTurn(turn)
			}
		}
	}
}

func (g *Game) dragOffset(x, y int) (dx, dy float64) {
	return float64(x-g.pressX) / cellWidth, float64(y-g.pressY) / cellHeight
}

func (g *Game) cancelDrag() {
	if g.pointerDown && g.engine != nil {
		g.engine.DragCancel()
	}
	g.pointerDown = false
}

// apply commits a keyboard move. Returns true when the swap happened.
func (g *Game) apply(m m3.Move) bool {
	turn, err := g.engine.Apply(m)
	if err != nil {
		if g.engine.Err() != nil {
			g.fail(err)
		}
		return false
	}
	g.score += g.scoreTurn(turn)
	g.afterTurn(turn)
	return true
}

func (g *Game) afterTurn(turn m3.Turn) {
	g.hint = nil
	g.hintTTL = 0
	g.cleared += turn.Stats.Cleared
	g.bestCascade = max(g.bestCascade, turn.Stats.Steps)
	g.checkStuck()
}

func (g *Game) scoreTurn(turn m3.Turn) int {
	return g.cfg.Scoring.Points(turn)
}

func (g *Game) showHint() {
	hints := g.engine.Hints()
	if len(hints) == 0 {
		return
	}
	h := hints[int(g.tick)%len(hints)]
	g.hint = &h
	g.hintTTL = hintTicks
}

func (g *Game) checkStuck() {
	g.stuck = len(g.engine.Hints()) == 0
}

func (g *Game) outOfMoves() bool {
	if g.stuck && g.variant.EndWhenStuck {
		return true
	}
	return g.variant.Moves > 0 && g.engine.Turns() >= g.variant.Moves
}

func (g *Game) fail(err error) {
	g.logger.Error("engine stopped", "error", err)
	g.err = err
	g.gameOver = true
	g.anim.Skip()
}

// movesLeft returns the remaining budget, or -1 when unlimited.
func (g *Game) movesLeft() int {
	if g.variant.Moves <= 0 {
		return -1
	}
	if g.engine == nil {
		return g.variant.Moves
	}
	return max(0, g.variant.Moves-g.engine.Turns())
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	moves := 0
	if g.engine != nil {
		moves = g.engine.Turns()
	}
	return core.GameState{
		Score:       g.score,
		Moves:       moves,
		MovesLeft:   g.movesLeft(),
		Cleared:     g.cleared,
		BestCascade: g.bestCascade,
		GameOver:    g.gameOver,
		Paused:      g.paused || g.tooSmall,
	}
}

// Seed returns the seed the current board was generated from.
func (g *Game) Seed() int64 {
	return g.seed
}
