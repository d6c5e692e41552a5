package match3

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Config holds the engine configuration surface.
type Config struct {
	Rows                 int
	Cols                 int
	Palette              []Kind
	DragThreshold        float64 // distance a drag must cover to form a move
	GenerationRetryLimit int     // redraws allowed per cell at generation and refill
	MaxCascadeSteps      int     // 0 means DefaultMaxCascadeSteps
	Seed                 int64
}

// DefaultConfig returns an 8x8 board with six kinds.
func DefaultConfig() Config {
	return Config{
		Rows:                 8,
		Cols:                 8,
		Palette:              []Kind{"red", "green", "blue", "yellow", "purple", "orange"},
		DragThreshold:        1.0,
		GenerationRetryLimit: 100,
		MaxCascadeSteps:      DefaultMaxCascadeSteps,
		Seed:                 1,
	}
}

// Option customises an Engine.
type Option func(*Engine)

// WithListener registers a callback for every event, including
// TilesInitialized. Turn events reach it only after the turn has settled,
// in emission order. Calls that start a turn from inside the callback fail
// with ErrTurnInProgress.
func WithListener(fn func(Event)) Option {
	return func(e *Engine) {
		e.listener = fn
	}
}

// WithLogger sets the logger used for turn summaries.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRand overrides the RNG otherwise seeded from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// Turn is the outcome of one drag end, move or settle call.
type Turn struct {
	Move      Move
	Committed bool    // a swap was applied
	Events    []Event // replay log, in emission order
	Stats     CascadeStats
}

// Engine owns one board and is the only component that mutates it across
// turns. It is not safe for concurrent use; run one engine per session.
type Engine struct {
	cfg      Config
	board    *Board
	gesture  *Gesture
	swapper  *Swapper
	rng      *rand.Rand
	listener func(Event)
	logger   *log.Logger

	turns   int
	inTurn  bool
	pending []Event
	fatal   error
}

// New creates an engine with a freshly generated, match-free board.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e, err := newEngine(cfg, opts)
	if err != nil {
		return nil, err
	}
	b, err := Initialize(cfg.Rows, cfg.Cols, cfg.Palette, cfg.GenerationRetryLimit, e.rng)
	if err != nil {
		return nil, fmt.Errorf("initialize board: %w", err)
	}
	e.attach(b)
	return e, nil
}

// NewFromLayout creates an engine around a fixed layout. Rows and Cols are
// taken from the layout.
func NewFromLayout(cfg Config, layout [][]Kind, opts ...Option) (*Engine, error) {
	if len(layout) > 0 {
		cfg.Rows, cfg.Cols = len(layout), len(layout[0])
	}
	e, err := newEngine(cfg, opts)
	if err != nil {
		return nil, err
	}
	b, err := FromLayout(layout, cfg.Palette, cfg.GenerationRetryLimit, e.rng)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	e.attach(b)
	return e, nil
}

func newEngine(cfg Config, opts []Option) (*Engine, error) {
	if cfg.DragThreshold <= 0 {
		return nil, fmt.Errorf("%w: drag threshold must be positive, got %v", ErrInvalidConfig, cfg.DragThreshold)
	}
	e := &Engine{
		cfg:      cfg,
		listener: func(Event) {},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return e, nil
}

func (e *Engine) attach(b *Board) {
	e.board = b
	e.gesture = NewGesture(b.Rows(), b.Cols(), e.cfg.DragThreshold)
	e.swapper = NewSwapper(b)
	e.listener(TilesInitialized{Rows: b.Rows(), Cols: b.Cols(), Tiles: b.Tiles()})
	e.logger.Debug("board initialized", "rows", b.Rows(), "cols", b.Cols(), "kinds", len(b.palette))
}

// Rows returns the board height.
func (e *Engine) Rows() int {
	return e.board.Rows()
}

// Cols returns the board width.
func (e *Engine) Cols() int {
	return e.board.Cols()
}

// Palette returns the active palette.
func (e *Engine) Palette() []Kind {
	return e.board.Palette()
}

// Turns returns the number of committed swaps.
func (e *Engine) Turns() int {
	return e.turns
}

// Snapshot returns a copy of every cell, row 0 first.
func (e *Engine) Snapshot() [][]Tile {
	return e.board.Tiles()
}

// Kinds returns the board as a kind matrix.
func (e *Engine) Kinds() [][]Kind {
	return e.board.Kinds()
}

// Hints lists the swaps that would currently produce a match.
func (e *Engine) Hints() []Move {
	return FindMoves(e.board)
}

// Stable reports whether the board has no runs.
func (e *Engine) Stable() bool {
	return FindMatches(e.board).Empty()
}

// Err returns the fatal error that stopped the engine, if any.
func (e *Engine) Err() error {
	return e.fatal
}

// DragStart begins a gesture on the tile at c.
func (e *Engine) DragStart(c Coord) error {
	if e.inTurn {
		return ErrTurnInProgress
	}
	if e.fatal != nil {
		return e.fatal
	}
	t, ok := e.board.Get(c)
	if !ok {
		return fmt.Errorf("%w: no tile at %v", ErrInvalidMove, c)
	}
	return e.gesture.Start(c, t.ID)
}

// DragMove updates the gesture with the offset from the drag start.
func (e *Engine) DragMove(dx, dy float64) {
	e.gesture.Move(dx, dy)
}

// DragCancel abandons the current gesture without mutation.
func (e *Engine) DragCancel() {
	e.gesture.Cancel()
}

// Dragging returns the cell being dragged and the current candidate target.
func (e *Engine) Dragging() (from Coord, candidate Move, hasCandidate, active bool) {
	from, active = e.gesture.Origin()
	candidate, hasCandidate = e.gesture.Candidate()
	return from, candidate, hasCandidate, active
}

// DragEnd finishes the gesture. Without a candidate nothing changes and the
// returned turn is not committed; otherwise the swap is committed and the
// cascade runs to completion.
func (e *Engine) DragEnd() (Turn, error) {
	if e.inTurn {
		return Turn{}, ErrTurnInProgress
	}
	if e.fatal != nil {
		e.gesture.Cancel()
		return Turn{}, e.fatal
	}
	m, owner, ok := e.gesture.End()
	if !ok {
		return Turn{}, nil
	}
	return e.commit(m, owner)
}

// Apply commits a move directly, bypassing gesture interpretation.
func (e *Engine) Apply(m Move) (Turn, error) {
	if e.inTurn {
		return Turn{}, ErrTurnInProgress
	}
	if e.fatal != nil {
		return Turn{}, e.fatal
	}
	if e.gesture.Active() {
		return Turn{}, ErrGestureActive
	}
	return e.commit(m, 0)
}

// Settle runs the cascade on the current board. On a stable board the only
// event is BoardStable.
func (e *Engine) Settle() (Turn, error) {
	if e.inTurn {
		return Turn{}, ErrTurnInProgress
	}
	if e.fatal != nil {
		return Turn{}, e.fatal
	}
	e.begin()
	defer e.end()

	stats, err := NewResolver(e.board, e.record, e.cfg.MaxCascadeSteps).Resolve()
	turn := Turn{Events: e.deliver(), Stats: stats}
	if err != nil {
		return turn, e.fail(err)
	}
	return turn, nil
}

func (e *Engine) commit(m Move, owner TileID) (Turn, error) {
	e.begin()
	defer e.end()

	swapped, err := e.swapper.Commit(m, owner)
	if err != nil {
		if errors.Is(err, ErrStaleTile) {
			return Turn{Move: m}, e.fail(err)
		}
		return Turn{Move: m}, err
	}
	e.turns++
	e.record(swapped)

	stats, err := NewResolver(e.board, e.record, e.cfg.MaxCascadeSteps).Resolve()
	turn := Turn{Move: m, Committed: true, Events: e.deliver(), Stats: stats}
	if err != nil {
		return turn, e.fail(err)
	}

	e.logger.Debug("turn resolved",
		"turn", e.turns,
		"move", m.String(),
		"steps", stats.Steps,
		"cleared", stats.Cleared,
		"events", len(turn.Events),
	)
	return turn, nil
}

// begin opens a turn. Until end, every mutating call is refused.
func (e *Engine) begin() {
	e.inTurn = true
	e.pending = nil
}

func (e *Engine) end() {
	e.inTurn = false
}

// record buffers an event for the turn in progress.
func (e *Engine) record(ev Event) {
	e.pending = append(e.pending, ev)
}

// deliver hands the buffered events to the listener once the cascade has
// finished, so the listener only ever sees the settled board. The turn is
// still open while it runs.
func (e *Engine) deliver() []Event {
	evs := e.pending
	e.pending = nil
	for _, ev := range evs {
		e.listener(ev)
	}
	return evs
}

// fail records a fatal error; the engine refuses further turns.
func (e *Engine) fail(err error) error {
	e.fatal = err
	e.logger.Error("engine stopped", "error", err)
	return err
}
