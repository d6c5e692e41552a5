package match3

import (
	m3 "github.com/vovakirdan/tilematch/internal/match3"
)

// Animation durations in ticks (~30fps).
const (
	swapTicks  = 5
	clearTicks = 8
	fallTicks  = 7
)

type phaseKind int

const (
	phaseSwap phaseKind = iota + 1
	phaseClear
	phaseFall
)

// sprite is the presentation of one tile, keyed by tile id. Row and Col are
// where the tile rests once the current phase completes.
type sprite struct {
	Kind     m3.Kind
	Row, Col int

	fromRow, fromCol float64
	moving           bool
	flashing         bool
}

// position returns the drawn position at progress t in [0, 1].
func (s *sprite) position(t float64) (row, col float64) {
	if !s.moving {
		return float64(s.Row), float64(s.Col)
	}
	t = easeOutQuad(t)
	row = s.fromRow + (float64(s.Row)-s.fromRow)*t
	col = s.fromCol + (float64(s.Col)-s.fromCol)*t
	return row, col
}

// phase is one visual step built from engine events.
type phase struct {
	kind    phaseKind
	step    int
	swapped []m3.Tile         // phaseSwap: tiles at their new cells
	removed []m3.TileID       // phaseClear
	shifts  map[m3.TileID]int // phaseFall: rows moved down
	spawned map[int][]m3.Tile // phaseFall: new tiles per column
}

func (p *phase) duration() int {
	switch p.kind {
	case phaseSwap:
		return swapTicks
	case phaseClear:
		return clearTicks
	default:
		return fallTicks
	}
}

// animator replays engine events tick by tick. It never reads the board:
// everything it draws comes from the event stream.
type animator struct {
	sprites map[m3.TileID]*sprite
	queue   []*phase
	current *phase
	ticks   int
}

func newAnimator() *animator {
	return &animator{sprites: make(map[m3.TileID]*sprite)}
}

// Busy reports whether a phase is playing or queued.
func (a *animator) Busy() bool {
	return a.current != nil || len(a.queue) > 0
}

// Progress returns how far the current phase has played, in [0, 1].
func (a *animator) Progress() float64 {
	if a.current == nil {
		return 1
	}
	return float64(a.ticks) / float64(a.current.duration())
}

// Observe consumes one engine event.
func (a *animator) Observe(ev m3.Event) {
	switch ev := ev.(type) {
	case m3.TilesInitialized:
		a.sprites = make(map[m3.TileID]*sprite, ev.Rows*ev.Cols)
		a.queue = nil
		a.current = nil
		for _, row := range ev.Tiles {
			for _, t := range row {
				if t.ID == 0 {
					continue
				}
				a.sprites[t.ID] = &sprite{Kind: t.Kind, Row: t.Row, Col: t.Col}
			}
		}
	case m3.TilesSwapped:
		a.queue = append(a.queue, &phase{kind: phaseSwap, swapped: []m3.Tile{ev.A, ev.B}})
	case m3.TilesRemoved:
		a.queue = append(a.queue, &phase{kind: phaseClear, step: ev.Step, removed: ev.IDs})
	case m3.ColumnCompacted:
		p := a.fallPhase(ev.Step)
		for id, n := range ev.Shifts {
			if n > 0 {
				p.shifts[id] = n
			}
		}
	case m3.TilesSpawned:
		p := a.fallPhase(ev.Step)
		p.spawned[ev.Col] = append(p.spawned[ev.Col], ev.Tiles...)
	}
}

// fallPhase returns the queued fall phase for step, creating it if needed.
func (a *animator) fallPhase(step int) *phase {
	if n := len(a.queue); n > 0 {
		last := a.queue[n-1]
		if last.kind == phaseFall && last.step == step {
			return last
		}
	}
	p := &phase{
		kind:    phaseFall,
		step:    step,
		shifts:  make(map[m3.TileID]int),
		spawned: make(map[int][]m3.Tile),
	}
	a.queue = append(a.queue, p)
	return p
}

// Tick advances the animation by one tick.
func (a *animator) Tick() {
	if a.current == nil {
		if len(a.queue) == 0 {
			return
		}
		a.begin(a.queue[0])
		a.queue = a.queue[1:]
	}
	a.ticks++
	if a.ticks >= a.current.duration() {
		a.finish()
	}
}

// Skip plays every queued phase to completion at once.
func (a *animator) Skip() {
	for a.Busy() {
		if a.current == nil {
			a.begin(a.queue[0])
			a.queue = a.queue[1:]
		}
		a.finish()
	}
}

func (a *animator) begin(p *phase) {
	a.current = p
	a.ticks = 0

	switch p.kind {
	case phaseSwap:
		for _, t := range p.swapped {
			s, ok := a.sprites[t.ID]
			if !ok {
				continue
			}
			s.fromRow, s.fromCol = float64(s.Row), float64(s.Col)
			s.Row, s.Col = t.Row, t.Col
			s.moving = true
		}
	case phaseClear:
		for _, id := range p.removed {
			if s, ok := a.sprites[id]; ok {
				s.flashing = true
			}
		}
	case phaseFall:
		for id, n := range p.shifts {
			s, ok := a.sprites[id]
			if !ok {
				continue
			}
			s.fromRow, s.fromCol = float64(s.Row), float64(s.Col)
			s.Row += n
			s.moving = true
		}
		// New tiles drop in from above the board.
		for _, tiles := range p.spawned {
			above := float64(len(tiles))
			for _, t := range tiles {
				a.sprites[t.ID] = &sprite{
					Kind:    t.Kind,
					Row:     t.Row,
					Col:     t.Col,
					fromRow: float64(t.Row) - above,
					fromCol: float64(t.Col),
					moving:  true,
				}
			}
		}
	}
}

func (a *animator) finish() {
	p := a.current
	switch p.kind {
	case phaseClear:
		for _, id := range p.removed {
			delete(a.sprites, id)
		}
	default:
		for _, s := range a.sprites {
			s.moving = false
		}
	}
	a.current = nil
	a.ticks = 0
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
