package match3

import "math"

// Gesture turns a drag into at most one directional move candidate.
// It holds only coordinates and the grabbed tile's id, never a tile.
type Gesture struct {
	rows      int
	cols      int
	threshold float64

	active    bool
	origin    Coord
	tileID    TileID
	candidate *Move
}

// NewGesture creates an interpreter for a rows x cols board.
// threshold is the drag distance, in caller units, needed to form a move.
func NewGesture(rows, cols int, threshold float64) *Gesture {
	return &Gesture{rows: rows, cols: cols, threshold: threshold}
}

// Active reports whether a drag is being tracked.
func (g *Gesture) Active() bool {
	return g.active
}

// Origin returns the cell the active drag started on.
func (g *Gesture) Origin() (Coord, bool) {
	return g.origin, g.active
}

// Start begins tracking a drag on the tile at c.
// A second start while one is active is rejected, not re-entered.
func (g *Gesture) Start(c Coord, id TileID) error {
	if g.active {
		return ErrGestureActive
	}
	g.active = true
	g.origin = c
	g.tileID = id
	g.candidate = nil
	return nil
}

// Move recomputes the candidate from the offset (dx, dy) relative to the
// drag start. Positive dy points toward higher rows (South). The candidate
// is rebuilt on every call, so the player can change direction mid-drag or
// retreat under the threshold to cancel.
func (g *Gesture) Move(dx, dy float64) {
	if !g.active {
		return
	}
	g.candidate = nil

	if math.IsNaN(dx) || math.IsNaN(dy) {
		return
	}
	ax, ay := math.Abs(dx), math.Abs(dy)
	if math.Max(ax, ay) < g.threshold {
		return
	}

	var dir Direction
	switch {
	case ax > ay && dx > 0:
		dir = East
	case ax > ay:
		dir = West
	case dy > 0:
		dir = South
	default:
		dir = North
	}

	m := Move{From: g.origin, Dir: dir}
	t := m.Target()
	if t.Row < 0 || t.Row >= g.rows || t.Col < 0 || t.Col >= g.cols {
		return
	}
	g.candidate = &m
}

// Candidate returns the current move candidate, if any.
func (g *Gesture) Candidate() (Move, bool) {
	if g.candidate == nil {
		return Move{}, false
	}
	return *g.candidate, true
}

// End finishes the drag and returns the candidate together with the id of the
// tile grabbed at start. The interpreter is idle afterwards.
func (g *Gesture) End() (Move, TileID, bool) {
	defer g.Cancel()
	if !g.active || g.candidate == nil {
		return Move{}, 0, false
	}
	return *g.candidate, g.tileID, true
}

// Cancel drops the drag without producing a move.
func (g *Gesture) Cancel() {
	g.active = false
	g.origin = Coord{}
	g.tileID = 0
	g.candidate = nil
}
