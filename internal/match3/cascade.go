package match3

import "fmt"

// DefaultMaxCascadeSteps bounds a single cascade.
const DefaultMaxCascadeSteps = 1000

// CascadeStats summarises one resolver run.
type CascadeStats struct {
	Steps   int // iterations that removed tiles
	Cleared int // tiles removed across all steps
	Spawned int // tiles created across all steps
}

// Resolver drives detect -> remove -> compact -> spawn until the board is
// stable. It runs to completion before returning.
type Resolver struct {
	board    *Board
	emit     func(Event)
	maxSteps int
}

// NewResolver creates a resolver for b. emit may be nil.
func NewResolver(b *Board, emit func(Event), maxSteps int) *Resolver {
	if emit == nil {
		emit = func(Event) {}
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxCascadeSteps
	}
	return &Resolver{board: b, emit: emit, maxSteps: maxSteps}
}

// Resolve runs the cascade. On an already stable board it only emits
// BoardStable.
func (r *Resolver) Resolve() (CascadeStats, error) {
	var stats CascadeStats

	for {
		matches := FindMatches(r.board)
		if matches.Empty() {
			r.emit(BoardStable{Steps: stats.Steps})
			return stats, nil
		}
		if stats.Steps >= r.maxSteps {
			return stats, fmt.Errorf("%w: %d steps", ErrCascadeLimit, stats.Steps)
		}
		stats.Steps++

		spawned, err := r.step(stats.Steps, matches)
		stats.Cleared += matches.Len()
		stats.Spawned += spawned
		if err != nil {
			return stats, err
		}
	}
}

// step removes one match set and refills the affected columns.
func (r *Resolver) step(n int, matches MatchSet) (int, error) {
	removed := make([]Tile, 0, matches.Len())
	lost := make(map[int]int)
	for _, c := range matches.Cells {
		t, ok := r.board.RemoveAt(c)
		if !ok {
			continue
		}
		removed = append(removed, t)
		lost[c.Col]++
	}
	r.emit(TilesRemoved{Step: n, IDs: matches.IDs, Tiles: removed})

	spawned := 0
	for col := 0; col < r.board.cols; col++ {
		if lost[col] == 0 {
			continue
		}
		shifts := r.board.CompactColumn(col)
		r.emit(ColumnCompacted{Step: n, Col: col, Shifts: shifts})

		tiles, err := r.board.Spawn(col, r.board.EmptyInColumn(col))
		if err != nil {
			return spawned, fmt.Errorf("refill column %d: %w", col, err)
		}
		spawned += len(tiles)
		r.emit(TilesSpawned{Step: n, Col: col, Tiles: tiles})
	}
	return spawned, nil
}
