package match3

import (
	"fmt"
	"math/rand"
)

// Initialize creates a full board with no pre-existing runs.
//
// Cells are filled in row-major order. A sampled kind is rejected when it
// would complete a run of 3 with the two cells to its left or the two cells
// above it; later cells are unassigned and not checked. Each cell gets one
// draw plus at most retryLimit redraws before a *GenerationError is returned.
func Initialize(rows, cols int, palette []Kind, retryLimit int, rng *rand.Rand) (*Board, error) {
	b, err := newBoard(rows, cols, palette, retryLimit, rng)
	if err != nil {
		return nil, err
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := Coord{Row: row, Col: col}
			k, err := b.sample(c, b.completesRun(c))
			if err != nil {
				return nil, err
			}
			b.place(c, k)
		}
	}
	return b, nil
}

// completesRun returns a rejection predicate for the no-initial-match rule.
func (b *Board) completesRun(c Coord) func(Kind) bool {
	left1, left2 := b.kindAt(c.Add(0, -1)), b.kindAt(c.Add(0, -2))
	up1, up2 := b.kindAt(c.Add(-1, 0)), b.kindAt(c.Add(-2, 0))
	return func(k Kind) bool {
		if c.Col >= 2 && k == left1 && k == left2 {
			return true
		}
		if c.Row >= 2 && k == up1 && k == up2 {
			return true
		}
		return false
	}
}

// FromLayout builds a board from a fixed kind matrix (row 0 first).
// The layout must be rectangular, full, use only palette kinds and contain
// no runs. The RNG and retry limit are used for later refills.
func FromLayout(layout [][]Kind, palette []Kind, retryLimit int, rng *rand.Rand) (*Board, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, fmt.Errorf("%w: layout is empty", ErrInvalidConfig)
	}
	rows, cols := len(layout), len(layout[0])

	b, err := newBoard(rows, cols, palette, retryLimit, rng)
	if err != nil {
		return nil, err
	}

	inPalette := make(map[Kind]bool, len(palette))
	for _, k := range palette {
		inPalette[k] = true
	}

	for row, line := range layout {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: layout row %d has %d cells, want %d", ErrInvalidConfig, row, len(line), cols)
		}
		for col, k := range line {
			if !inPalette[k] {
				return nil, fmt.Errorf("%w: layout kind %q at (%d,%d) is not in the palette", ErrInvalidConfig, k, row, col)
			}
			b.place(Coord{Row: row, Col: col}, k)
		}
	}

	if m := FindMatches(b); !m.Empty() {
		return nil, fmt.Errorf("%w: %d tiles already matched", ErrUnstableLayout, m.Len())
	}
	return b, nil
}
