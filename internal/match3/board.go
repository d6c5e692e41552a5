package match3

import (
	"fmt"
	"math/rand"
)

// ShiftMap records how many rows each remaining tile of a column fell during
// compaction. Tiles that stayed put map to 0.
type ShiftMap map[TileID]int

// Board is a rows x cols matrix of optional tiles.
// Cells are stored in row-major order: index = row*cols + col.
// The board exclusively owns its tiles; accessors hand out copies.
type Board struct {
	rows       int
	cols       int
	palette    []Kind
	cells      []*Tile
	nextID     TileID
	retryLimit int
	rng        *rand.Rand
}

// newBoard allocates an empty board after validating its configuration.
func newBoard(rows, cols int, palette []Kind, retryLimit int, rng *rand.Rand) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfig, rows, cols)
	}
	if retryLimit <= 0 {
		return nil, fmt.Errorf("%w: retry limit must be positive, got %d", ErrInvalidConfig, retryLimit)
	}
	if err := validatePalette(palette); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	p := make([]Kind, len(palette))
	copy(p, palette)

	return &Board{
		rows:       rows,
		cols:       cols,
		palette:    p,
		cells:      make([]*Tile, rows*cols),
		nextID:     1,
		retryLimit: retryLimit,
		rng:        rng,
	}, nil
}

// validatePalette rejects empty palettes and duplicate kinds.
func validatePalette(palette []Kind) error {
	if len(palette) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalidConfig)
	}
	seen := make(map[Kind]bool, len(palette))
	for _, k := range palette {
		if k == "" {
			return fmt.Errorf("%w: palette contains an empty kind", ErrInvalidConfig)
		}
		if seen[k] {
			return fmt.Errorf("%w: palette kind %q listed twice", ErrInvalidConfig, k)
		}
		seen[k] = true
	}
	return nil
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *Board) Cols() int {
	return b.cols
}

// Palette returns a copy of the active palette.
func (b *Board) Palette() []Kind {
	p := make([]Kind, len(b.palette))
	copy(p, b.palette)
	return p
}

func (b *Board) index(c Coord) int {
	return c.Row*b.cols + c.Col
}

// InBounds returns true if the coordinate is within the board.
func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Col >= 0 && c.Col < b.cols
}

// Get returns a copy of the tile at c.
// The second result is false for empty or out-of-bounds cells.
func (b *Board) Get(c Coord) (Tile, bool) {
	if !b.InBounds(c) {
		return Tile{}, false
	}
	t := b.cells[b.index(c)]
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

// kindAt returns the kind at c, or "" for empty and out-of-bounds cells.
func (b *Board) kindAt(c Coord) Kind {
	if !b.InBounds(c) {
		return ""
	}
	t := b.cells[b.index(c)]
	if t == nil {
		return ""
	}
	return t.Kind
}

// Owns reports whether the tile with the given id sits at c.
func (b *Board) Owns(id TileID, c Coord) bool {
	t, ok := b.Get(c)
	return ok && t.ID == id
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	n := 0
	for _, t := range b.cells {
		if t != nil {
			n++
		}
	}
	return n
}

// Full reports whether every cell holds a tile.
func (b *Board) Full() bool {
	return b.Occupied() == len(b.cells)
}

// place creates a new tile at c with the given kind.
func (b *Board) place(c Coord, k Kind) Tile {
	t := &Tile{ID: b.nextID, Kind: k, Row: c.Row, Col: c.Col}
	b.nextID++
	b.cells[b.index(c)] = t
	return *t
}

// Swap exchanges the tiles at a and b, updating both matrix slots and the
// tiles' own positions. Both cells must be on the board and occupied.
func (b *Board) Swap(a, c Coord) error {
	if !b.InBounds(a) || !b.InBounds(c) {
		return fmt.Errorf("%w: swap %v<->%v is off the board", ErrInvalidMove, a, c)
	}
	ia, ic := b.index(a), b.index(c)
	ta, tc := b.cells[ia], b.cells[ic]
	if ta == nil || tc == nil {
		return fmt.Errorf("%w: swap %v<->%v touches an empty cell", ErrStaleTile, a, c)
	}

	b.cells[ia], b.cells[ic] = tc, ta
	ta.Row, ta.Col = c.Row, c.Col
	tc.Row, tc.Col = a.Row, a.Col
	return nil
}

// RemoveAt clears the cell at c and retires its tile.
// Returns the removed tile, or false if the cell was already empty.
func (b *Board) RemoveAt(c Coord) (Tile, bool) {
	if !b.InBounds(c) {
		return Tile{}, false
	}
	i := b.index(c)
	t := b.cells[i]
	if t == nil {
		return Tile{}, false
	}
	b.cells[i] = nil
	return *t, true
}

// CompactColumn slides the column's tiles toward the highest row index,
// preserving their order, and reports how far each remaining tile fell.
func (b *Board) CompactColumn(col int) ShiftMap {
	shifts := make(ShiftMap)
	if col < 0 || col >= b.cols {
		return shifts
	}

	empty := 0
	for row := b.rows - 1; row >= 0; row-- {
		from := Coord{Row: row, Col: col}
		t := b.cells[b.index(from)]
		if t == nil {
			empty++
			continue
		}
		shifts[t.ID] = empty
		if empty == 0 {
			continue
		}
		to := Coord{Row: row + empty, Col: col}
		b.cells[b.index(to)] = t
		b.cells[b.index(from)] = nil
		t.Row = to.Row
	}
	return shifts
}

// EmptyInColumn returns the number of empty cells in a column.
func (b *Board) EmptyInColumn(col int) int {
	n := 0
	for row := 0; row < b.rows; row++ {
		if b.cells[b.index(Coord{Row: row, Col: col})] == nil {
			n++
		}
	}
	return n
}

// Spawn creates count new tiles in rows 0..count-1 of col, top to bottom.
// No two adjacent tiles of the batch share a kind; tiles already below the
// batch are not considered. Those cells must be empty.
func (b *Board) Spawn(col, count int) ([]Tile, error) {
	if col < 0 || col >= b.cols || count < 0 || count > b.rows {
		return nil, fmt.Errorf("%w: cannot spawn %d tiles into column %d", ErrInvalidMove, count, col)
	}
	for row := 0; row < count; row++ {
		if b.cells[b.index(Coord{Row: row, Col: col})] != nil {
			return nil, fmt.Errorf("%w: spawn target (%d,%d) is occupied", ErrStaleTile, row, col)
		}
	}

	spawned := make([]Tile, 0, count)
	var prev Kind
	for row := 0; row < count; row++ {
		c := Coord{Row: row, Col: col}
		k, err := b.sample(c, func(k Kind) bool {
			return row > 0 && k == prev
		})
		if err != nil {
			return spawned, err
		}
		spawned = append(spawned, b.place(c, k))
		prev = k
	}
	return spawned, nil
}

// sample draws kinds uniformly until reject returns false.
// One draw plus at most retryLimit redraws are allowed.
func (b *Board) sample(c Coord, reject func(Kind) bool) (Kind, error) {
	attempts := 0
	for attempts <= b.retryLimit {
		attempts++
		k := b.palette[b.rng.Intn(len(b.palette))]
		if !reject(k) {
			return k, nil
		}
	}
	return "", &GenerationError{Row: c.Row, Col: c.Col, Attempts: attempts, Palette: len(b.palette)}
}

// Kinds returns the board as a matrix of kinds; empty cells are "".
func (b *Board) Kinds() [][]Kind {
	out := make([][]Kind, b.rows)
	for row := range out {
		out[row] = make([]Kind, b.cols)
		for col := range out[row] {
			out[row][col] = b.kindAt(Coord{Row: row, Col: col})
		}
	}
	return out
}

// Tiles returns a copy of every cell; empty cells have a zero ID.
func (b *Board) Tiles() [][]Tile {
	out := make([][]Tile, b.rows)
	for row := range out {
		out[row] = make([]Tile, b.cols)
		for col := range out[row] {
			if t := b.cells[b.index(Coord{Row: row, Col: col})]; t != nil {
				out[row][col] = *t
			}
		}
	}
	return out
}

// clone returns a deep copy sharing no tiles with b. The copy draws from a
// fixed-seed RNG so probing it never advances b's random stream.
func (b *Board) clone() *Board {
	nb := &Board{
		rows:       b.rows,
		cols:       b.cols,
		palette:    b.palette,
		cells:      make([]*Tile, len(b.cells)),
		nextID:     b.nextID,
		retryLimit: b.retryLimit,
		rng:        rand.New(rand.NewSource(1)),
	}
	for i, t := range b.cells {
		if t != nil {
			tc := *t
			nb.cells[i] = &tc
		}
	}
	return nb
}
