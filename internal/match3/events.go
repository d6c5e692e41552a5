package match3

// Event is a discrete fact about a board change. The events of one turn form
// an ordered replay log of a single transaction; a renderer keyed by tile id
// can rebuild every intermediate state from them.
type Event interface {
	event()
}

// TilesInitialized is emitted once when an engine creates its board.
type TilesInitialized struct {
	Rows  int
	Cols  int
	Tiles [][]Tile
}

func (TilesInitialized) event() {}

// TilesSwapped is emitted when a swap is committed, productive or not.
// A and B hold the tiles at their new positions.
type TilesSwapped struct {
	A Tile
	B Tile
}

func (TilesSwapped) event() {}

// TilesRemoved lists the tiles of one detection pass, as they were just
// before removal.
type TilesRemoved struct {
	Step  int
	IDs   []TileID
	Tiles []Tile
}

func (TilesRemoved) event() {}

// ColumnCompacted reports how far each remaining tile of a column fell.
type ColumnCompacted struct {
	Step   int
	Col    int
	Shifts ShiftMap
}

func (ColumnCompacted) event() {}

// TilesSpawned lists the new tiles at the top of a column, top first.
type TilesSpawned struct {
	Step  int
	Col   int
	Tiles []Tile
}

func (TilesSpawned) event() {}

// BoardStable closes every turn that reached the cascade.
type BoardStable struct {
	Steps int // cascade steps that removed tiles
}

func (BoardStable) event() {}
