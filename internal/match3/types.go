// Package match3 provides the grid state machine for a tile-matching puzzle.
// This package is UI-agnostic and deterministic for a given RNG seed: it
// consumes discrete gestures and moves and reports what changed as events.
package match3

import "fmt"

// Kind is an opaque palette entry. Tiles of equal kind match each other.
type Kind string

// TileID identifies a tile for its whole lifetime on a board.
// Ids are never reused once a tile is removed.
type TileID uint64

// Tile is a single piece on the board.
type Tile struct {
	ID   TileID
	Kind Kind
	Row  int
	Col  int
}

// Coord returns the tile's position.
func (t Tile) Coord() Coord {
	return Coord{Row: t.Row, Col: t.Col}
}

// Direction is one of the four swap directions.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Delta returns the (dRow, dCol) offset for one step in this direction.
// North decreases the row (toward the top of the board).
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

// Directions lists all directions in a stable order.
var Directions = [...]Direction{North, South, East, West}

// Move is a source cell plus a direction. It only lives for one turn.
type Move struct {
	From Coord
	Dir  Direction
}

// Target returns the cell the move swaps with.
func (m Move) Target() Coord {
	return m.From.Step(m.Dir)
}

// String returns a compact representation such as "(2,3)->East".
func (m Move) String() string {
	return fmt.Sprintf("%v->%v", m.From, m.Dir)
}
