package match3

import "fmt"

// Coord is a cell position. Row 0 is the top row; Col 0 is the left column.
type Coord struct {
	Row int
	Col int
}

// At is a convenience constructor for Coord.
func At(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns a new Coord offset by (dRow, dCol).
func (c Coord) Add(dRow, dCol int) Coord {
	return Coord{Row: c.Row + dRow, Col: c.Col + dCol}
}

// Step returns the neighbouring Coord in the given direction.
func (c Coord) Step(d Direction) Coord {
	dRow, dCol := d.Delta()
	return c.Add(dRow, dCol)
}

// Adjacent reports whether two coordinates share an edge.
func (c Coord) Adjacent(other Coord) bool {
	dr := c.Row - other.Row
	dc := c.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}
