package match3

import "sort"

// MinRun is the shortest line of equal kinds that counts as a match.
const MinRun = 3

// Run is a maximal horizontal or vertical line of equal kinds.
type Run struct {
	Kind       Kind
	Start      Coord // leftmost or topmost cell
	Length     int
	Horizontal bool
}

// Cells returns the coordinates covered by the run.
func (r Run) Cells() []Coord {
	cells := make([]Coord, r.Length)
	for i := range cells {
		if r.Horizontal {
			cells[i] = r.Start.Add(0, i)
		} else {
			cells[i] = r.Start.Add(i, 0)
		}
	}
	return cells
}

// MatchSet is the result of one detection pass. A tile on both a horizontal
// and a vertical run is listed once.
type MatchSet struct {
	IDs   []TileID // ascending
	Cells []Coord  // row-major
	Runs  []Run    // horizontal runs first, then vertical
}

// Len returns the number of distinct matched tiles.
func (m MatchSet) Len() int {
	return len(m.IDs)
}

// Empty reports whether the board was stable.
func (m MatchSet) Empty() bool {
	return len(m.IDs) == 0
}

// Contains reports whether a tile id is part of the set.
func (m MatchSet) Contains(id TileID) bool {
	i := sort.Search(len(m.IDs), func(i int) bool { return m.IDs[i] >= id })
	return i < len(m.IDs) && m.IDs[i] == id
}

// FindRuns scans every row, then every column, for maximal runs of at least
// MinRun equal kinds. Empty cells never match.
func FindRuns(b *Board) []Run {
	var runs []Run

	for row := 0; row < b.rows; row++ {
		start := 0
		for col := 1; col <= b.cols; col++ {
			if col < b.cols && b.kindAt(At(row, col)) == b.kindAt(At(row, start)) {
				continue
			}
			if k := b.kindAt(At(row, start)); k != "" && col-start >= MinRun {
				runs = append(runs, Run{Kind: k, Start: At(row, start), Length: col - start, Horizontal: true})
			}
			start = col
		}
	}

	for col := 0; col < b.cols; col++ {
		start := 0
		for row := 1; row <= b.rows; row++ {
			if row < b.rows && b.kindAt(At(row, col)) == b.kindAt(At(start, col)) {
				continue
			}
			if k := b.kindAt(At(start, col)); k != "" && row-start >= MinRun {
				runs = append(runs, Run{Kind: k, Start: At(start, col), Length: row - start})
			}
			start = row
		}
	}

	return runs
}

// FindMatches collects every tile participating in a run.
// It depends only on the board contents and does not mutate them.
func FindMatches(b *Board) MatchSet {
	runs := FindRuns(b)
	if len(runs) == 0 {
		return MatchSet{}
	}

	marked := make([]bool, len(b.cells))
	for _, r := range runs {
		for _, c := range r.Cells() {
			marked[b.index(c)] = true
		}
	}

	set := MatchSet{Runs: runs}
	for i, hit := range marked {
		if !hit {
			continue
		}
		t := b.cells[i]
		set.Cells = append(set.Cells, t.Coord())
		set.IDs = append(set.IDs, t.ID)
	}
	sort.Slice(set.IDs, func(i, j int) bool { return set.IDs[i] < set.IDs[j] })
	return set
}

// FindMoves lists every swap that would produce at least one run.
// Each pair of cells is reported once, from its upper or left cell.
func FindMoves(b *Board) []Move {
	scratch := b.clone()
	var moves []Move

	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			from := At(row, col)
			for _, d := range [...]Direction{East, South} {
				to := from.Step(d)
				if !scratch.InBounds(to) || scratch.kindAt(from) == scratch.kindAt(to) {
					continue
				}
				if err := scratch.Swap(from, to); err != nil {
					continue
				}
				if scratch.matchesAround(from) || scratch.matchesAround(to) {
					moves = append(moves, Move{From: from, Dir: d})
				}
				//nolint:errcheck // Swapping back the same pair cannot fail
				scratch.Swap(from, to)
			}
		}
	}
	return moves
}

// matchesAround reports whether the cell at c is part of a run.
func (b *Board) matchesAround(c Coord) bool {
	k := b.kindAt(c)
	if k == "" {
		return false
	}
	count := func(dRow, dCol int) int {
		n := 0
		for p := c.Add(dRow, dCol); b.kindAt(p) == k; p = p.Add(dRow, dCol) {
			n++
		}
		return n
	}
	if 1+count(0, -1)+count(0, 1) >= MinRun {
		return true
	}
	return 1+count(-1, 0)+count(1, 0) >= MinRun
}
