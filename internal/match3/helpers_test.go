package match3

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// layout converts rows of single-letter kinds into a kind matrix.
func layout(rows ...string) [][]Kind {
	out := make([][]Kind, len(rows))
	for i, r := range rows {
		out[i] = make([]Kind, len(r))
		for j, ch := range r {
			out[i][j] = Kind(string(ch))
		}
	}
	return out
}

// kindsAsStrings is the inverse of layout; empty cells become '.'.
func kindsAsStrings(kinds [][]Kind) []string {
	out := make([]string, len(kinds))
	for i, row := range kinds {
		var s []byte
		for _, k := range row {
			if k == "" {
				s = append(s, '.')
				continue
			}
			s = append(s, k[0])
		}
		out[i] = string(s)
	}
	return out
}

var paletteABC = []Kind{"A", "B", "C"}

var paletteABCD = []Kind{"A", "B", "C", "D"}

// scriptedSource feeds rand.Rand a fixed sequence of palette indexes.
// For power-of-two palettes Intn(n) returns the scripted value.
type scriptedSource struct {
	seq []int64
	i   int
}

func (s *scriptedSource) Int63() int64 {
	v := s.seq[s.i%len(s.seq)]
	s.i++
	return v << 32
}

func (s *scriptedSource) Seed(int64) {}

func scripted(indexes ...int64) *rand.Rand {
	return rand.New(&scriptedSource{seq: indexes})
}

func testConfig(palette []Kind) Config {
	cfg := DefaultConfig()
	cfg.Palette = palette
	return cfg
}

// requireNoGaps asserts that no empty cell lies below an occupied cell.
func requireNoGaps(t *testing.T, b *Board) {
	t.Helper()
	for col := 0; col < b.Cols(); col++ {
		seenTile := false
		for row := 0; row < b.Rows(); row++ {
			_, ok := b.Get(At(row, col))
			if ok {
				seenTile = true
				continue
			}
			require.False(t, seenTile, "empty cell (%d,%d) below an occupied cell", row, col)
		}
	}
}
