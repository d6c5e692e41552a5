package match3

import "fmt"

// Swapper validates move candidates and commits them to a board.
// Swaps are always committed, whether or not they produce a match.
type Swapper struct {
	board *Board
}

// NewSwapper creates a swapper for b.
func NewSwapper(b *Board) *Swapper {
	return &Swapper{board: b}
}

// Validate checks that both cells of m are on the board and occupied.
func (s *Swapper) Validate(m Move) error {
	to := m.Target()
	if !s.board.InBounds(m.From) || !s.board.InBounds(to) {
		return fmt.Errorf("%w: %v leaves the board", ErrInvalidMove, m)
	}
	if !m.From.Adjacent(to) {
		return fmt.Errorf("%w: %v is not adjacent", ErrInvalidMove, m)
	}
	if _, ok := s.board.Get(m.From); !ok {
		return fmt.Errorf("%w: no tile at %v", ErrStaleTile, m.From)
	}
	if _, ok := s.board.Get(to); !ok {
		return fmt.Errorf("%w: no tile at %v", ErrStaleTile, to)
	}
	return nil
}

// Commit swaps the cells of m. When owner is non-zero the board must still
// hold that tile at m.From.
func (s *Swapper) Commit(m Move, owner TileID) (TilesSwapped, error) {
	if err := s.Validate(m); err != nil {
		return TilesSwapped{}, err
	}
	if owner != 0 && !s.board.Owns(owner, m.From) {
		return TilesSwapped{}, fmt.Errorf("%w: tile %d is no longer at %v", ErrStaleTile, owner, m.From)
	}

	to := m.Target()
	if err := s.board.Swap(m.From, to); err != nil {
		return TilesSwapped{}, err
	}

	a, _ := s.board.Get(to)
	b, _ := s.board.Get(m.From)
	return TilesSwapped{A: a, B: b}, nil
}
