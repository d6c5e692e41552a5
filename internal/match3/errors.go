package match3

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailure means resampling a kind exceeded the retry limit.
	// It is a configuration problem, typically a palette too small for the grid.
	ErrGenerationFailure = errors.New("match3: generation failure")

	// ErrInvalidConfig is returned for non-positive dimensions, an empty or
	// duplicated palette, or a non-positive retry limit or threshold.
	ErrInvalidConfig = errors.New("match3: invalid config")

	// ErrStaleTile means a swap referenced a tile the board no longer owns.
	// Reaching it indicates a caller bypassing the engine.
	ErrStaleTile = errors.New("match3: stale tile reference")

	// ErrGestureActive is returned when a drag starts while another is tracked.
	ErrGestureActive = errors.New("match3: gesture already active")

	// ErrInvalidMove is returned for moves whose cells are off the board or
	// not adjacent.
	ErrInvalidMove = errors.New("match3: invalid move")

	// ErrCascadeLimit is returned when a cascade exceeds its step bound.
	ErrCascadeLimit = errors.New("match3: cascade step limit exceeded")

	// ErrUnstableLayout is returned when a fixed layout already contains a run.
	ErrUnstableLayout = errors.New("match3: layout contains a match")

	// ErrTurnInProgress is returned when a listener tries to start a turn
	// while the engine is still delivering the current one.
	ErrTurnInProgress = errors.New("match3: turn in progress")
)

// GenerationError reports where generation or refill gave up.
type GenerationError struct {
	Row      int
	Col      int
	Attempts int
	Palette  int // palette size
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("match3: generation failure at (%d,%d) after %d attempts with %d kinds",
		e.Row, e.Col, e.Attempts, e.Palette)
}

// Is makes errors.Is(err, ErrGenerationFailure) hold.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailure
}
