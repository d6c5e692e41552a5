package match3

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/core"
	m3 "github.com/vovakirdan/tilematch/internal/match3"
	"github.com/vovakirdan/tilematch/internal/registry"
)

func newTestGame(t *testing.T, moves int, seed int64) *Game {
	t.Helper()
	cfg := config.DefaultMatch3Config()
	v := cfg.Variants[0]
	v.Moves = moves
	g := New(v, cfg, nil)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: seed})
	if g.err != nil {
		t.Fatalf("Reset failed: %v", g.err)
	}
	return g
}

func step(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

// drain ticks until the replay finishes.
func drain(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if !g.anim.Busy() {
			return
		}
		step(g)
	}
	t.Fatal("animation did not finish")
}

// requireSpritesMatchBoard checks that the replayed sprites agree with the
// engine board tile for tile.
func requireSpritesMatchBoard(t *testing.T, g *Game) {
	t.Helper()
	tiles := g.engine.Snapshot()
	count := 0
	for _, row := range tiles {
		for _, tile := range row {
			s, ok := g.anim.sprites[tile.ID]
			if !ok {
				t.Fatalf("no sprite for tile %d at (%d,%d)", tile.ID, tile.Row, tile.Col)
			}
			if s.Row != tile.Row || s.Col != tile.Col || s.Kind != tile.Kind {
				t.Fatalf("sprite %d = %+v, board has %+v", tile.ID, *s, tile)
			}
			count++
		}
	}
	if len(g.anim.sprites) != count {
		t.Fatalf("%d sprites for %d tiles", len(g.anim.sprites), count)
	}
}

func TestDeterminism(t *testing.T) {
	g1 := newTestGame(t, 0, 12345)
	g2 := newTestGame(t, 0, 12345)

	script := map[int][]core.Action{
		3:   {core.ActionSelect},
		4:   {core.ActionRight},
		100: {core.ActionDown},
		101: {core.ActionSelect},
		102: {core.ActionDown},
		200: {core.ActionHint},
	}
	for i := 0; i < 250; i++ {
		step(g1, script[i]...)
		step(g2, script[i]...)
	}

	s1, s2 := g1.Snapshot(), g2.Snapshot()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if s1.Moves != 2 {
		t.Errorf("Moves = %d, want 2", s1.Moves)
	}
}

func TestKeyboardSwapUsesBudget(t *testing.T) {
	g := newTestGame(t, 2, 7)

	step(g, core.ActionSelect)
	step(g, core.ActionRight)
	if got := g.State().MovesLeft; got != 1 {
		t.Fatalf("MovesLeft = %d, want 1", got)
	}
	if g.cursor != m3.At(0, 1) {
		t.Errorf("cursor should follow the swapped tile, got %v", g.cursor)
	}
	drain(t, g)
	requireSpritesMatchBoard(t, g)

	step(g, core.ActionSelect)
	step(g, core.ActionDown)
	drain(t, g)
	step(g)

	st := g.State()
	if !st.GameOver {
		t.Fatal("game should end when the move budget is spent")
	}
	if st.MovesLeft != 0 || st.Moves != 2 {
		t.Errorf("Moves/MovesLeft = %d/%d, want 2/0", st.Moves, st.MovesLeft)
	}
	if g.Snapshot().State != StateGameOver && g.Snapshot().State != StateNoMoves {
		t.Errorf("Snapshot state = %s", g.Snapshot().State)
	}
}

// tinyVariant is too small for any run, so the board is always stuck.
func tinyVariant(endWhenStuck bool) config.VariantConfig {
	return config.VariantConfig{
		ID:           "tiny",
		Title:        "Tiny",
		Rows:         2,
		Cols:         2,
		Palette:      []string{"red", "green", "blue", "yellow"},
		Moves:        5,
		EndWhenStuck: endWhenStuck,
	}
}

func TestStuckBoardKeepsPlaying(t *testing.T) {
	g := New(tinyVariant(false), config.DefaultMatch3Config(), nil)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1})

	step(g)
	if !g.stuck {
		t.Fatal("a 2x2 board has no matching swap")
	}
	if g.State().GameOver {
		t.Fatal("a stuck board must not end the game by default")
	}

	step(g, core.ActionSelect)
	step(g, core.ActionRight)
	drain(t, g)
	step(g)
	if got := g.State().Moves; got != 1 {
		t.Errorf("Moves = %d, a non-matching swap still counts", got)
	}
	if g.State().GameOver {
		t.Error("game ended with moves left")
	}
}

func TestStuckBoardEndsWhenConfigured(t *testing.T) {
	g := New(tinyVariant(true), config.DefaultMatch3Config(), nil)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 1})

	step(g)
	if !g.State().GameOver {
		t.Fatal("EndWhenStuck should end a stuck game")
	}
	if got := g.Snapshot().State; got != StateNoMoves {
		t.Errorf("Snapshot state = %s, want %s", got, StateNoMoves)
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	g := newTestGame(t, 0, 1)

	step(g, core.ActionUp)
	step(g, core.ActionLeft)
	if g.cursor != m3.At(0, 0) {
		t.Errorf("cursor left the board: %v", g.cursor)
	}
	for i := 0; i < 20; i++ {
		step(g, core.ActionRight)
	}
	if g.cursor != m3.At(0, 7) {
		t.Errorf("cursor = %v, want (0,7)", g.cursor)
	}
	if g.engine.Turns() != 0 {
		t.Error("moving the cursor must not swap")
	}
}

func TestPointerDragSwaps(t *testing.T) {
	g := newTestGame(t, 0, 3)
	board := g.boardRect()

	// Press on (2,3) and drag one cell to the right.
	x := board.X + 3*cellWidth + 1
	y := board.Y + 2*cellHeight
	in := core.NewInputFrame()
	in.AddPointer(core.PointerEvent{Kind: core.PointerPress, X: x, Y: y})
	in.AddPointer(core.PointerEvent{Kind: core.PointerMotion, X: x + 1, Y: y})
	g.Step(in)

	if _, _, _, active := g.engine.Dragging(); !active {
		t.Fatal("press on a tile should start a drag")
	}

	in = core.NewInputFrame()
	in.AddPointer(core.PointerEvent{Kind: core.PointerRelease, X: x + cellWidth, Y: y})
	g.Step(in)

	if g.engine.Turns() != 1 {
		t.Fatalf("Turns = %d, want 1", g.engine.Turns())
	}
	if g.cursor != m3.At(2, 4) {
		t.Errorf("cursor = %v, want (2,4)", g.cursor)
	}
	drain(t, g)
	requireSpritesMatchBoard(t, g)
}

func TestPointerShortDragDoesNothing(t *testing.T) {
	g := newTestGame(t, 0, 3)
	before := g.Snapshot().Board
	board := g.boardRect()

	x, y := board.X+1, board.Y
	in := core.NewInputFrame()
	in.AddPointer(core.PointerEvent{Kind: core.PointerPress, X: x, Y: y})
	in.AddPointer(core.PointerEvent{Kind: core.PointerRelease, X: x + 1, Y: y})
	g.Step(in)

	if g.engine.Turns() != 0 {
		t.Error("a drag under the threshold must not swap")
	}
	if !reflect.DeepEqual(before, g.Snapshot().Board) {
		t.Error("board changed")
	}
}

func TestPointerOutsideBoardIgnored(t *testing.T) {
	g := newTestGame(t, 0, 3)

	in := core.NewInputFrame()
	in.AddPointer(core.PointerEvent{Kind: core.PointerPress, X: 0, Y: 0})
	in.AddPointer(core.PointerEvent{Kind: core.PointerRelease, X: 10, Y: 0})
	g.Step(in)

	if _, _, _, active := g.engine.Dragging(); active {
		t.Error("press outside the board should not start a drag")
	}
	if g.engine.Turns() != 0 {
		t.Error("no swap expected")
	}
}

func TestAnimationReplaysEngineEvents(t *testing.T) {
	g := newTestGame(t, 0, 99)

	for turn := 0; turn < 25; turn++ {
		g.cursor = m3.At(turn%g.variant.Rows, (turn*3)%(g.variant.Cols-1))
		step(g, core.ActionSelect)
		step(g, core.ActionRight)
		drain(t, g)
		requireSpritesMatchBoard(t, g)
		if g.gameOver {
			break
		}
	}
}

func TestPauseBlocksInput(t *testing.T) {
	g := newTestGame(t, 0, 5)

	step(g, core.ActionPause)
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}
	step(g, core.ActionRight)
	if g.cursor != m3.At(0, 0) {
		t.Error("cursor moved while paused")
	}
	step(g, core.ActionPause)
	step(g, core.ActionRight)
	if g.cursor != m3.At(0, 1) {
		t.Error("cursor should move after unpausing")
	}
}

func TestHintIsPlayable(t *testing.T) {
	g := newTestGame(t, 0, 11)

	step(g, core.ActionHint)
	if g.hint == nil {
		t.Fatal("expected a hint on a fresh board")
	}
	found := false
	for _, m := range g.engine.Hints() {
		if m == *g.hint {
			found = true
		}
	}
	if !found {
		t.Errorf("hint %v is not a matching move", *g.hint)
	}

	for i := 0; i <= hintTicks; i++ {
		step(g)
	}
	if g.hint != nil {
		t.Error("hint should expire")
	}
}

func TestScoreTurn(t *testing.T) {
	g := newTestGame(t, 0, 1)
	turn := m3.Turn{Events: []m3.Event{
		m3.TilesSwapped{},
		m3.TilesRemoved{Step: 1, IDs: []m3.TileID{1, 2, 3}},
		m3.TilesRemoved{Step: 2, IDs: []m3.TileID{4, 5, 6, 7}},
		m3.TilesRemoved{Step: 3, IDs: []m3.TileID{8, 9, 10}},
		m3.BoardStable{Steps: 3},
	}}

	// 10*3 + 10*4*1.5 + 10*3*2
	if got := g.scoreTurn(turn); got != 150 {
		t.Errorf("scoreTurn = %d, want 150", got)
	}
	if got := g.scoreTurn(m3.Turn{Events: []m3.Event{m3.BoardStable{}}}); got != 0 {
		t.Errorf("a turn without clears scored %d", got)
	}
}

func TestTooSmallScreen(t *testing.T) {
	cfg := config.DefaultMatch3Config()
	g := New(cfg.Variants[0], cfg, nil)
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 8, Seed: 1})

	if !g.State().Paused {
		t.Error("tiny screens should pause the game")
	}
	screen := core.NewScreen(20, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected the too-small message")
	}

	g.Resize(80, 24)
	if g.State().Paused {
		t.Error("resizing up should resume")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, 30, 2)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Classic 8x8", "Score: 0", "Moves: 30"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	board := g.boardRect()
	if got := screen.Get(board.X, board.Y); got != '[' {
		t.Errorf("cursor bracket missing, got %q", got)
	}
	cell := screen.GetCell(board.X+1, board.Y)
	if cell.Color == core.ColorDefault || cell.Rune == ' ' {
		t.Errorf("tile at (0,0) not drawn: %+v", cell)
	}
	if cell.Attr != core.AttrReverse {
		t.Errorf("cursor tile attr = %v, want reverse", cell.Attr)
	}
	if other := screen.GetCell(board.X+cellWidth+1, board.Y); other.Attr != 0 {
		t.Errorf("tile at (0,1) should be plain, got attr %v", other.Attr)
	}

	step(g, core.ActionSelect)
	g.Render(screen)
	if got := screen.GetCell(board.X+1, board.Y).Attr; got != core.AttrReverse|core.AttrBold {
		t.Errorf("grabbed tile attr = %v, want reverse+bold", got)
	}
}

func TestInvalidVariantEndsGame(t *testing.T) {
	cfg := config.DefaultMatch3Config()
	v := cfg.Variants[0]
	v.Palette = []string{"red"}
	g := New(v, cfg, nil)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})

	res := step(g)
	if res.Err == nil || !res.State.GameOver {
		t.Errorf("expected a fatal error, got %+v", res)
	}
	if g.Snapshot().State != StateError {
		t.Errorf("Snapshot state = %s, want error", g.Snapshot().State)
	}
}

func TestRegister(t *testing.T) {
	registry.Clear()
	t.Cleanup(registry.Clear)

	cfg := config.DefaultMatch3Config()
	cfg.Variants = append(cfg.Variants, config.VariantConfig{
		ID: "mini", Title: "Mini", Rows: 5, Cols: 5, Palette: []string{"red", "green", "blue", "yellow"},
	})
	Register(cfg, nil)

	if !registry.Exists("classic") || !registry.Exists("mini") {
		t.Fatalf("variants not registered: %v", registry.List())
	}
	game, err := registry.Create("mini")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if game.Title() != "Mini" {
		t.Errorf("Title = %q, want Mini", game.Title())
	}
}
