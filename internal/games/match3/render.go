package match3

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tilematch/internal/core"
	m3 "github.com/vovakirdan/tilematch/internal/match3"
)

const (
	cellWidth    = 3 // Columns per tile: bracket, glyph, bracket
	cellHeight   = 1
	hudHeight    = 3
	footerHeight = 2
	minHUDWidth  = 34
)

// glyphs give each palette slot a distinct shape besides its color.
var glyphs = []rune{'●', '▲', '■', '◆', '★', '♥', '♣', '✚'}

// fallbackColors are used for palette names without a known color.
var fallbackColors = []core.Color{
	core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow,
	core.ColorMagenta, core.ColorOrange, core.ColorCyan, core.ColorWhite,
}

// boardSize returns the outer size of the framed board.
func (g *Game) boardSize() (w, h int) {
	return g.variant.Cols*cellWidth + 2, g.variant.Rows*cellHeight + 2
}

// boardRect returns the tile area (inside the frame) on screen.
func (g *Game) boardRect() core.Rect {
	bw, _ := g.boardSize()
	x := (g.screenW-bw)/2 + 1
	return core.NewRect(x, hudHeight+1, g.variant.Cols*cellWidth, g.variant.Rows*cellHeight)
}

// style returns the glyph and color for a kind.
func (g *Game) style(k m3.Kind) (rune, core.Color) {
	idx := -1
	for i, name := range g.variant.Palette {
		if m3.Kind(name) == k {
			idx = i
			break
		}
	}
	if idx < 0 {
		return '?', core.ColorGray
	}
	color, ok := core.ColorByName(string(k))
	if !ok {
		color = fallbackColors[idx%len(fallbackColors)]
	}
	return glyphs[idx%len(glyphs)], color
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	board := g.boardRect()
	frame := core.NewRect(board.X-1, board.Y-1, board.W+2, board.H+2)

	g.renderHUD(dst, frame)
	dst.DrawBox(frame, core.ColorGray)
	g.renderTiles(dst, board)
	g.renderCursor(dst, board)
	g.renderFooter(dst, frame)
	g.renderOverlays(dst, frame)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	bw, bh := g.boardSize()
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", max(bw, minHUDWidth), bh+hudHeight+footerHeight))
}

// renderHUD draws title, score and move budget above the board.
func (g *Game) renderHUD(dst *core.Screen, frame core.Rect) {
	dst.DrawTextCentered(0, g.variant.Title)

	hudW := max(frame.W, minHUDWidth)
	left := max(0, (g.screenW-hudW)/2)
	dst.DrawTextColored(left, 1, fmt.Sprintf("Score: %d", g.score), core.ColorBrightYellow)

	moves := "Moves: ∞"
	if n := g.movesLeft(); n >= 0 {
		moves = fmt.Sprintf("Moves: %d", n)
	}
	right := left + hudW - len([]rune(moves))
	color := core.ColorDefault
	if n := g.movesLeft(); n >= 0 && n <= 3 {
		color = core.ColorBrightRed
	}
	dst.DrawTextColored(right, 1, moves, color)

	if g.bestCascade > 1 {
		dst.DrawTextCentered(2, fmt.Sprintf("Best cascade x%d", g.bestCascade))
	}
}

// renderTiles draws every sprite at its interpolated position. Sprites
// above the board (dropping in) are clipped.
func (g *Game) renderTiles(dst *core.Screen, board core.Rect) {
	t := g.anim.Progress()
	flashOn := (g.anim.ticks/2)%2 == 0

	for _, s := range g.anim.sprites {
		row, col := s.position(t)
		r := int(math.Round(row))
		c := int(math.Round(col))
		if r < 0 || r >= g.variant.Rows || c < 0 || c >= g.variant.Cols {
			continue
		}
		glyph, color := g.style(s.Kind)
		cell := core.Cell{Rune: glyph, Color: color}
		if s.flashing {
			// Tiles about to clear blink between reversed and faint.
			cell.Attr = core.AttrFaint
			if flashOn {
				cell.Attr = core.AttrReverse | core.AttrBold
			}
		}
		dst.SetCell(board.X+c*cellWidth+1, board.Y+r*cellHeight, cell)
	}
}

// renderCursor brackets the cursor cell, the grabbed tile, the drag target
// and any active hint. The glyph inside the brackets gets attributes on top
// of its kind color.
func (g *Game) renderCursor(dst *core.Screen, board core.Rect) {
	mark := func(c m3.Coord, l, r rune, color core.Color, attr core.Attr) {
		x := board.X + c.Col*cellWidth
		y := board.Y + c.Row*cellHeight
		dst.SetColored(x, y, l, color)
		dst.SetColored(x+cellWidth-1, y, r, color)
		dst.AddAttr(x+1, y, attr)
	}

	if g.hint != nil && (g.hintTTL/5)%2 == 0 {
		mark(g.hint.From, '(', ')', core.ColorBrightGreen, core.AttrBold)
		mark(g.hint.Target(), '(', ')', core.ColorBrightGreen, core.AttrBold)
	}

	if g.engine != nil {
		if from, cand, ok, active := g.engine.Dragging(); active {
			mark(from, '<', '>', core.ColorBrightCyan, core.AttrReverse|core.AttrBold)
			if ok {
				mark(cand.Target(), '[', ']', core.ColorBrightCyan, core.AttrReverse)
			}
			return
		}
	}

	if g.grabbed {
		mark(g.cursor, '<', '>', core.ColorBrightCyan, core.AttrReverse|core.AttrBold)
		return
	}
	mark(g.cursor, '[', ']', core.ColorBrightWhite, core.AttrReverse)
}

func (g *Game) renderFooter(dst *core.Screen, frame core.Rect) {
	y := frame.Bottom()
	if y >= g.screenH {
		return
	}
	dst.DrawTextColored(max(0, (g.screenW-len(g.Controls()))/2), y, g.Controls(), core.ColorGray)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, frame core.Rect) {
	cx := frame.X + frame.W/2
	cy := frame.Y + frame.H/2

	switch {
	case g.paused:
		g.drawOverlay(dst, cx, cy, "PAUSED", "Press P to resume")
	case g.err != nil:
		g.drawOverlay(dst, cx, cy, "BOARD ERROR", g.err.Error(), "Press R to restart")
	case g.gameOver && g.stuck:
		g.drawOverlay(dst, cx, cy, "NO MOVES LEFT", fmt.Sprintf("Score: %d", g.score), "Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, cx, cy, "GAME OVER", fmt.Sprintf("Score: %d", g.score), "Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), core.ColorWhite)

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, boxY+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows: move | Space: grab | Drag: swap | ?: hint | P: pause | Q: quit"
}
