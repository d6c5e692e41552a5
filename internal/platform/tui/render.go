package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilematch/internal/core"
)

// terminalColors maps core colors to ANSI 256 codes. ColorDefault has no
// entry and keeps the terminal's foreground.
var terminalColors = map[core.Color]lipgloss.Color{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// cellStyle is what a run of cells has in common.
type cellStyle struct {
	color core.Color
	attr  core.Attr
}

func styleOf(c core.Cell) cellStyle {
	return cellStyle{color: c.Color, attr: c.Attr}
}

// terminalStyle builds the lipgloss style for a cell style.
func (cs cellStyle) terminalStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	if fg, ok := terminalColors[cs.color]; ok {
		style = style.Foreground(fg)
	}
	if cs.attr&core.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if cs.attr&core.AttrBold != 0 {
		style = style.Bold(true)
	}
	if cs.attr&core.AttrFaint != 0 {
		style = style.Faint(true)
	}
	if cs.attr&core.AttrBlink != 0 {
		style = style.Blink(true)
	}
	return style
}

// span is a run of adjacent cells sharing one style.
type span struct {
	style cellStyle
	text  string
}

// rowSpans splits row y into maximal same-style runs.
func rowSpans(s *core.Screen, y int) []span {
	var spans []span
	x := 0
	for x < s.Width() {
		start := styleOf(s.GetCell(x, y))
		var run strings.Builder
		for ; x < s.Width(); x++ {
			cell := s.GetCell(x, y)
			if styleOf(cell) != start {
				break
			}
			run.WriteRune(cell.Rune)
		}
		spans = append(spans, span{style: start, text: run.String()})
	}
	return spans
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Cells are emitted in runs so each escape sequence covers as much text as
// possible.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[cellStyle]lipgloss.Style)
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, sp := range rowSpans(s, y) {
			style, ok := styles[sp.style]
			if !ok {
				style = sp.style.terminalStyle()
				styles[sp.style] = style
			}
			sb.WriteString(style.Render(sp.text))
		}
	}
	return sb.String()
}
