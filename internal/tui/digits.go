package tui

import (
	"strings"

	"github.com/verte-zerg/tuicount/internal/counter"
)

const glyphHeight = 5

var glyphs = [10][glyphHeight]string{
	{"███", "█ █", "█ █", "█ █", "███"},
	{"  █", "  █", "  █", "  █", "  █"},
	{"███", "  █", "███", "█  ", "███"},
	{"███", "  █", "███", "  █", "███"},
	{"█ █", "█ █", "███", "  █", "  █"},
	{"███", "█  ", "███", "  █", "███"},
	{"███", "█  ", "███", "█ █", "███"},
	{"███", "  █", "  █", "  █", "  █"},
	{"███", "█ █", "███", "█ █", "███"},
	{"███", "█ █", "███", "  █", "███"},
}

// renderReadout draws the digits thousands first as a block font.
func renderReadout(digits [counter.Width]int) string {
	rows := make([]string, glyphHeight)
	for r := 0; r < glyphHeight; r++ {
		parts := make([]string, 0, len(digits))
		for _, d := range digits {
			parts = append(parts, glyphs[d%10][r])
		}
		rows[r] = strings.Join(parts, " ")
	}
	return strings.Join(rows, "\n")
}
