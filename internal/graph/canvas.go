package graph

import (
	"math"
	"strings"
)

// Layer orders what is drawn on the canvas; a later layer owns the colour
// of any cell it touches.
type Layer int

// Layers in render order.
const (
	LayerNone Layer = iota
	LayerAxis
	LayerGrid
	LayerMarker
	LayerData
)

// Frame is the viewport-coordinate rectangle shown on a canvas.
type Frame struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// DefaultFrame covers the plotting area of DefaultViewport with a small
// margin and the space below the time axis for negative deltas.
func DefaultFrame() Frame {
	return Frame{MinX: 20, MinY: 45, MaxX: 255, MaxY: 225}
}

// Canvas is a grid of braille cells, each holding a 2x4 dot matrix.
type Canvas struct {
	width  int
	height int
	masks  [][]uint8
	layers [][]Layer
	frame  Frame
}

// NewCanvas allocates a canvas of width x height terminal cells showing
// frame.
func NewCanvas(width, height int, frame Frame) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &Canvas{
		width:  width,
		height: height,
		masks:  make([][]uint8, height),
		layers: make([][]Layer, height),
		frame:  frame,
	}
	for y := 0; y < height; y++ {
		c.masks[y] = make([]uint8, width)
		c.layers[y] = make([]Layer, width)
	}
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// DrawGraph draws axes, gridlines, period markers and data segments in
// that order.
func (c *Canvas) DrawGraph(g Graph) {
	for _, s := range g.Axes() {
		c.DrawSegment(s, LayerAxis)
	}
	for _, s := range g.Gridlines {
		c.DrawSegment(s, LayerGrid)
	}
	for _, s := range g.Markers {
		c.DrawSegment(s, LayerMarker)
	}
	for _, s := range g.Segments {
		c.DrawSegment(s, LayerData)
	}
}

// DrawSegment rasterizes s. Dots falling outside the canvas are dropped.
func (c *Canvas) DrawSegment(s Segment, layer Layer) {
	x0, y0 := c.toDot(s.From)
	x1, y1 := c.toDot(s.To)
	drawLine(x0, y0, x1, y1, func(x, y int) {
		c.setDot(x, y, layer)
	})
}

// LayerAt reports which layer owns the cell at (x, y).
func (c *Canvas) LayerAt(x, y int) Layer {
	if y < 0 || y >= c.height || x < 0 || x >= c.width {
		return LayerNone
	}
	return c.layers[y][x]
}

// Render joins the canvas rows. paint styles each run of cells sharing a
// layer; a nil paint returns plain braille text.
func (c *Canvas) Render(paint func(Layer, string) string) string {
	rows := make([]string, 0, c.height)
	for y := 0; y < c.height; y++ {
		var row strings.Builder
		var run strings.Builder
		runLayer := LayerNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if paint != nil {
				row.WriteString(paint(runLayer, run.String()))
			} else {
				row.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.width; x++ {
			layer := c.layers[y][x]
			if layer != runLayer {
				flush()
				runLayer = layer
			}
			run.WriteRune(brailleFromMask(c.masks[y][x]))
		}
		flush()
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}

func (c *Canvas) toDot(p Point) (int, int) {
	dotsW := c.width * 2
	dotsH := c.height * 4
	spanX := c.frame.MaxX - c.frame.MinX
	spanY := c.frame.MaxY - c.frame.MinY
	if spanX <= 0 || spanY <= 0 {
		return 0, 0
	}
	x := (p.X - c.frame.MinX) / spanX * float64(dotsW-1)
	y := (p.Y - c.frame.MinY) / spanY * float64(dotsH-1)
	return clampDot(x), clampDot(y)
}

// clampDot bounds far off-screen points so line rasterization stays cheap.
func clampDot(v float64) int {
	const limit = 1 << 16
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return int(math.Round(v))
}

func (c *Canvas) setDot(x, y int, layer Layer) {
	if x < 0 || y < 0 {
		return
	}
	cellX := x / 2
	cellY := y / 4
	if cellY >= c.height || cellX >= c.width {
		return
	}
	c.masks[cellY][cellX] |= brailleDotMask(x%2, y%4)
	if layer >= c.layers[cellY][cellX] {
		c.layers[cellY][cellX] = layer
	}
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille dot bits, column-major: left column 0x01 0x02 0x04 0x40, right
// column 0x08 0x10 0x20 0x80.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func brailleDotMask(x, y int) uint8 {
	if x < 0 || x > 1 || y < 0 || y > 3 {
		return 0
	}
	return brailleBits[x][y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
