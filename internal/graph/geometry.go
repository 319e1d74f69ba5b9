// Package graph maps a delta history onto plotting-viewport line segments
// and rasterizes them onto a braille canvas.
package graph

// Point is a position in viewport coordinates. y grows downward.
type Point struct {
	X float64
	Y float64
}

// Segment is a straight line between two points.
type Segment struct {
	From Point
	To   Point
}

// Viewport describes the plotting area in viewport coordinates.
type Viewport struct {
	Left     float64
	Right    float64
	Top      float64
	Baseline float64
	// Floor is the lowest y that ClampY lets a point reach.
	Floor float64

	GridLeft    float64
	GridLines   int
	GridSpacing float64

	MarkerBottom float64

	// UnitHeight is the number of viewport units per counted person.
	UnitHeight float64
}

// DefaultViewport returns the 280x225 layout: axes from (30,50) to
// (250,200), five gridlines 25 units apart and 5 units per person.
func DefaultViewport() Viewport {
	return Viewport{
		Left:         30,
		Right:        250,
		Top:          50,
		Baseline:     200,
		Floor:        225,
		GridLeft:     25,
		GridLines:    5,
		GridSpacing:  25,
		MarkerBottom: 205,
		UnitHeight:   5,
	}
}

// Width is the horizontal extent of the time axis.
func (v Viewport) Width() float64 {
	return v.Right - v.Left
}

// MaxOnScreen is the largest delta that still lands at or below Top.
func (v Viewport) MaxOnScreen() int {
	if v.UnitHeight <= 0 {
		return 0
	}
	return int((v.Baseline - v.Top) / v.UnitHeight)
}

// Options tunes Rebuild.
type Options struct {
	// ClampY keeps every data point within [Top, Floor]. Off by default:
	// large deltas are drawn past the top of the plotting area.
	ClampY bool
}

// Graph holds every line to draw, grouped in render order.
type Graph struct {
	CountAxis Segment
	TimeAxis  Segment
	Gridlines []Segment
	Markers   []Segment
	Segments  []Segment
}

// Axes returns the count axis followed by the time axis.
func (g Graph) Axes() []Segment {
	return []Segment{g.CountAxis, g.TimeAxis}
}

// Rebuild recomputes the whole graph from history. With N entries it
// yields N period markers and N-1 data segments; spacing is the viewport
// width divided by N, so every rebuild shifts earlier x-coordinates left.
func Rebuild(history []int, vp Viewport, opts Options) Graph {
	g := Graph{
		CountAxis: Segment{From: Point{vp.Left, vp.Top}, To: Point{vp.Left, vp.Baseline}},
		TimeAxis:  Segment{From: Point{vp.Left, vp.Baseline}, To: Point{vp.Right, vp.Baseline}},
		Gridlines: gridlines(vp),
	}
	n := len(history)
	if n == 0 {
		return g
	}
	spacing := vp.Width() / float64(n)

	g.Markers = make([]Segment, 0, n)
	for k := 1; k <= n; k++ {
		x := vp.Left + float64(k)*spacing
		g.Markers = append(g.Markers, Segment{From: Point{x, vp.Top}, To: Point{x, vp.MarkerBottom}})
	}

	g.Segments = make([]Segment, 0, n-1)
	prev := Point{vp.Left, valueY(history[0], vp, opts)}
	for k := 1; k < n; k++ {
		cur := Point{vp.Left + float64(k)*spacing, valueY(history[k], vp, opts)}
		g.Segments = append(g.Segments, Segment{From: prev, To: cur})
		prev = cur
	}
	return g
}

// ValueY maps a delta to its unclamped y coordinate.
func (v Viewport) ValueY(delta int) float64 {
	return v.Baseline - v.UnitHeight*float64(delta)
}

func valueY(delta int, vp Viewport, opts Options) float64 {
	y := vp.ValueY(delta)
	if !opts.ClampY {
		return y
	}
	if y < vp.Top {
		return vp.Top
	}
	if y > vp.Floor {
		return vp.Floor
	}
	return y
}

func gridlines(vp Viewport) []Segment {
	lines := make([]Segment, 0, vp.GridLines)
	for i := 0; i < vp.GridLines; i++ {
		y := vp.Top + vp.GridSpacing*float64(i+1)
		lines = append(lines, Segment{From: Point{vp.GridLeft, y}, To: Point{vp.Right, y}})
	}
	return lines
}
