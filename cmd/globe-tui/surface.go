package main

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/signalsfoundry/globe-renderer/core"
	"github.com/signalsfoundry/globe-renderer/model"
)

// cellAspect compensates for terminal cells being roughly twice as tall
// as they are wide: one vertical cell covers two logical pixels.
const cellAspect = 2.0

// cellSurface adapts a tcell screen to core.DrawSurface. The renderer
// works in square logical pixels; the surface folds the cell aspect in
// when plotting, so circles stay round on screen.
type cellSurface struct {
	screen tcell.Screen
}

func newCellSurface(screen tcell.Screen) *cellSurface {
	return &cellSurface{screen: screen}
}

// logicalSize returns the viewport in logical pixels.
func (s *cellSurface) logicalSize() (float64, float64) {
	w, h := s.screen.Size()
	return float64(w), float64(h) * cellAspect
}

// toCell maps a logical point to a cell coordinate.
func toCell(p model.ScreenPoint) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y / cellAspect))
}

// fromCell maps a cell coordinate (e.g. a mouse event) to logical pixels.
func fromCell(x, y int) model.ScreenPoint {
	return model.ScreenPoint{X: float64(x), Y: float64(y) * cellAspect}
}

func styleFor(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func (s *cellSurface) plot(x, y int, ch rune, style tcell.Style) {
	w, h := s.screen.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	s.screen.SetContent(x, y, ch, nil, style)
}

// line draws a cell-space segment with Bresenham's algorithm.
func (s *cellSurface) line(x0, y0, x1, y1 int, ch rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
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
		s.plot(x0, y0, ch, style)
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

func (s *cellSurface) StrokeLine(a, b model.ScreenPoint, stroke color.RGBA, width float64) {
	ch := '·'
	if width >= 2 {
		ch = '█'
	}
	ax, ay := toCell(a)
	bx, by := toCell(b)
	s.line(ax, ay, bx, by, ch, styleFor(stroke))
}

func (s *cellSurface) StrokePath(path []model.ScreenPoint, stroke color.RGBA, width float64) {
	for i := 0; i+1 < len(path); i++ {
		s.StrokeLine(path[i], path[i+1], stroke, width)
	}
}

// FillRing fills the closed polygon with an even-odd scanline walk over
// its cell-space bounding box. Terminal rings are small; the quadratic
// scan is cheap at these sizes.
func (s *cellSurface) FillRing(ring []model.ScreenPoint, fill color.RGBA) {
	if len(ring) < 3 {
		return
	}
	style := styleFor(fill)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range ring {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for cy := int(minY / cellAspect); cy <= int(maxY/cellAspect); cy++ {
		ly := (float64(cy) + 0.5) * cellAspect
		for cx := int(minX); cx <= int(maxX); cx++ {
			if ringContains(ring, float64(cx)+0.5, ly) {
				s.plot(cx, cy, '░', style)
			}
		}
	}
}

// ringContains is the even-odd point-in-polygon test.
func ringContains(ring []model.ScreenPoint, x, y float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		pi, pj := ring[i], ring[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

func (s *cellSurface) FillOval(r core.Rect, fill color.RGBA) {
	style := styleFor(fill)
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	rx := math.Max(r.W/2, 0.5)
	ry := math.Max(r.H/2, 0.5)

	for y := r.Y; y <= r.Y+r.H; y += cellAspect / 2 {
		for x := r.X; x <= r.X+r.W; x++ {
			dx := (x - cx) / rx
			dy := (y - cy) / ry
			if dx*dx+dy*dy <= 1 {
				px, py := toCell(model.ScreenPoint{X: x, Y: y})
				s.plot(px, py, '●', style)
			}
		}
	}
}

func (s *cellSurface) DrawLabel(at model.ScreenPoint, text string, fill color.RGBA) {
	style := styleFor(fill)
	x, y := toCell(at)
	for i, ch := range text {
		s.plot(x+1+i, y, ch, style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
