package core

import (
	"math"

	"github.com/signalsfoundry/globe-renderer/model"
)

// HitSlackPx is the fixed slack added to half the stroke width when
// hit-testing a connection path, so thin arcs remain clickable.
const HitSlackPx = 4.0

// OvalContains reports whether pt falls inside the ellipse inscribed in
// rect. Degenerate rectangles contain nothing.
func OvalContains(pt model.ScreenPoint, rect Rect) bool {
	rx := rect.W / 2
	ry := rect.H / 2
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := (pt.X - (rect.X + rx)) / rx
	dy := (pt.Y - (rect.Y + ry)) / ry
	return dx*dx+dy*dy <= 1
}

// PathNear reports whether pt lies within tolerance of any segment of
// the polyline. Paths may be non-convex or self-crossing, so a miss on
// one segment says nothing about the rest; the scan covers them all.
func PathNear(pt model.ScreenPoint, path []model.ScreenPoint, tolerance float64) bool {
	if tolerance < 0 || len(path) == 0 {
		return false
	}
	if len(path) == 1 {
		return pt.DistanceTo(path[0]) <= tolerance
	}
	for i := 0; i+1 < len(path); i++ {
		if segmentDistance(pt, path[i], path[i+1]) <= tolerance {
			return true
		}
	}
	return false
}

// segmentDistance returns the distance from p to the closest point on
// the segment a -> b.
func segmentDistance(p, a, b model.ScreenPoint) float64 {
	vx := b.X - a.X
	vy := b.Y - a.Y
	wx := p.X - a.X
	wy := p.Y - a.Y

	den := vx*vx + vy*vy
	if den == 0 {
		// Zero-length segment.
		return math.Hypot(wx, wy)
	}

	t := (wx*vx + wy*vy) / den
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(wx-t*vx, wy-t*vy)
}
