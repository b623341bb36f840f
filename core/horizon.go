package core

import (
	"math"

	"github.com/signalsfoundry/globe-renderer/model"
)

// DefaultCircleSamples is the ring resolution used when a circle region
// does not specify its own sample count. Coarser sampling shows faceted
// edges where the ring meets the horizon.
const DefaultCircleSamples = 72

// crossingParam returns the interpolation parameter in [0, 1] at which
// the segment a -> b reaches the horizon plane, under a softening factor.
// soften must be >= 1: exactly 1 is the hard geometric clip, larger
// values pull the crossing toward a so geometry extends past the horizon
// and fades out gradually instead of snapping.
//
// Every clip in this package goes through this one primitive; the ring
// clipper and the rod clipper must never diverge on the crossing formula.
func crossingParam(a, b Vec3, soften float64) float64 {
	den := b.X - a.X
	if math.Abs(den) < horizonEpsilon {
		// Coincident in depth: treat a as already on the boundary.
		return 0
	}
	t := -a.X / den
	if soften > 1 {
		t /= soften
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t
}

// ClipRingToFront clips a closed ring of sphere positions against the
// visible hemisphere, inserting a synthetic vertex wherever an edge
// crosses the horizon so the projected result is a closed, fillable
// shape. Walk order is preserved; the caller closes the path implicitly.
// A fully back-facing ring clips to nothing.
func ClipRingToFront(ring []Vec3) []Vec3 {
	if len(ring) == 0 {
		return nil
	}
	out := make([]Vec3, 0, len(ring)+2)
	a := ring[len(ring)-1]
	for _, b := range ring {
		switch {
		case a.Front() && b.Front():
			out = append(out, b)
		case a.Front() && !b.Front():
			// Leaving the visible hemisphere: emit only the crossing.
			out = append(out, lerp(a, b, crossingParam(a, b, 1)))
		case !a.Front() && b.Front():
			// Re-entering: emit the crossing, then the vertex itself.
			out = append(out, lerp(a, b, crossingParam(a, b, 1)), b)
		}
		a = b
	}
	return out
}

// ClipRodStub trims a rod stub (surface anchor s to outer tip o) against
// the horizon. The clip is softened by 1 + |o-s|/radius, so the stub
// shrinks gradually as one end dips behind the sphere instead of
// vanishing the instant the anchor crosses the horizon. This is a visual
// heuristic, not sphere-exact occlusion; the softening constant is
// tunable, only the gradual fade-out is contractual.
//
// The returned bool is false when nothing of the stub is visible.
func ClipRodStub(s, o Vec3, radius float64) (Vec3, Vec3, bool) {
	sFront, oFront := s.Front(), o.Front()
	switch {
	case sFront && oFront:
		return s, o, true
	case !sFront && !oFront:
		return Vec3{}, Vec3{}, false
	}

	soften := 1.0
	if radius > 0 {
		soften = 1 + s.DistanceTo(o)/radius
	}
	if oFront {
		// Anchor dipped behind: trim from the surface end.
		return lerp(s, o, crossingParam(s, o, soften)), o, true
	}
	// Tip dipped behind: trim from the outer end.
	return s, lerp(o, s, crossingParam(o, s, soften)), true
}

// CircleRing approximates a circular region as a closed ring of n
// coordinates around center. n below 3 falls back to
// DefaultCircleSamples.
func CircleRing(center model.GeoCoordinate, radiusKm float64, n int) []model.GeoCoordinate {
	if n < 3 {
		n = DefaultCircleSamples
	}
	ring := make([]model.GeoCoordinate, 0, n)
	for i := 0; i < n; i++ {
		bearing := 360 * float64(i) / float64(n)
		ring = append(ring, OffsetCoordinate(center, radiusKm, bearing))
	}
	return ring
}
