package core

import (
	"math"

	"github.com/signalsfoundry/globe-renderer/model"
)

// DefaultArcSegments is the sample count for a fully drawn-in connection
// arc when the renderer is not configured otherwise.
const DefaultArcSegments = 48

// ArcGenerator produces the ordered geographic points of a connection's
// arc for a draw-in progress in [0, 1], plus the midpoint of the full arc
// used as the hover anchor. Hosts may swap in their own generator; the
// renderer only projects and hit-tests whatever comes back.
type ArcGenerator func(start, end model.GeoCoordinate, progress float64, segments int) (pts []model.GeoCoordinate, mid model.GeoCoordinate)

// GreatCircleArc is the default ArcGenerator: spherical interpolation
// along the great circle from start toward end, emitting points up to the
// progress fraction of the full arc.
func GreatCircleArc(start, end model.GeoCoordinate, progress float64, segments int) ([]model.GeoCoordinate, model.GeoCoordinate) {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	if segments < 1 {
		segments = DefaultArcSegments
	}

	a := unitVec(start)
	b := unitVec(end)
	mid := toCoordinate(slerp(a, b, 0.5))

	if progress == 0 {
		return []model.GeoCoordinate{start.Clamped()}, mid
	}

	// Sample proportionally so a short draw-in does not waste the full
	// segment budget on a sliver of arc.
	n := int(math.Ceil(float64(segments) * progress))
	if n < 1 {
		n = 1
	}
	pts := make([]model.GeoCoordinate, 0, n+1)
	for i := 0; i <= n; i++ {
		t := progress * float64(i) / float64(n)
		pts = append(pts, toCoordinate(slerp(a, b, t)))
	}
	return pts, mid
}

// unitVec maps a coordinate onto the unit sphere with no camera rotation.
func unitVec(c model.GeoCoordinate) Vec3 {
	c = c.Clamped()
	lat := c.Lat * deg2rad
	lon := c.Lon * deg2rad
	cosLat := math.Cos(lat)
	return Vec3{
		X: cosLat * math.Cos(lon),
		Y: cosLat * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// toCoordinate is the inverse of unitVec.
func toCoordinate(v Vec3) model.GeoCoordinate {
	return model.GeoCoordinate{
		Lat: math.Asin(math.Max(-1, math.Min(1, v.Z))) * rad2deg,
		Lon: model.NormalizeLon(math.Atan2(v.Y, v.X) * rad2deg),
	}
}

// slerp interpolates between two unit vectors along the great circle
// through them. Nearly coincident endpoints interpolate linearly to dodge
// the vanishing sine; nearly antipodal endpoints route through a fixed
// perpendicular so the arc stays well defined.
func slerp(a, b Vec3, t float64) Vec3 {
	dot := a.Dot(b)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	omega := math.Acos(dot)
	sinOmega := math.Sin(omega)

	if sinOmega < 1e-9 {
		if dot > 0 {
			// Same point: nothing to interpolate.
			return normalize(lerp(a, b, t))
		}
		// Antipodal: pick a stable waypoint perpendicular to a and
		// interpolate through it in two halves.
		p := perpendicular(a)
		if t <= 0.5 {
			return slerp(a, p, t*2)
		}
		return slerp(p, b, (t-0.5)*2)
	}

	wa := math.Sin((1-t)*omega) / sinOmega
	wb := math.Sin(t*omega) / sinOmega
	return Vec3{
		X: a.X*wa + b.X*wb,
		Y: a.Y*wa + b.Y*wb,
		Z: a.Z*wa + b.Z*wb,
	}
}

func normalize(v Vec3) Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{X: 1}
	}
	return v.Scale(1 / n)
}

// perpendicular returns a unit vector orthogonal to v.
func perpendicular(v Vec3) Vec3 {
	if math.Abs(v.Z) < 0.9 {
		return normalize(Vec3{X: -v.Y, Y: v.X})
	}
	return normalize(Vec3{X: -v.Z, Z: v.X})
}
