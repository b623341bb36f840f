package core

import "math"

// EarthRadiusKm is the mean Earth radius used to convert real-world
// distances (rod stick-out, circle region radii) into sphere-radius
// units (kilometres).
const EarthRadiusKm = 6371.0

// horizonEpsilon guards near-zero denominators when interpolating a
// horizon crossing. Depth differences inside the epsilon are treated as
// already on the boundary instead of dividing toward NaN.
const horizonEpsilon = 1e-9

// Vec3 is a position on or near the render sphere. X is depth toward the
// camera, Y is right on screen, Z is up on screen.
type Vec3 struct {
	X, Y, Z float64
}

// Front reports whether the point lies on the camera-facing hemisphere.
// The sign of the depth axis is the single source of truth for every
// clipping and occlusion decision in this package; no component carries
// its own variant of this predicate.
func (v Vec3) Front() bool { return v.X >= 0 }

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns the vector scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// lerp returns the point at parameter t along the segment a -> b.
func lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}
