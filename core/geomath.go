package core

import (
	"math"

	"github.com/signalsfoundry/globe-renderer/model"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// ToSpherePosition maps a geographic coordinate onto a sphere of the
// given radius and applies the camera rotation: first the spin about the
// polar axis (rotY), then the pitch about the screen-horizontal axis
// (rotZ). Rotation about the depth axis is tracked in host state but the
// fixed-axis projection never applies it.
//
// The function is pure: identical inputs always produce bit-identical
// output, with no caching or order-of-operation drift.
func ToSpherePosition(coord model.GeoCoordinate, radius, rotY, rotZ float64) Vec3 {
	coord = coord.Clamped()
	lat := coord.Lat * deg2rad
	lon := coord.Lon * deg2rad

	cosLat := math.Cos(lat)
	x := cosLat * math.Cos(lon)
	y := cosLat * math.Sin(lon)
	z := math.Sin(lat)

	// Spin about the polar axis: mixes depth and screen-horizontal.
	sinY, cosY := math.Sincos(rotY)
	x, y = x*cosY-y*sinY, x*sinY+y*cosY

	// Pitch about the screen-horizontal axis: mixes depth and screen-vertical.
	sinZ, cosZ := math.Sincos(rotZ)
	x, z = x*cosZ-z*sinZ, x*sinZ+z*cosZ

	return Vec3{X: x * radius, Y: y * radius, Z: z * radius}
}

// OffsetCoordinate returns the destination reached by travelling
// distanceKm along the given initial bearing (degrees clockwise from
// north) on a great circle. Latitude input is clamped and the resulting
// longitude normalized into (-180, 180]; bearings wrap freely and poles
// never produce NaN.
func OffsetCoordinate(origin model.GeoCoordinate, distanceKm, bearingDeg float64) model.GeoCoordinate {
	origin = origin.Clamped()
	lat1 := origin.Lat * deg2rad
	lon1 := origin.Lon * deg2rad
	bearing := bearingDeg * deg2rad
	delta := distanceKm / EarthRadiusKm

	sinLat1, cosLat1 := math.Sincos(lat1)
	sinDelta, cosDelta := math.Sincos(delta)

	sinLat2 := sinLat1*cosDelta + cosLat1*sinDelta*math.Cos(bearing)
	// Rounding can push the sine a hair outside [-1, 1] near the poles.
	if sinLat2 > 1 {
		sinLat2 = 1
	} else if sinLat2 < -1 {
		sinLat2 = -1
	}
	lat2 := math.Asin(sinLat2)
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*sinDelta*cosLat1,
		cosDelta-sinLat1*sinLat2,
	)

	return model.GeoCoordinate{
		Lat: lat2 * rad2deg,
		Lon: model.NormalizeLon(lon2 * rad2deg),
	}
}
