package model

import "math"

// GeoCoordinate is a geographic position in decimal degrees.
type GeoCoordinate struct {
	Lat float64 // [-90, 90]
	Lon float64 // (-180, 180]
}

// Clamped returns the coordinate with latitude clamped into [-90, 90] and
// longitude normalized into (-180, 180]. Out-of-range input degrades to
// the nearest valid coordinate; a render loop never rejects a frame over
// a bad coordinate.
func (c GeoCoordinate) Clamped() GeoCoordinate {
	lat := c.Lat
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}
	return GeoCoordinate{Lat: lat, Lon: NormalizeLon(c.Lon)}
}

// NormalizeLon wraps a longitude in degrees into (-180, 180].
func NormalizeLon(lon float64) float64 {
	if lon > -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon, 360)
	if lon <= -180 {
		lon += 360
	} else if lon > 180 {
		lon -= 360
	}
	return lon
}

// ScreenPoint is an absolute position on the 2D draw surface, in pixels.
type ScreenPoint struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance to another screen point.
func (p ScreenPoint) DistanceTo(other ScreenPoint) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Viewport is the size of the draw surface for one frame.
type Viewport struct {
	Width  float64
	Height float64
}

// Center returns the viewport midpoint, the anchor every sphere
// projection is offset from.
func (v Viewport) Center() ScreenPoint {
	return ScreenPoint{X: v.Width / 2, Y: v.Height / 2}
}
