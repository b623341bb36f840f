package core

import "github.com/signalsfoundry/globe-renderer/model"

// Project maps a sphere position to the draw surface, offset from the
// viewport center. The projection is orthographic along the camera axis:
// depth is dropped from the 2D result but kept on the Vec3 for the
// visibility tests downstream.
func Project(p Vec3, center model.ScreenPoint) model.ScreenPoint {
	return model.ScreenPoint{X: center.X + p.Y, Y: center.Y - p.Z}
}

// Rect is an axis-aligned rectangle on the draw surface, used for point
// marker bounds and oval hit tests.
type Rect struct {
	X, Y float64 // top-left corner
	W, H float64
}

// RectAround returns the w-by-h rectangle centered on c.
func RectAround(c model.ScreenPoint, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Center returns the rectangle midpoint.
func (r Rect) Center() model.ScreenPoint {
	return model.ScreenPoint{X: r.X + r.W/2, Y: r.Y + r.H/2}
}
