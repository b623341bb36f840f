package model

import "image/color"

// HoverEvent describes the hover state of a point or connection for one
// frame. Anchor is the projected anchor of the entity on the draw surface
// and is nil whenever the entity is not visible.
type HoverEvent struct {
	EntityID string
	Anchor   *ScreenPoint
	Hovering bool
	Visible  bool
}

// HoverFunc is the optional hover capability of an entity. Entities that
// leave it nil receive no hover notifications.
type HoverFunc func(HoverEvent)

// TapFunc is the optional tap capability of an entity.
type TapFunc func(entityID string)

// PointStyle controls how a point marker is painted.
type PointStyle struct {
	Fill color.RGBA
	// Size is the marker diameter in pixels at zoom factor 1.
	Size float64
}

// LabelStyle controls point label text.
type LabelStyle struct {
	Color color.RGBA
	// OffsetY shifts the label below (+) or above (-) the marker.
	OffsetY float64
}

// Point is a geographic marker on the globe.
type Point struct {
	ID         string
	Coord      GeoCoordinate
	Style      PointStyle
	Label      string
	LabelStyle LabelStyle

	OnHover HoverFunc
	OnTap   TapFunc
}

// Rod is a rigid segment piercing the globe: each end anchors at the
// surface and sticks out by StickOutKm of real-world distance.
type Rod struct {
	ID    string
	Start GeoCoordinate
	End   GeoCoordinate

	Color color.RGBA
	Width float64
	// StickOutKm is how far each stub protrudes beyond the surface, in
	// kilometres. Zero or negative draws nothing.
	StickOutKm float64
}

// RegionKind identifies the shape of a highlighted region.
type RegionKind string

const (
	RegionPolygon RegionKind = "polygon"
	RegionCircle  RegionKind = "circle"
)

// Region is a highlighted area on the globe surface. Polygon regions use
// Ring as given; circle regions are densified into a ring of Samples
// coordinates around Center before clipping.
type Region struct {
	ID   string
	Kind RegionKind

	Ring []GeoCoordinate // polygon boundary, implicitly closed

	Center   GeoCoordinate // circle only
	RadiusKm float64       // circle only
	Samples  int           // circle ring resolution, 0 picks a default

	Color color.RGBA
}

// Connection is an animated arc between two coordinates. Progress is the
// draw-in fraction in [0, 1] supplied by the animation layer.
type Connection struct {
	ID    string
	Start GeoCoordinate
	End   GeoCoordinate

	Progress    float64
	StrokeWidth float64
	Color       color.RGBA

	OnHover HoverFunc
	OnTap   TapFunc
}
