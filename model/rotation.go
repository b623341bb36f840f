package model

// Rotation is the camera orientation and zoom for one frame. The host
// owns this state and passes it by value into every frame.
//
// Y spins the globe about its polar axis (drag east-west), Z pitches it
// toward or away from the viewer (drag north-south). X is carried for
// hosts that track a roll gesture but the fixed-axis sphere projection
// never applies it.
type Rotation struct {
	X float64 // radians, tracked but not applied
	Y float64 // radians, spin about the polar axis
	Z float64 // radians, pitch about the screen-horizontal axis

	// Zoom scales the sphere radius. Values <= 0 are treated as 1.
	Zoom float64
}

// EffectiveRadius returns the sphere radius after zoom is applied.
func (r Rotation) EffectiveRadius(base float64) float64 {
	if r.Zoom <= 0 {
		return base
	}
	return base * r.Zoom
}
