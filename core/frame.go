package core

import (
	"context"
	"image/color"

	"github.com/signalsfoundry/globe-renderer/internal/logging"
	"github.com/signalsfoundry/globe-renderer/model"
)

// DrawSurface is the abstract 2D surface one frame is painted onto.
// Implementations adapt a concrete backend (terminal cells, a GPU
// canvas); the renderer never knows which.
type DrawSurface interface {
	// FillRing fills the closed polygon described by ring. The ring is
	// implicitly closed; the last point connects back to the first.
	FillRing(ring []model.ScreenPoint, fill color.RGBA)
	// StrokePath strokes an open polyline.
	StrokePath(path []model.ScreenPoint, stroke color.RGBA, width float64)
	// StrokeLine strokes a single segment.
	StrokeLine(a, b model.ScreenPoint, stroke color.RGBA, width float64)
	// FillOval fills the ellipse inscribed in r.
	FillOval(r Rect, fill color.RGBA)
	// DrawLabel draws text anchored at the given point.
	DrawLabel(at model.ScreenPoint, text string, fill color.RGBA)
}

// FrameInput carries everything one frame needs. The entity slices are
// owned by the caller and must not be mutated while the pass runs; the
// renderer only reads them.
type FrameInput struct {
	Viewport model.Viewport
	Rotation model.Rotation
	// Radius is the sphere radius in pixels before zoom.
	Radius float64

	Points      []model.Point
	Rods        []model.Rod
	Regions     []model.Region
	Connections []model.Connection

	// Hover and Click are the pointer positions for this frame, nil when
	// the pointer is absent or nothing was clicked.
	Hover *model.ScreenPoint
	Click *model.ScreenPoint
}

// FrameReport summarizes one render pass: what was drawn, what was
// culled, and the hover state of every point and connection.
type FrameReport struct {
	RegionsDrawn     int
	RegionsOccluded  int
	RodStubsDrawn    int
	RodStubsHidden   int
	ConnectionsDrawn int
	PointsDrawn      int
	PointsOccluded   int

	HoverEvents []model.HoverEvent
	TappedIDs   []string
}

// Renderer runs the per-frame geometric pass: GeoMath -> projection ->
// horizon clipping -> draw calls, then pointer resolution. It holds no
// entity state between frames; every invocation is a function of its
// FrameInput alone, so isolated inputs may be rendered from any thread.
type Renderer struct {
	log logging.Logger

	// Arc generates connection arc points; defaults to GreatCircleArc.
	Arc ArcGenerator
	// ArcSegments is the sample budget per fully drawn arc.
	ArcSegments int

	// OnAnyTap, when set, fires once per clicked entity after the frame's
	// draw pass, in addition to the entity's own OnTap.
	OnAnyTap func(entityID string)
}

// NewRenderer constructs a renderer. A nil logger drops all logs.
func NewRenderer(log logging.Logger) *Renderer {
	if log == nil {
		log = logging.Noop()
	}
	return &Renderer{
		log:         log,
		Arc:         GreatCircleArc,
		ArcSegments: DefaultArcSegments,
	}
}

// RenderFrame draws one frame and resolves pointer interactions against
// the projected geometry. Hover and tap callbacks are queued during the
// pass and dispatched only after every draw call has been issued, so a
// callback can never disturb the frame that produced it. A degenerate
// entity is skipped and logged, never fatal.
func (r *Renderer) RenderFrame(ctx context.Context, in FrameInput, surface DrawSurface) FrameReport {
	center := in.Viewport.Center()
	radius := in.Rotation.EffectiveRadius(in.Radius)
	rotY, rotZ := in.Rotation.Y, in.Rotation.Z

	report := FrameReport{}
	var pending []func()

	// Regions sit under everything else.
	for _, reg := range in.Regions {
		r.renderRegion(ctx, reg, radius, rotY, rotZ, center, surface, &report)
	}
	for _, rod := range in.Rods {
		r.renderRod(ctx, rod, radius, rotY, rotZ, center, surface, &report)
	}
	for _, conn := range in.Connections {
		r.renderConnection(ctx, conn, in, radius, rotY, rotZ, center, surface, &report, &pending)
	}
	for _, pt := range in.Points {
		r.renderPoint(ctx, pt, in, radius, rotY, rotZ, center, surface, &report, &pending)
	}

	// Notification flush: strictly after the draw pass.
	for _, fire := range pending {
		fire()
	}
	return report
}

func (r *Renderer) renderRegion(ctx context.Context, reg model.Region, radius, rotY, rotZ float64, center model.ScreenPoint, surface DrawSurface, report *FrameReport) {
	var coords []model.GeoCoordinate
	switch reg.Kind {
	case model.RegionCircle:
		if reg.RadiusKm <= 0 {
			r.log.Debug(ctx, "skipping circle region with no radius", logging.String("region_id", reg.ID))
			return
		}
		coords = CircleRing(reg.Center, reg.RadiusKm, reg.Samples)
	default:
		coords = reg.Ring
	}
	if len(coords) < 3 {
		r.log.Debug(ctx, "skipping region with degenerate ring",
			logging.String("region_id", reg.ID), logging.Int("vertices", len(coords)))
		return
	}

	ring := make([]Vec3, 0, len(coords))
	for _, c := range coords {
		ring = append(ring, ToSpherePosition(c, radius, rotY, rotZ))
	}
	visible := ClipRingToFront(ring)
	if len(visible) < 3 {
		report.RegionsOccluded++
		return
	}

	projected := make([]model.ScreenPoint, 0, len(visible))
	for _, v := range visible {
		projected = append(projected, Project(v, center))
	}
	surface.FillRing(projected, reg.Color)
	report.RegionsDrawn++
}

func (r *Renderer) renderRod(ctx context.Context, rod model.Rod, radius, rotY, rotZ float64, center model.ScreenPoint, surface DrawSurface, report *FrameReport) {
	if rod.StickOutKm <= 0 {
		r.log.Debug(ctx, "skipping zero-length rod", logging.String("rod_id", rod.ID))
		return
	}
	// Stick-out in sphere-radius units via the fixed planet radius.
	outward := 1 + rod.StickOutKm/EarthRadiusKm

	// The two stubs clip independently: one end going dark never hides
	// the other.
	for _, coord := range []model.GeoCoordinate{rod.Start, rod.End} {
		s := ToSpherePosition(coord, radius, rotY, rotZ)
		o := s.Scale(outward)
		a, b, visible := ClipRodStub(s, o, radius)
		if !visible {
			report.RodStubsHidden++
			continue
		}
		surface.StrokeLine(Project(a, center), Project(b, center), rod.Color, rod.Width)
		report.RodStubsDrawn++
	}
}

func (r *Renderer) renderConnection(ctx context.Context, conn model.Connection, in FrameInput, radius, rotY, rotZ float64, center model.ScreenPoint, surface DrawSurface, report *FrameReport, pending *[]func()) {
	gen := r.Arc
	if gen == nil {
		gen = GreatCircleArc
	}
	coords, mid := gen(conn.Start, conn.End, conn.Progress, r.ArcSegments)

	// Project the arc, splitting it wherever it dips behind the horizon.
	var subpaths [][]model.ScreenPoint
	var current []model.ScreenPoint
	var prev Vec3
	for i, c := range coords {
		v := ToSpherePosition(c, radius, rotY, rotZ)
		if v.Front() {
			if i > 0 && !prev.Front() {
				// Re-entering: start the visible run at the horizon.
				current = append(current, Project(lerp(prev, v, crossingParam(prev, v, 1)), center))
			}
			current = append(current, Project(v, center))
		} else if i > 0 && prev.Front() {
			// Leaving: close the run at the horizon.
			current = append(current, Project(lerp(prev, v, crossingParam(prev, v, 1)), center))
			subpaths = append(subpaths, current)
			current = nil
		}
		prev = v
	}
	if len(current) > 0 {
		subpaths = append(subpaths, current)
	}

	drawn := false
	for _, path := range subpaths {
		if len(path) < 2 {
			continue
		}
		surface.StrokePath(path, conn.Color, conn.StrokeWidth)
		drawn = true
	}
	if drawn {
		report.ConnectionsDrawn++
	}

	// Hover anchor: the full arc's midpoint, when camera-facing.
	var anchor *model.ScreenPoint
	midPos := ToSpherePosition(mid, radius, rotY, rotZ)
	if midPos.Front() {
		p := Project(midPos, center)
		anchor = &p
	}

	tolerance := conn.StrokeWidth/2 + HitSlackPx
	hovering := false
	if in.Hover != nil {
		for _, path := range subpaths {
			if PathNear(*in.Hover, path, tolerance) {
				hovering = true
				break
			}
		}
	}
	r.queueHover(conn.ID, conn.OnHover, anchor, hovering, drawn, report, pending)

	if in.Click != nil {
		clicked := false
		for _, path := range subpaths {
			if PathNear(*in.Click, path, tolerance) {
				clicked = true
				break
			}
		}
		if clicked {
			r.queueTap(conn.ID, conn.OnTap, report, pending)
		}
	}
}

func (r *Renderer) renderPoint(ctx context.Context, pt model.Point, in FrameInput, radius, rotY, rotZ float64, center model.ScreenPoint, surface DrawSurface, report *FrameReport, pending *[]func()) {
	v := ToSpherePosition(pt.Coord, radius, rotY, rotZ)
	if !v.Front() {
		report.PointsOccluded++
		r.queueHover(pt.ID, pt.OnHover, nil, false, false, report, pending)
		return
	}

	projected := Project(v, center)
	size := pt.Style.Size
	if in.Rotation.Zoom > 0 {
		size *= in.Rotation.Zoom
	}
	if size <= 0 {
		size = 1
	}
	rect := RectAround(projected, size, size)
	surface.FillOval(rect, pt.Style.Fill)
	if pt.Label != "" {
		at := model.ScreenPoint{X: projected.X, Y: projected.Y + pt.LabelStyle.OffsetY}
		surface.DrawLabel(at, pt.Label, pt.LabelStyle.Color)
	}
	report.PointsDrawn++

	hovering := in.Hover != nil && OvalContains(*in.Hover, rect)
	r.queueHover(pt.ID, pt.OnHover, &projected, hovering, true, report, pending)

	if in.Click != nil && OvalContains(*in.Click, rect) {
		r.queueTap(pt.ID, pt.OnTap, report, pending)
	}
}

// queueHover records the hover state and, when the entity carries the
// hover capability, schedules its callback for the post-pass flush.
func (r *Renderer) queueHover(id string, fn model.HoverFunc, anchor *model.ScreenPoint, hovering, visible bool, report *FrameReport, pending *[]func()) {
	ev := model.HoverEvent{
		EntityID: id,
		Anchor:   anchor,
		Hovering: hovering,
		Visible:  visible,
	}
	report.HoverEvents = append(report.HoverEvents, ev)
	if fn != nil {
		*pending = append(*pending, func() { fn(ev) })
	}
}

func (r *Renderer) queueTap(id string, fn model.TapFunc, report *FrameReport, pending *[]func()) {
	report.TappedIDs = append(report.TappedIDs, id)
	if fn != nil {
		*pending = append(*pending, func() { fn(id) })
	}
	if r.OnAnyTap != nil {
		*pending = append(*pending, func() { r.OnAnyTap(id) })
	}
}
