package core

import (
	"context"
	"image/color"
	"math"
	"testing"

	"github.com/signalsfoundry/globe-renderer/model"
)

// recordingSurface captures draw calls in issue order.
type recordingSurface struct {
	ops    []string
	rings  [][]model.ScreenPoint
	paths  [][]model.ScreenPoint
	lines  int
	ovals  []Rect
	labels []string
}

func (s *recordingSurface) FillRing(ring []model.ScreenPoint, _ color.RGBA) {
	s.ops = append(s.ops, "ring")
	s.rings = append(s.rings, ring)
}

func (s *recordingSurface) StrokePath(path []model.ScreenPoint, _ color.RGBA, _ float64) {
	s.ops = append(s.ops, "path")
	s.paths = append(s.paths, path)
}

func (s *recordingSurface) StrokeLine(a, b model.ScreenPoint, _ color.RGBA, _ float64) {
	s.ops = append(s.ops, "line")
	s.lines++
}

func (s *recordingSurface) FillOval(r Rect, _ color.RGBA) {
	s.ops = append(s.ops, "oval")
	s.ovals = append(s.ovals, r)
}

func (s *recordingSurface) DrawLabel(_ model.ScreenPoint, text string, _ color.RGBA) {
	s.ops = append(s.ops, "label")
	s.labels = append(s.labels, text)
}

func baseInput() FrameInput {
	return FrameInput{
		Viewport: model.Viewport{Width: 200, Height: 200},
		Radius:   50,
	}
}

func TestRenderFrameDrawOrder(t *testing.T) {
	in := baseInput()
	in.Regions = []model.Region{{
		ID:   "tri",
		Kind: model.RegionPolygon,
		Ring: []model.GeoCoordinate{{Lat: 0, Lon: -10}, {Lat: 10, Lon: 10}, {Lat: -10, Lon: 10}},
	}}
	in.Rods = []model.Rod{{ID: "rod", Start: model.GeoCoordinate{Lat: 90}, End: model.GeoCoordinate{Lat: -90}, StickOutKm: 800, Width: 1}}
	in.Connections = []model.Connection{{ID: "conn", Start: model.GeoCoordinate{Lon: -30}, End: model.GeoCoordinate{Lon: 30}, Progress: 1}}
	in.Points = []model.Point{{ID: "pt", Coord: model.GeoCoordinate{Lat: 30}, Label: "pt", Style: model.PointStyle{Size: 4}}}

	surface := &recordingSurface{}
	report := NewRenderer(nil).RenderFrame(context.Background(), in, surface)

	if report.RegionsDrawn != 1 || report.RodStubsDrawn != 2 || report.ConnectionsDrawn != 1 || report.PointsDrawn != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	rank := map[string]int{"ring": 0, "line": 1, "path": 2, "oval": 3, "label": 3}
	last := -1
	for _, op := range surface.ops {
		r, ok := rank[op]
		if !ok {
			t.Fatalf("unexpected op %q", op)
		}
		if r < last {
			t.Fatalf("draw order violated: %v", surface.ops)
		}
		last = r
	}
	if surface.ops[len(surface.ops)-1] != "label" {
		t.Errorf("label not drawn after its oval: %v", surface.ops)
	}
}

func TestRenderFrameCallbacksAfterDraws(t *testing.T) {
	surface := &recordingSurface{}
	var opsAtDispatch []int

	in := baseInput()
	in.Points = []model.Point{
		{
			ID:    "first",
			Coord: model.GeoCoordinate{Lat: 10},
			OnHover: func(model.HoverEvent) {
				opsAtDispatch = append(opsAtDispatch, len(surface.ops))
			},
		},
		{ID: "second", Coord: model.GeoCoordinate{Lat: -10}},
	}

	NewRenderer(nil).RenderFrame(context.Background(), in, surface)

	if len(opsAtDispatch) != 1 {
		t.Fatalf("hover callback fired %d times, want 1", len(opsAtDispatch))
	}
	if opsAtDispatch[0] != len(surface.ops) {
		t.Fatalf("callback dispatched after %d of %d draw ops", opsAtDispatch[0], len(surface.ops))
	}
}

func TestRenderFrameOccludedPointHover(t *testing.T) {
	in := baseInput()
	in.Points = []model.Point{{ID: "far", Coord: model.GeoCoordinate{Lat: 0, Lon: 180}}}

	surface := &recordingSurface{}
	report := NewRenderer(nil).RenderFrame(context.Background(), in, surface)

	if report.PointsOccluded != 1 || report.PointsDrawn != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.HoverEvents) != 1 {
		t.Fatalf("got %d hover events, want 1", len(report.HoverEvents))
	}
	ev := report.HoverEvents[0]
	if ev.Visible || ev.Hovering || ev.Anchor != nil {
		t.Fatalf("occluded point hover event = %+v, want invisible with nil anchor", ev)
	}
	if len(surface.ops) != 0 {
		t.Fatalf("occluded point still drew: %v", surface.ops)
	}
}

func TestRenderFramePointClick(t *testing.T) {
	var tapped, anyTapped []string

	in := baseInput()
	in.Points = []model.Point{{
		ID:    "target",
		Coord: model.GeoCoordinate{},
		Style: model.PointStyle{Size: 6},
		OnTap: func(id string) { tapped = append(tapped, id) },
	}}
	click := in.Viewport.Center()
	in.Click = &click

	r := NewRenderer(nil)
	r.OnAnyTap = func(id string) { anyTapped = append(anyTapped, id) }
	report := r.RenderFrame(context.Background(), in, &recordingSurface{})

	if len(report.TappedIDs) != 1 || report.TappedIDs[0] != "target" {
		t.Fatalf("TappedIDs = %v, want [target]", report.TappedIDs)
	}
	if len(tapped) != 1 || tapped[0] != "target" {
		t.Fatalf("OnTap got %v", tapped)
	}
	if len(anyTapped) != 1 || anyTapped[0] != "target" {
		t.Fatalf("OnAnyTap got %v", anyTapped)
	}
}

func TestRenderFramePointHoverAnchor(t *testing.T) {
	in := baseInput()
	in.Points = []model.Point{{ID: "home", Coord: model.GeoCoordinate{}, Style: model.PointStyle{Size: 8}}}
	hover := in.Viewport.Center()
	in.Hover = &hover

	report := NewRenderer(nil).RenderFrame(context.Background(), in, &recordingSurface{})

	if len(report.HoverEvents) != 1 {
		t.Fatalf("got %d hover events, want 1", len(report.HoverEvents))
	}
	ev := report.HoverEvents[0]
	if !ev.Hovering || !ev.Visible || ev.Anchor == nil {
		t.Fatalf("hover event = %+v, want hovering visible with anchor", ev)
	}
	center := in.Viewport.Center()
	if ev.Anchor.DistanceTo(center) > 1e-9 {
		t.Errorf("anchor at %+v, want %+v", *ev.Anchor, center)
	}
}

func TestRenderFrameConnectionClippedAtHorizon(t *testing.T) {
	in := baseInput()
	// The arc starts behind the limb; only the run from the horizon
	// crossing onward may be stroked, and never past the disc edge.
	in.Connections = []model.Connection{{
		ID:       "span",
		Start:    model.GeoCoordinate{Lon: -150},
		End:      model.GeoCoordinate{Lon: -30},
		Progress: 1,
	}}

	surface := &recordingSurface{}
	report := NewRenderer(nil).RenderFrame(context.Background(), in, surface)

	if report.ConnectionsDrawn != 1 {
		t.Fatalf("ConnectionsDrawn = %d, want 1", report.ConnectionsDrawn)
	}
	if len(surface.paths) != 1 {
		t.Fatalf("got %d sub-paths, want 1", len(surface.paths))
	}
	center := in.Viewport.Center()
	limit := in.Radius + 1e-6
	for _, p := range surface.paths[0] {
		if p.DistanceTo(center) > limit {
			t.Fatalf("stroked point %+v outside the disc", p)
		}
	}
}

func TestRenderFrameConnectionHiddenMidpointHover(t *testing.T) {
	in := baseInput()
	in.Rotation = model.Rotation{Y: math.Pi}
	in.Connections = []model.Connection{{
		ID:       "behind",
		Start:    model.GeoCoordinate{Lon: -20},
		End:      model.GeoCoordinate{Lon: 20},
		Progress: 1,
	}}

	report := NewRenderer(nil).RenderFrame(context.Background(), in, &recordingSurface{})

	if len(report.HoverEvents) != 1 {
		t.Fatalf("got %d hover events, want 1", len(report.HoverEvents))
	}
	if report.HoverEvents[0].Anchor != nil {
		t.Fatalf("back-facing midpoint still produced an anchor")
	}
}

func TestRenderFrameSkipsDegenerateEntities(t *testing.T) {
	in := baseInput()
	in.Regions = []model.Region{
		{ID: "two-vertex", Kind: model.RegionPolygon, Ring: []model.GeoCoordinate{{}, {Lat: 1}}},
		{ID: "no-radius", Kind: model.RegionCircle, Center: model.GeoCoordinate{}, RadiusKm: 0},
	}
	in.Rods = []model.Rod{{ID: "flat", Start: model.GeoCoordinate{}, End: model.GeoCoordinate{Lat: 1}, StickOutKm: 0}}

	surface := &recordingSurface{}
	report := NewRenderer(nil).RenderFrame(context.Background(), in, surface)

	if len(surface.ops) != 0 {
		t.Fatalf("degenerate entities drew: %v", surface.ops)
	}
	if report.RegionsDrawn != 0 || report.RodStubsDrawn != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestRenderFrameZoomScalesPointSize(t *testing.T) {
	in := baseInput()
	in.Rotation.Zoom = 2
	in.Points = []model.Point{{ID: "big", Coord: model.GeoCoordinate{}, Style: model.PointStyle{Size: 5}}}

	surface := &recordingSurface{}
	NewRenderer(nil).RenderFrame(context.Background(), in, surface)

	if len(surface.ovals) != 1 {
		t.Fatalf("got %d ovals, want 1", len(surface.ovals))
	}
	if surface.ovals[0].W != 10 || surface.ovals[0].H != 10 {
		t.Fatalf("oval %+v, want 10x10", surface.ovals[0])
	}
}
