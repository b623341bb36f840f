// Command globe-win renders the interactive globe in a desktop window.
// The cursor acts as the hover pointer; a left click hit-tests the
// projected geometry.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/signalsfoundry/globe-renderer/core"
	"github.com/signalsfoundry/globe-renderer/internal/logging"
	"github.com/signalsfoundry/globe-renderer/internal/observability"
	"github.com/signalsfoundry/globe-renderer/model"
	"github.com/signalsfoundry/globe-renderer/scene"
	"github.com/signalsfoundry/globe-renderer/timectrl"
)

const (
	windowW = 960
	windowH = 720
)

type game struct {
	ctx       context.Context
	log       logging.Logger
	renderer  *core.Renderer
	sc        *scene.Scene
	collector *observability.FrameCollector
	hover     *scene.HoverTracker

	rotation model.Rotation
	spin     float64
	ramp     timectrl.ProgressRamp
	connID   string

	status string
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	const rotStep = 0.03
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.rotation.Y -= rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.rotation.Y += rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.rotation.Z -= rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.rotation.Z += rotStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyEqual) {
		g.rotation.Zoom = math.Min(g.rotation.Zoom*1.02, 8)
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) {
		g.rotation.Zoom = math.Max(g.rotation.Zoom/1.02, 0.2)
	}

	g.rotation.Y += g.spin / float64(ebiten.TPS())
	if err := g.sc.SetConnectionProgress(g.connID, g.ramp.At(time.Now())); err != nil {
		g.log.Warn(g.ctx, "advance connection progress", logging.String("connection_id", g.connID), logging.Any("error", err))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	cx, cy := ebiten.CursorPosition()
	hover := &model.ScreenPoint{X: float64(cx), Y: float64(cy)}

	var click *model.ScreenPoint
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		click = &model.ScreenPoint{X: float64(cx), Y: float64(cy)}
	}

	entities := g.sc.Snapshot()
	in := core.FrameInput{
		Viewport:    model.Viewport{Width: windowW, Height: windowH},
		Rotation:    g.rotation,
		Radius:      math.Min(windowW, windowH)/2 - 40,
		Points:      entities.Points,
		Rods:        entities.Rods,
		Regions:     entities.Regions,
		Connections: entities.Connections,
		Hover:       hover,
		Click:       click,
	}

	started := time.Now()
	report := g.renderer.RenderFrame(g.ctx, in, &vectorSurface{dst: screen})
	g.collector.ObserveFrame(time.Since(started), report)

	for _, ev := range report.HoverEvents {
		if g.hover.Changed(ev) {
			if ev.Hovering {
				g.status = "hovering " + ev.EntityID
			} else {
				g.status = ""
			}
		}
	}
	(&vectorSurface{dst: screen}).DrawLabel(model.ScreenPoint{X: 4, Y: windowH - 18}, g.status, color.RGBA{})
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowW, windowH
}

func main() {
	spin := flag.Float64("spin", 0.2, "auto-spin rate in radians per second (0 disables)")
	arcDuration := flag.Duration("arc-duration", 4*time.Second, "draw-in duration of the demo connection")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewFrameCollector(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sc := scene.NewScene()
	connID, err := populateScene(sc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	g := &game{
		ctx:       ctx,
		log:       log,
		renderer:  core.NewRenderer(log),
		sc:        sc,
		collector: collector,
		hover:     scene.NewHoverTracker(),
		rotation:  model.Rotation{Zoom: 1},
		spin:      *spin,
		ramp:      timectrl.ProgressRamp{Start: time.Now(), Duration: *arcDuration, Loop: true},
		connID:    connID,
	}
	g.renderer.OnAnyTap = func(id string) { g.status = "clicked " + id }

	ebiten.SetWindowTitle("globe-renderer")
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// populateScene loads the demo entities and returns the animated
// connection's ID.
func populateScene(sc *scene.Scene) (string, error) {
	label := color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	marker := color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}

	newYork := model.GeoCoordinate{Lat: 40.7128, Lon: -74.0060}
	singapore := model.GeoCoordinate{Lat: 1.3521, Lon: 103.8198}

	for _, p := range []model.Point{
		{ID: "new-york", Coord: newYork, Style: model.PointStyle{Fill: marker, Size: 10}, Label: "New York", LabelStyle: model.LabelStyle{Color: label}},
		{ID: "singapore", Coord: singapore, Style: model.PointStyle{Fill: marker, Size: 10}, Label: "Singapore", LabelStyle: model.LabelStyle{Color: label}},
		{ID: "reykjavik", Coord: model.GeoCoordinate{Lat: 64.1466, Lon: -21.9426}, Style: model.PointStyle{Fill: marker, Size: 8}, Label: "Reykjavik", LabelStyle: model.LabelStyle{Color: label}},
	} {
		if _, err := sc.AddPoint(p); err != nil {
			return "", err
		}
	}

	if _, err := sc.AddRod(model.Rod{
		ID:         "polar-probe",
		Start:      model.GeoCoordinate{Lat: 90},
		End:        model.GeoCoordinate{Lat: -90},
		Color:      color.RGBA{R: 0xFF, G: 0x57, B: 0x22, A: 0xFF},
		Width:      3,
		StickOutKm: 1500,
	}); err != nil {
		return "", err
	}

	if _, err := sc.AddRegion(model.Region{
		ID:       "equatorial-band",
		Kind:     model.RegionCircle,
		Center:   model.GeoCoordinate{Lat: 0, Lon: 20},
		RadiusKm: 2000,
		Samples:  96,
		Color:    color.RGBA{R: 0x20, G: 0x4A, B: 0x6E, A: 0x90},
	}); err != nil {
		return "", err
	}

	return sc.AddConnection(model.Connection{
		ID:          "ny-singapore",
		Start:       newYork,
		End:         singapore,
		StrokeWidth: 3,
		Color:       color.RGBA{R: 0x00, G: 0xBC, B: 0xD4, A: 0xFF},
	})
}
