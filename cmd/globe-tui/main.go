// Command globe-tui renders an interactive globe in the terminal:
// geographic markers, rods piercing the sphere, highlighted regions, and
// an animated great-circle connection, with mouse hover and click
// resolved against the projected geometry every frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"go.opentelemetry.io/otel"

	"github.com/signalsfoundry/globe-renderer/core"
	"github.com/signalsfoundry/globe-renderer/internal/logging"
	"github.com/signalsfoundry/globe-renderer/internal/observability"
	"github.com/signalsfoundry/globe-renderer/model"
	"github.com/signalsfoundry/globe-renderer/scene"
	"github.com/signalsfoundry/globe-renderer/timectrl"
)

// pointerState carries the mouse position from the tcell event goroutine
// to the frame loop. Clicks are consumed by the next frame.
type pointerState struct {
	mu    sync.Mutex
	hover *model.ScreenPoint
	click *model.ScreenPoint
}

func (p *pointerState) setHover(pt model.ScreenPoint) {
	p.mu.Lock()
	p.hover = &pt
	p.mu.Unlock()
}

func (p *pointerState) setClick(pt model.ScreenPoint) {
	p.mu.Lock()
	p.click = &pt
	p.mu.Unlock()
}

// take returns the pointer state for one frame, clearing the click.
func (p *pointerState) take() (hover, click *model.ScreenPoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	hover, click = p.hover, p.click
	p.click = nil
	return hover, click
}

func main() {
	fps := flag.Int("fps", 30, "frames per second")
	spin := flag.Float64("spin", 0.2, "auto-spin rate in radians per second (0 disables)")
	shapefile := flag.String("shapefile", "", "optional polygon shapefile rendered as region highlights")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for Prometheus metrics (e.g. :9183)")
	tle1 := flag.String("tle1", "", "satellite TLE line 1 (defaults to a bundled ISS element set)")
	tle2 := flag.String("tle2", "", "satellite TLE line 2")
	arcDuration := flag.Duration("arc-duration", 4*time.Second, "draw-in duration of the demo connection")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init tracing: %v\n", err)
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewFrameCollector(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init metrics: %v\n", err)
		os.Exit(1)
	}
	if *metricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(*metricsAddr, collector.Handler()); err != nil {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
	}

	if err := run(ctx, log, collector, options{
		fps:         *fps,
		spin:        *spin,
		shapefile:   *shapefile,
		tle1:        *tle1,
		tle2:        *tle2,
		arcDuration: *arcDuration,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	fps         int
	spin        float64
	shapefile   string
	tle1, tle2  string
	arcDuration time.Duration
}

func run(ctx context.Context, log logging.Logger, collector *observability.FrameCollector, opts options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	surface := newCellSurface(screen)
	sc := scene.NewScene()
	status := newStatusLine()

	if err := populateScene(sc, status, opts); err != nil {
		return err
	}

	tracker := newSatTracker(opts.tle1, opts.tle2)
	satID, err := sc.AddPoint(model.Point{
		ID:    "satellite",
		Coord: tracker.groundPoint(time.Now()),
		Style: model.PointStyle{Fill: color.RGBA{R: 0xFF, G: 0xD7, A: 0xFF}, Size: 2},
		Label: "SAT",
		LabelStyle: model.LabelStyle{
			Color: color.RGBA{R: 0xFF, G: 0xD7, A: 0xFF},
		},
	})
	if err != nil {
		return err
	}

	ramp := timectrl.ProgressRamp{Start: time.Now(), Duration: opts.arcDuration, Loop: true}

	pointer := &pointerState{}
	quit := make(chan struct{})

	cam := newCamState()
	go pollEvents(screen, pointer, cam, quit)

	renderer := core.NewRenderer(log)
	renderer.OnAnyTap = func(id string) { status.set("clicked " + id) }

	hover := scene.NewHoverTracker()
	tracer := otel.Tracer("globe-renderer/cmd/globe-tui")

	interval := time.Second / time.Duration(max(opts.fps, 1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-quit:
			return nil
		case now := <-ticker.C:
			if opts.spin != 0 {
				cam.spinBy(opts.spin * now.Sub(last).Seconds())
			}
			last = now

			_ = sc.MovePoint(satID, tracker.groundPoint(now))
			for _, c := range sc.Snapshot().Connections {
				_ = sc.SetConnectionProgress(c.ID, ramp.At(now))
			}

			frameCtx, span := tracer.Start(ctx, "frame")
			renderFrame(frameCtx, renderer, sc, surface, screen, status, pointer, hover, cam.get(), collector)
			span.End()
		}
	}
}

// renderFrame runs one geometric pass and flips the terminal buffer.
func renderFrame(
	ctx context.Context,
	renderer *core.Renderer,
	sc *scene.Scene,
	surface *cellSurface,
	screen tcell.Screen,
	status *statusLine,
	pointer *pointerState,
	hover *scene.HoverTracker,
	rotation model.Rotation,
	collector *observability.FrameCollector,
) {
	w, h := surface.logicalSize()
	radius := math.Min(w, h)/2 - 4
	if radius < 8 {
		radius = 8
	}

	entities := sc.Snapshot()
	hoverPt, clickPt := pointer.take()

	in := core.FrameInput{
		Viewport:    model.Viewport{Width: w, Height: h},
		Rotation:    rotation,
		Radius:      radius,
		Points:      entities.Points,
		Rods:        entities.Rods,
		Regions:     entities.Regions,
		Connections: entities.Connections,
		Hover:       hoverPt,
		Click:       clickPt,
	}

	screen.Clear()
	started := time.Now()
	report := renderer.RenderFrame(ctx, in, surface)
	collector.ObserveFrame(time.Since(started), report)

	for _, ev := range report.HoverEvents {
		if hover.Changed(ev) {
			if ev.Hovering {
				status.set("hovering " + ev.EntityID)
			} else {
				status.set("")
			}
		}
	}
	status.draw(screen)
	screen.Show()
}

// camState guards the camera rotation shared between the event
// goroutine and the frame loop.
type camState struct {
	mu  sync.Mutex
	rot model.Rotation
}

func newCamState() *camState {
	return &camState{rot: model.Rotation{Zoom: 1}}
}

func (c *camState) get() model.Rotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rot
}

func (c *camState) spinBy(delta float64) {
	c.mu.Lock()
	c.rot.Y += delta
	c.mu.Unlock()
}

func (c *camState) adjust(fn func(*model.Rotation)) {
	c.mu.Lock()
	fn(&c.rot)
	c.mu.Unlock()
}

// pollEvents feeds keyboard and mouse input to the frame loop. Arrow
// keys rotate, +/- zoom, q or Escape quits.
func pollEvents(screen tcell.Screen, pointer *pointerState, cam *camState, quit chan struct{}) {
	const rotStep = 0.08
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				close(quit)
				return
			case ev.Key() == tcell.KeyLeft:
				cam.adjust(func(r *model.Rotation) { r.Y -= rotStep })
			case ev.Key() == tcell.KeyRight:
				cam.adjust(func(r *model.Rotation) { r.Y += rotStep })
			case ev.Key() == tcell.KeyUp:
				cam.adjust(func(r *model.Rotation) { r.Z -= rotStep })
			case ev.Key() == tcell.KeyDown:
				cam.adjust(func(r *model.Rotation) { r.Z += rotStep })
			case ev.Rune() == '+' || ev.Rune() == '=':
				cam.adjust(func(r *model.Rotation) { r.Zoom = math.Min(r.Zoom*1.1, 8) })
			case ev.Rune() == '-':
				cam.adjust(func(r *model.Rotation) { r.Zoom = math.Max(r.Zoom/1.1, 0.2) })
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			pt := fromCell(x, y)
			pointer.setHover(pt)
			if ev.Buttons()&tcell.Button1 != 0 {
				pointer.setClick(pt)
			}
		}
	}
}

// populateScene loads the demo entities: a few cities, a rod, a circular
// highlight, a connection, and optional coastlines.
func populateScene(sc *scene.Scene, status *statusLine, opts options) error {
	cityFill := color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}
	labelC := color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}

	cities := []struct {
		id    string
		coord model.GeoCoordinate
	}{
		{"london", model.GeoCoordinate{Lat: 51.5074, Lon: -0.1278}},
		{"tokyo", model.GeoCoordinate{Lat: 35.6762, Lon: 139.6503}},
		{"sydney", model.GeoCoordinate{Lat: -33.8688, Lon: 151.2093}},
		{"sao-paulo", model.GeoCoordinate{Lat: -23.5505, Lon: -46.6333}},
	}
	for _, c := range cities {
		if _, err := sc.AddPoint(model.Point{
			ID:         c.id,
			Coord:      c.coord,
			Style:      model.PointStyle{Fill: cityFill, Size: 2},
			Label:      c.id,
			LabelStyle: model.LabelStyle{Color: labelC},
		}); err != nil {
			return err
		}
	}

	if _, err := sc.AddRod(model.Rod{
		ID:         "polar-probe",
		Start:      model.GeoCoordinate{Lat: 90},
		End:        model.GeoCoordinate{Lat: -90},
		Color:      color.RGBA{R: 0xFF, G: 0x57, B: 0x22, A: 0xFF},
		Width:      1,
		StickOutKm: 1200,
	}); err != nil {
		return err
	}

	if _, err := sc.AddRegion(model.Region{
		ID:       "pacific-ring",
		Kind:     model.RegionCircle,
		Center:   model.GeoCoordinate{Lat: 0, Lon: -150},
		RadiusKm: 2500,
		Color:    color.RGBA{R: 0x20, G: 0x4A, B: 0x6E, A: 0xFF},
	}); err != nil {
		return err
	}

	// Arc color from a perceptual blend so a half-drawn arc reads as
	// "in flight".
	from, _ := colorful.Hex("#00bcd4")
	to, _ := colorful.Hex("#ff4081")
	r, g, b := from.BlendLuv(to, 0.5).Clamped().RGB255()
	if _, err := sc.AddConnection(model.Connection{
		ID:          "london-tokyo",
		Start:       cities[0].coord,
		End:         cities[1].coord,
		StrokeWidth: 1,
		Color:       color.RGBA{R: r, G: g, B: b, A: 0xFF},
	}); err != nil {
		return err
	}

	if opts.shapefile != "" {
		n, err := loadCoastlines(sc, opts.shapefile, color.RGBA{R: 0x1B, G: 0x38, B: 0x2B, A: 0xFF})
		if err != nil {
			return fmt.Errorf("load coastlines: %w", err)
		}
		status.set(fmt.Sprintf("loaded %d coastline rings", n))
	}
	return nil
}

// statusLine is the single-row message bar at the bottom of the screen.
type statusLine struct {
	mu   sync.Mutex
	text string
}

func newStatusLine() *statusLine { return &statusLine{} }

func (s *statusLine) set(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *statusLine) draw(screen tcell.Screen) {
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()

	_, h := screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range "q quit | arrows rotate | +/- zoom | " + text {
		screen.SetContent(i, h-1, ch, nil, style)
	}
}
