package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/signalsfoundry/globe-renderer/core"
	"github.com/signalsfoundry/globe-renderer/model"
)

// whiteSubImage is the 1x1 texture used to fill vector paths, per the
// standard ebiten vector-drawing pattern.
var whiteSubImage *ebiten.Image

func init() {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// vectorSurface adapts an ebiten frame image to core.DrawSurface.
type vectorSurface struct {
	dst *ebiten.Image
}

func (s *vectorSurface) StrokeLine(a, b model.ScreenPoint, stroke color.RGBA, width float64) {
	if width < 1 {
		width = 1
	}
	vector.StrokeLine(s.dst,
		float32(a.X), float32(a.Y), float32(b.X), float32(b.Y),
		float32(width), stroke, true)
}

func (s *vectorSurface) StrokePath(path []model.ScreenPoint, stroke color.RGBA, width float64) {
	for i := 0; i+1 < len(path); i++ {
		s.StrokeLine(path[i], path[i+1], stroke, width)
	}
}

func (s *vectorSurface) FillRing(ring []model.ScreenPoint, fill color.RGBA) {
	if len(ring) < 3 {
		return
	}
	var p vector.Path
	p.MoveTo(float32(ring[0].X), float32(ring[0].Y))
	for _, q := range ring[1:] {
		p.LineTo(float32(q.X), float32(q.Y))
	}
	p.Close()

	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	r := float32(fill.R) / 255
	g := float32(fill.G) / 255
	b := float32(fill.B) / 255
	a := float32(fill.A) / 255
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
	s.dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		FillRule:  ebiten.EvenOdd,
		AntiAlias: true,
	})
}

func (s *vectorSurface) FillOval(r core.Rect, fill color.RGBA) {
	c := r.Center()
	// Markers are near-circular; the smaller semi-axis keeps the fill
	// inside the hit rectangle.
	radius := min(r.W, r.H) / 2
	if radius < 1 {
		radius = 1
	}
	vector.DrawFilledCircle(s.dst, float32(c.X), float32(c.Y), float32(radius), fill, true)
}

func (s *vectorSurface) DrawLabel(at model.ScreenPoint, text string, fill color.RGBA) {
	ebitenutil.DebugPrintAt(s.dst, text, int(at.X)+6, int(at.Y)-6)
}
