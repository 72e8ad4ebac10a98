package canvas

import (
	"github.com/gogpu/canvas/internal/raster"
)

// Renderer fills and strokes paths onto a pixmap. Context delegates all
// pixel-producing work to a Renderer so callers can swap in a GPU or other
// custom backend via WithRenderer without touching path construction.
type Renderer interface {
	Fill(pixmap *Pixmap, path *Path, paint *Paint) error
	Stroke(pixmap *Pixmap, path *Path, paint *Paint) error
}

// RenderMode selects how SoftwareRenderer turns coverage into pixels.
type RenderMode int

const (
	// RenderModeDefault rasterizes with a plain scanline fill, no
	// anti-aliasing beyond whatever flattening tolerance is used.
	RenderModeDefault RenderMode = iota
	// RenderModeAnalytic computes exact per-pixel coverage via an
	// AnalyticFillerInterface implementation.
	RenderModeAnalytic
)

// AnalyticFillerInterface computes exact geometric coverage for a path,
// yielding per-scanline alpha runs through callback. Implementations
// typically wrap internal/raster.AnalyticFiller.
type AnalyticFillerInterface interface {
	Fill(path *Path, fillRule FillRule, callback func(y int, iter func(yield func(x int, alpha uint8) bool)))
	Reset()
}

// SoftwareRenderer is the CPU fallback renderer used when no custom
// Renderer is injected. It flattens paths to polylines and rasterizes them
// with internal/raster, optionally through an analytic coverage filler for
// higher-quality anti-aliasing.
type SoftwareRenderer struct {
	mode   RenderMode
	filler AnalyticFillerInterface
}

// NewSoftwareRenderer creates a default-mode software renderer.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{mode: RenderModeDefault}
}

// NewAnalyticSoftwareRenderer creates a software renderer that uses filler
// for analytic anti-aliasing.
func NewAnalyticSoftwareRenderer(filler AnalyticFillerInterface) *SoftwareRenderer {
	return &SoftwareRenderer{mode: RenderModeAnalytic, filler: filler}
}

// RenderMode reports which rasterization strategy this renderer uses.
func (r *SoftwareRenderer) RenderMode() RenderMode {
	return r.mode
}

// rasterPixmap adapts a canvas.Pixmap (and a flat color) to raster.Pixmap,
// blending source-over instead of overwriting so overlapping spans composite
// correctly.
type rasterPixmap struct {
	pm *Pixmap
}

func (a rasterPixmap) Width() int  { return a.pm.Width() }
func (a rasterPixmap) Height() int { return a.pm.Height() }

func (a rasterPixmap) SetPixel(x, y int, c raster.RGBA) {
	a.pm.FillSpanBlend(x, x+1, y, RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

func (a rasterPixmap) FillSpan(x1, x2, y int, c raster.RGBA) {
	a.pm.FillSpanBlend(x1, x2, y, RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

// flattenPath converts a Path into one or more closed polylines suitable
// for scanline rasterization, approximating curves with straight segments.
func flattenPath(p *Path) [][]raster.Point {
	const curveSteps = 24

	var polys [][]raster.Point
	var cur []raster.Point
	var start, last Point

	flush := func() {
		if len(cur) >= 2 {
			polys = append(polys, cur)
		}
		cur = nil
	}

	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			start, last = e.Point, e.Point
			cur = append(cur, raster.Point{X: e.Point.X, Y: e.Point.Y})
		case LineTo:
			last = e.Point
			cur = append(cur, raster.Point{X: e.Point.X, Y: e.Point.Y})
		case QuadTo:
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				pt := quadPoint(last, e.Control, e.Point, t)
				cur = append(cur, raster.Point{X: pt.X, Y: pt.Y})
			}
			last = e.Point
		case CubicTo:
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				pt := cubicPoint(last, e.Control1, e.Control2, e.Point, t)
				cur = append(cur, raster.Point{X: pt.X, Y: pt.Y})
			}
			last = e.Point
		case Close:
			cur = append(cur, raster.Point{X: start.X, Y: start.Y})
			last = start
		}
	}
	flush()
	return polys
}

func quadPoint(p0, c, p1 Point, t float64) Point {
	mt := 1 - t
	x := mt*mt*p0.X + 2*mt*t*c.X + t*t*p1.X
	y := mt*mt*p0.Y + 2*mt*t*c.Y + t*t*p1.Y
	return Point{X: x, Y: y}
}

func cubicPoint(p0, c1, c2, p1 Point, t float64) Point {
	mt := 1 - t
	x := mt*mt*mt*p0.X + 3*mt*mt*t*c1.X + 3*mt*t*t*c2.X + t*t*t*p1.X
	y := mt*mt*mt*p0.Y + 3*mt*mt*t*c1.Y + 3*mt*t*t*c2.Y + t*t*t*p1.Y
	return Point{X: x, Y: y}
}

// maskTarget adapts a Mask to raster.Pixmap so AsMask can reuse the same
// scanline rasterizer used for fills, writing coverage instead of color.
type maskTarget struct {
	mask *Mask
}

func (t maskTarget) Width() int  { return t.mask.Width() }
func (t maskTarget) Height() int { return t.mask.Height() }

func (t maskTarget) SetPixel(x, y int, c raster.RGBA) {
	t.mask.Set(x, y, uint8(clamp255(c.A*255)))
}

// pathRasterizer is a thin wrapper exposing the internal rasterizer for the
// mask-only fill path used by Context.AsMask.
type pathRasterizer struct {
	rz *raster.Rasterizer
}

func newPathRasterizer(width, height int) *pathRasterizer {
	return &pathRasterizer{rz: raster.NewRasterizer(width, height)}
}

func (p *pathRasterizer) fillMask(target maskTarget, poly []raster.Point, rule FillRule) {
	p.rz.Fill(target, poly, fillRuleToRaster(rule), raster.RGBA{R: 1, G: 1, B: 1, A: 1})
}

func fillRuleToRaster(r FillRule) raster.FillRule {
	if r == FillRuleEvenOdd {
		return raster.FillRuleEvenOdd
	}
	return raster.FillRuleNonZero
}

// Fill rasterizes path's filled interior onto pixmap using paint's brush
// and fill rule. Gradient and texture brushes are approximated by their
// color at the path's origin, since the plain scanline rasterizer fills
// with a single flat color per call; the tessellating GPU pipeline is the
// path that renders gradients and textures per pixel.
func (r *SoftwareRenderer) Fill(pixmap *Pixmap, path *Path, paint *Paint) error {
	rz := raster.NewRasterizer(pixmap.Width(), pixmap.Height())
	target := rasterPixmap{pm: pixmap}
	c := flatColor(paint, path)

	fillRule := fillRuleToRaster(paint.FillRule)
	if r.mode == RenderModeAnalytic && r.filler != nil {
		r.filler.Reset()
		r.filler.Fill(path, paint.FillRule, func(y int, iter func(yield func(x int, alpha uint8) bool)) {
			iter(func(x int, alpha uint8) bool {
				if alpha == 0 {
					return true
				}
				pc := c
				pc.A *= float64(alpha) / 255
				target.SetPixel(x, y, raster.RGBA{R: pc.R, G: pc.G, B: pc.B, A: pc.A})
				return true
			})
		})
		return nil
	}

	for _, poly := range flattenPath(path) {
		rz.Fill(target, poly, fillRule, raster.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	return nil
}

// Stroke expands path's outline to paint's line width and rasterizes the
// resulting fill. Dash patterns and joins/caps beyond a simple expansion
// are left to the tessellating pipeline; this path covers the common case
// of solid, moderate-width strokes for the alternative CPU consumer.
func (r *SoftwareRenderer) Stroke(pixmap *Pixmap, path *Path, paint *Paint) error {
	rz := raster.NewRasterizer(pixmap.Width(), pixmap.Height())
	target := rasterPixmap{pm: pixmap}
	c := flatColor(paint, path)

	width := paint.LineWidth
	if width <= 0 {
		width = 1
	}

	for _, poly := range flattenPath(path) {
		rz.Stroke(target, poly, width, raster.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	return nil
}

func flatColor(paint *Paint, path *Path) RGBA {
	x, y := 0.0, 0.0
	if path.HasCurrentPoint() {
		p := path.CurrentPoint()
		x, y = p.X, p.Y
	}
	return paint.ColorAt(x, y)
}
