package tessellate

import (
	"math"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/stroke"
)

// flattenTolerance bounds the deviation between a curve and the line
// segments approximating it, in path-space units (grounded on the
// teacher's fanFlattenTolerance).
const flattenTolerance = 0.25

// coverPadding pads a fill's AABB before it becomes a render stream
// cover quad, so anti-aliased edges at the path boundary are not
// clipped (grounded on the teacher's fanCoverPadding).
const coverPadding = 1.0

// fanBuilder accumulates triangle-fan vertices and an AABB for one
// path, following the teacher's FanTessellator: each contour fans out
// from its first vertex, so the result is only correct for convex or
// star-shaped contours unless paired with a stencil-then-cover pass at
// render time (see DESIGN.md).
type fanBuilder struct {
	vertices []float32
	minX, minY,
	maxX, maxY float64
	hasBounds bool
}

func (b *fanBuilder) point(x, y float64) {
	if !b.hasBounds {
		b.minX, b.minY, b.maxX, b.maxY = x, y, x, y
		b.hasBounds = true
		return
	}
	b.minX = math.Min(b.minX, x)
	b.minY = math.Min(b.minY, y)
	b.maxX = math.Max(b.maxX, x)
	b.maxY = math.Max(b.maxY, y)
}

func (b *fanBuilder) triangle(ox, oy, ax, ay, bx, by float64) {
	b.point(ax, ay)
	b.point(bx, by)
	b.vertices = append(b.vertices,
		float32(ox), float32(oy),
		float32(ax), float32(ay),
		float32(bx), float32(by),
	)
}

func (b *fanBuilder) bounds() canvas.Rect {
	if !b.hasBounds {
		return canvas.Rect{}
	}
	return canvas.Rect{
		Min: canvas.Pt(b.minX-coverPadding, b.minY-coverPadding),
		Max: canvas.Pt(b.maxX+coverPadding, b.maxY+coverPadding),
	}
}

// tessellateFan triangulates path into a flat triangle list (no shared
// vertices) by fanning every contour from its first vertex, flattening
// curves adaptively along the way. It returns the vertices as
// interleaved x, y float32 pairs in path space; the render stream
// applies the active transform in the vertex shader rather than here,
// matching the rest of the entity list (§4.4).
func tessellateFan(path []canvas.PathElement) (vertices []float32, bounds canvas.Rect) {
	b := &fanBuilder{}

	var originX, originY, prevX, prevY float64
	open := false

	for _, el := range path {
		switch e := el.(type) {
		case canvas.MoveTo:
			originX, originY = e.Point.X, e.Point.Y
			prevX, prevY = originX, originY
			open = true
			b.point(originX, originY)

		case canvas.LineTo:
			if !open {
				continue
			}
			b.triangle(originX, originY, prevX, prevY, e.Point.X, e.Point.Y)
			prevX, prevY = e.Point.X, e.Point.Y

		case canvas.QuadTo:
			if !open {
				continue
			}
			prevX, prevY = flattenQuadFan(b, originX, originY, prevX, prevY,
				e.Control.X, e.Control.Y, e.Point.X, e.Point.Y, flattenTolerance)

		case canvas.CubicTo:
			if !open {
				continue
			}
			prevX, prevY = flattenCubicFan(b, originX, originY, prevX, prevY,
				e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y, flattenTolerance)

		case canvas.Close:
			if !open {
				continue
			}
			if prevX != originX || prevY != originY {
				b.triangle(originX, originY, prevX, prevY, originX, originY)
			}
			prevX, prevY = originX, originY
			open = false
		}
	}

	return b.vertices, b.bounds()
}

func flattenQuadFan(b *fanBuilder, ox, oy, p0x, p0y, cx, cy, p1x, p1y, tol float64) (lastX, lastY float64) {
	if quadFlatEnough(p0x, p0y, cx, cy, p1x, p1y, tol) {
		b.triangle(ox, oy, p0x, p0y, p1x, p1y)
		return p1x, p1y
	}
	// de Casteljau midpoint subdivision.
	q0x, q0y := lerp(p0x, p0y, cx, cy, 0.5)
	q1x, q1y := lerp(cx, cy, p1x, p1y, 0.5)
	mx, my := lerp(q0x, q0y, q1x, q1y, 0.5)
	lastX, lastY = flattenQuadFan(b, ox, oy, p0x, p0y, q0x, q0y, mx, my, tol)
	return flattenQuadFan(b, ox, oy, lastX, lastY, q1x, q1y, p1x, p1y, tol)
}

func flattenCubicFan(b *fanBuilder, ox, oy, p0x, p0y, c1x, c1y, c2x, c2y, p1x, p1y, tol float64) (lastX, lastY float64) {
	if cubicFlatEnough(p0x, p0y, c1x, c1y, c2x, c2y, p1x, p1y, tol) {
		b.triangle(ox, oy, p0x, p0y, p1x, p1y)
		return p1x, p1y
	}
	q0x, q0y := lerp(p0x, p0y, c1x, c1y, 0.5)
	q1x, q1y := lerp(c1x, c1y, c2x, c2y, 0.5)
	q2x, q2y := lerp(c2x, c2y, p1x, p1y, 0.5)
	r0x, r0y := lerp(q0x, q0y, q1x, q1y, 0.5)
	r1x, r1y := lerp(q1x, q1y, q2x, q2y, 0.5)
	sx, sy := lerp(r0x, r0y, r1x, r1y, 0.5)
	lastX, lastY = flattenCubicFan(b, ox, oy, p0x, p0y, q0x, q0y, r0x, r0y, sx, sy, tol)
	return flattenCubicFan(b, ox, oy, lastX, lastY, r1x, r1y, q2x, q2y, p1x, p1y, tol)
}

func lerp(ax, ay, bx, by, t float64) (float64, float64) {
	return ax + (bx-ax)*t, ay + (by-ay)*t
}

func quadFlatEnough(p0x, p0y, cx, cy, p1x, p1y, tol float64) bool {
	return distanceToLine(cx, cy, p0x, p0y, p1x, p1y) < tol
}

func cubicFlatEnough(p0x, p0y, c1x, c1y, c2x, c2y, p1x, p1y, tol float64) bool {
	d1 := distanceToLine(c1x, c1y, p0x, p0y, p1x, p1y)
	d2 := distanceToLine(c2x, c2y, p0x, p0y, p1x, p1y)
	return math.Max(d1, d2) < tol
}

func distanceToLine(px, py, ax, ay, bx, by float64) float64 {
	abx, aby := bx-ax, by-ay
	abLen := math.Hypot(abx, aby)
	if abLen < 1e-10 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*abx + (py-ay)*aby) / (abLen * abLen)
	switch {
	case t < 0:
		return math.Hypot(px-ax, py-ay)
	case t > 1:
		return math.Hypot(px-bx, py-by)
	default:
		cxp, cyp := ax+abx*t, ay+aby*t
		return math.Hypot(px-cxp, py-cyp)
	}
}

// expandStroke converts path into the filled outline covering its
// stroke, using internal/stroke's kurbo-style offset-path expander, and
// returns it as canvas path elements ready for tessellateFan.
func expandStroke(path []canvas.PathElement, s strokeSettings, scaleFactor float64) []canvas.PathElement {
	width := s.width
	if s.usePixel && scaleFactor > 0 {
		width = s.pixelWidth / scaleFactor
	}
	style := stroke.Stroke{
		Width:      width,
		Cap:        toStrokeCap(s.cap),
		Join:       toStrokeJoin(s.join),
		MiterLimit: s.miterLimit,
	}
	expander := stroke.NewStrokeExpander(style)
	result := expander.Expand(toStrokeElements(path))
	return toCanvasElements(result)
}

func toStrokeCap(c canvas.LineCap) stroke.LineCap {
	switch c {
	case canvas.LineCapRound:
		return stroke.LineCapRound
	case canvas.LineCapSquare:
		return stroke.LineCapSquare
	default:
		return stroke.LineCapButt
	}
}

func toStrokeJoin(j canvas.LineJoin) stroke.LineJoin {
	switch j {
	case canvas.LineJoinRound:
		return stroke.LineJoinRound
	case canvas.LineJoinBevel:
		return stroke.LineJoinBevel
	default:
		return stroke.LineJoinMiter
	}
}

func toStrokeElements(path []canvas.PathElement) []stroke.PathElement {
	out := make([]stroke.PathElement, 0, len(path))
	for _, el := range path {
		switch e := el.(type) {
		case canvas.MoveTo:
			out = append(out, stroke.MoveTo{Point: stroke.Point{X: e.Point.X, Y: e.Point.Y}})
		case canvas.LineTo:
			out = append(out, stroke.LineTo{Point: stroke.Point{X: e.Point.X, Y: e.Point.Y}})
		case canvas.QuadTo:
			out = append(out, stroke.QuadTo{
				Control: stroke.Point{X: e.Control.X, Y: e.Control.Y},
				Point:   stroke.Point{X: e.Point.X, Y: e.Point.Y},
			})
		case canvas.CubicTo:
			out = append(out, stroke.CubicTo{
				Control1: stroke.Point{X: e.Control1.X, Y: e.Control1.Y},
				Control2: stroke.Point{X: e.Control2.X, Y: e.Control2.Y},
				Point:    stroke.Point{X: e.Point.X, Y: e.Point.Y},
			})
		case canvas.Close:
			out = append(out, stroke.Close{})
		}
	}
	return out
}

func toCanvasElements(path []stroke.PathElement) []canvas.PathElement {
	out := make([]canvas.PathElement, 0, len(path))
	for _, el := range path {
		switch e := el.(type) {
		case stroke.MoveTo:
			out = append(out, canvas.MoveTo{Point: canvas.Pt(e.Point.X, e.Point.Y)})
		case stroke.LineTo:
			out = append(out, canvas.LineTo{Point: canvas.Pt(e.Point.X, e.Point.Y)})
		case stroke.QuadTo:
			out = append(out, canvas.QuadTo{
				Control: canvas.Pt(e.Control.X, e.Control.Y),
				Point:   canvas.Pt(e.Point.X, e.Point.Y),
			})
		case stroke.CubicTo:
			out = append(out, canvas.CubicTo{
				Control1: canvas.Pt(e.Control1.X, e.Control1.Y),
				Control2: canvas.Pt(e.Control2.X, e.Control2.Y),
				Point:    canvas.Pt(e.Point.X, e.Point.Y),
			})
		case stroke.Close:
			out = append(out, canvas.Close{})
		}
	}
	return out
}
