package software

import (
	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/clip"
	"github.com/gogpu/canvas/internal/path"
	"github.com/gogpu/canvas/internal/stroke"
)

// strokeSettings mirrors tessellate's own copy: the accumulated stroke
// parameters a Stroke instruction resolves against.
type strokeSettings struct {
	width      float64
	usePixel   bool
	pixelWidth float64
	cap        canvas.LineCap
	join       canvas.LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64
}

type fillKind int

const (
	fillColorKind fillKind = iota
	fillTextureKind
	fillGradientKind
)

// targetState is the per-Target retained state the software renderer
// tracks between NewPath and Fill/Stroke/Clip, the same state shape
// canvas/tessellate keeps but replayed straight onto a pixel buffer
// instead of a render core.
type targetState struct {
	path        []canvas.PathElement
	subpathOpen bool

	windingRule canvas.WindingRule
	stroke      strokeSettings
	transform   canvas.Matrix

	fillColor canvas.RGBA
	fillKind  fillKind

	blendMode canvas.BlendMode
	alpha     float64

	clipStack []*clip.MaskClipper
}

func newTargetState() *targetState {
	return &targetState{
		transform: canvas.Identity(),
		fillColor: canvas.RGBA{A: 1},
		stroke:    strokeSettings{width: 1, miterLimit: 4},
		blendMode: canvas.BlendSourceOver,
		alpha:     1,
	}
}

func (st *targetState) activeClip() *clip.MaskClipper {
	if len(st.clipStack) == 0 {
		return nil
	}
	return st.clipStack[len(st.clipStack)-1]
}

// toPathElements applies m to a path's points for curve flattening.
// internal/path's element type is canvas.PathElement itself, so this is
// just the transform, not a conversion.
func toPathElements(elems []canvas.PathElement, m canvas.Matrix) []path.PathElement {
	out := make([]path.PathElement, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case canvas.MoveTo:
			out = append(out, canvas.MoveTo{Point: m.TransformPoint(v.Point)})
		case canvas.LineTo:
			out = append(out, canvas.LineTo{Point: m.TransformPoint(v.Point)})
		case canvas.QuadTo:
			out = append(out, canvas.QuadTo{Control: m.TransformPoint(v.Control), Point: m.TransformPoint(v.Point)})
		case canvas.CubicTo:
			out = append(out, canvas.CubicTo{
				Control1: m.TransformPoint(v.Control1),
				Control2: m.TransformPoint(v.Control2),
				Point:    m.TransformPoint(v.Point),
			})
		case canvas.Close:
			out = append(out, canvas.Close{})
		}
	}
	return out
}

// toClipElements applies m to a path's points; MaskClipper flattens and
// rasterizes the result itself. internal/clip's element type is
// canvas.PathElement itself, so this is just the transform.
func toClipElements(elems []canvas.PathElement, m canvas.Matrix) []clip.PathElement {
	out := make([]clip.PathElement, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case canvas.MoveTo:
			out = append(out, canvas.MoveTo{Point: m.TransformPoint(v.Point)})
		case canvas.LineTo:
			out = append(out, canvas.LineTo{Point: m.TransformPoint(v.Point)})
		case canvas.QuadTo:
			out = append(out, canvas.QuadTo{Control: m.TransformPoint(v.Control), Point: m.TransformPoint(v.Point)})
		case canvas.CubicTo:
			out = append(out, canvas.CubicTo{
				Control1: m.TransformPoint(v.Control1),
				Control2: m.TransformPoint(v.Control2),
				Point:    m.TransformPoint(v.Point),
			})
		case canvas.Close:
			out = append(out, canvas.Close{})
		}
	}
	return out
}

// toStrokeElements converts a path into internal/stroke's element type
// in local (untransformed) path units, matching canvas/tessellate's own
// adapter: stroke width is resolved before the transform is applied.
func toStrokeElements(elems []canvas.PathElement) []stroke.PathElement {
	out := make([]stroke.PathElement, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case canvas.MoveTo:
			out = append(out, stroke.MoveTo{Point: stroke.Point{X: v.Point.X, Y: v.Point.Y}})
		case canvas.LineTo:
			out = append(out, stroke.LineTo{Point: stroke.Point{X: v.Point.X, Y: v.Point.Y}})
		case canvas.QuadTo:
			out = append(out, stroke.QuadTo{
				Control: stroke.Point{X: v.Control.X, Y: v.Control.Y},
				Point:   stroke.Point{X: v.Point.X, Y: v.Point.Y},
			})
		case canvas.CubicTo:
			out = append(out, stroke.CubicTo{
				Control1: stroke.Point{X: v.Control1.X, Y: v.Control1.Y},
				Control2: stroke.Point{X: v.Control2.X, Y: v.Control2.Y},
				Point:    stroke.Point{X: v.Point.X, Y: v.Point.Y},
			})
		case canvas.Close:
			out = append(out, stroke.Close{})
		}
	}
	return out
}

// toPathElementsFromStroke converts a stroke-expanded outline (still in
// local path units) into internal/path's element type, applying m so
// the flattened result lands in device space.
func toPathElementsFromStroke(elems []stroke.PathElement, m canvas.Matrix) []path.PathElement {
	out := make([]path.PathElement, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case stroke.MoveTo:
			out = append(out, canvas.MoveTo{Point: m.TransformPoint(canvas.Pt(v.Point.X, v.Point.Y))})
		case stroke.LineTo:
			out = append(out, canvas.LineTo{Point: m.TransformPoint(canvas.Pt(v.Point.X, v.Point.Y))})
		case stroke.QuadTo:
			out = append(out, canvas.QuadTo{
				Control: m.TransformPoint(canvas.Pt(v.Control.X, v.Control.Y)),
				Point:   m.TransformPoint(canvas.Pt(v.Point.X, v.Point.Y)),
			})
		case stroke.CubicTo:
			out = append(out, canvas.CubicTo{
				Control1: m.TransformPoint(canvas.Pt(v.Control1.X, v.Control1.Y)),
				Control2: m.TransformPoint(canvas.Pt(v.Control2.X, v.Control2.Y)),
				Point:    m.TransformPoint(canvas.Pt(v.Point.X, v.Point.Y)),
			})
		case stroke.Close:
			out = append(out, canvas.Close{})
		}
	}
	return out
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
