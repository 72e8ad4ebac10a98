// Package canvas is the data model and producer-side API for a
// retained-mode 2D vector graphics pipeline.
//
// # Overview
//
// canvas defines the Draw instruction set that producers emit to describe
// a drawing: paths, fills, strokes, transforms, clips, layers, sprites,
// textures, gradients and frame control. The Draw vocabulary never owns a
// window or a GPU context; it is shared by the three subsystems built on
// top of it (the package also carries Context, an immediate-mode surface
// that rasterizes into a Pixmap in software):
//
//   - github.com/gogpu/canvas/stream retains the instruction log and
//     fans it out to any number of subscribers.
//   - github.com/gogpu/canvas/codec converts the instruction stream to
//     and from a compact textual wire form.
//   - github.com/gogpu/canvas/render and
//     github.com/gogpu/canvas/renderstream tessellate the instruction
//     stream into GPU render actions.
//
// # Quick Start
//
//	engine := stream.New()
//	gc := canvas.NewRecorder(engine)
//	gc.FillColor(canvas.RGB(1, 0, 0)).
//		NewPath().
//		MoveTo(156, 156).LineTo(356, 156).LineTo(356, 356).LineTo(156, 356).
//		ClosePath().
//		Fill()
//	gc.Flush()
//
// # Architecture
//
// The package is organized into:
//   - Data model: Draw and its variants (NewPathOp, MoveOp, ...), RGBA, Matrix, ids
//   - Producer API: Recorder, a thin sink over a stream writer
//   - Immediate-mode API: Context, drawing into a Pixmap
//   - Ambient state: StrokeSettings, Dash, Gradient
//
// # Coordinate System
//
// Uses standard computer graphics coordinates: origin at the top-left,
// x increases right, y increases down. Angles are in radians.
package canvas
