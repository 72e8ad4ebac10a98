// Package tessellate implements the tessellator (component E): it walks
// a stream of canvas.Draw instructions and turns path data into
// GPU-ready triangles, writing the results into a render.Core's layer
// entity lists through the entity slot protocol.
package tessellate

import (
	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/render"
)

// jobKind discriminates the three tessellation job shapes of §4.4.
type jobKind int

const (
	jobFill jobKind = iota
	jobStroke
	jobClip
)

// strokeSettings mirrors the running stroke state accumulated from
// SetLineWidth/SetLineWidthPixels/SetLineCap/SetLineJoin/SetDashPattern/
// SetDashOffset at the moment a Stroke instruction is processed.
type strokeSettings struct {
	width      float64
	pixelWidth float64
	usePixel   bool
	cap        canvas.LineCap
	join       canvas.LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64
}

// job is the tessellator's internal unit of work (§4.4 "Job types").
// entityRef identifies the exact placeholder slot the result must be
// written back into.
type job struct {
	kind jobKind

	path        []canvas.PathElement
	windingRule canvas.WindingRule
	stroke      strokeSettings
	transform   canvas.Matrix
	scaleFactor float64

	entityRef entityRef
}

// entityRef is the back-reference a dispatched job carries to the layer
// and entity slot its result belongs in (§4.4 "back-reference to the
// layer and entity slot").
type entityRef struct {
	handle render.LayerHandle
	slot   int
	jobID  uint64
}
