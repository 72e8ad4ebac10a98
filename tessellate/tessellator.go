package tessellate

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/cache"
	"github.com/gogpu/canvas/internal/parallel"
	"github.com/gogpu/canvas/render"
	"github.com/gogpu/canvas/stream"
)

// targetState is the accumulated canvas state the tessellator tracks
// per Target: the path under construction, the current paint settings,
// and the transform, clip, and stroke state a subsequent Fill/Stroke/
// Clip instruction is tessellated against. It mirrors the graphics
// context state a producer builds up between NewPath and Fill (§4.1),
// replayed here on the consumer side.
type targetState struct {
	handle render.LayerHandle

	path        []canvas.PathElement
	subpathOpen bool

	windingRule canvas.WindingRule
	stroke      strokeSettings
	transform   canvas.Matrix

	fillColor    canvas.RGBA
	fillTexture  canvas.TextureId
	fillGradient canvas.GradientId
	fillKind     fillKind
	blendMode    canvas.BlendMode
}

type fillKind int

const (
	fillColorKind fillKind = iota
	fillTextureKind
	fillGradientKind
)

func newTargetState(h render.LayerHandle) *targetState {
	return &targetState{
		handle:    h,
		transform: canvas.Identity(),
		fillColor: canvas.RGBA{A: 1},
		stroke:    strokeSettings{width: 1, miterLimit: 4},
	}
}

// Tessellator is the tessellator (component E). It consumes a stream
// subscriber's entries, drives every non-geometry instruction straight
// into a render.Core, and dispatches Fill/Stroke/Clip instructions to a
// worker pool that tessellates in the background and writes results
// back through the core's Reserve/Resolve entity slot protocol (§4.4).
type Tessellator struct {
	core    *render.Core
	buffers *Buffers

	pool *parallel.WorkerPool

	// results memoizes tessellation output by path shape, winding rule,
	// and stroke settings. tessellateFan works in path space only (the
	// transform is applied later, via the entity's Transform field), so
	// a cache key built from those alone is safe to reuse across calls
	// that differ only in their current transform.
	results *cache.ShardedCache[string, tessResult]

	mu               sync.Mutex
	layerHandles     map[canvas.LayerId]render.LayerHandle
	spriteTransforms map[canvas.SpriteId]canvas.Matrix
	targets          map[canvas.Target]*targetState
	scaleFactor      float64
	workers          int
}

// tessResult is a memoized tessellation: the vertex/index data and
// bounds produced by tessellateFan for a given path shape, independent
// of the transform in effect when it was requested.
type tessResult struct {
	vertices []float32
	indices  []uint32
	bounds   canvas.Rect
}

// Option configures a Tessellator.
type Option func(*Tessellator)

// WithWorkers overrides the worker pool size (default: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(t *Tessellator) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithScaleFactor sets the device scale factor used to resolve
// SetLineWidthPixels against the current transform (§4.4 "scale
// factor").
func WithScaleFactor(s float64) Option {
	return func(t *Tessellator) { t.scaleFactor = s }
}

// New creates a Tessellator writing into core, with its own buffer
// store for tessellated vertex/index data.
func New(core *render.Core, opts ...Option) *Tessellator {
	t := &Tessellator{
		core:             core,
		buffers:          NewBuffers(),
		results:          cache.NewSharded[string, tessResult](0, cache.StringHasher),
		layerHandles:     make(map[canvas.LayerId]render.LayerHandle),
		spriteTransforms: make(map[canvas.SpriteId]canvas.Matrix),
		targets:          make(map[canvas.Target]*targetState),
		scaleFactor:      1,
		workers:          runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.workers < 1 {
		t.workers = 1
	}
	t.layerHandles[canvas.LayerId(0)] = render.LayerHandle(0)
	t.pool = parallel.NewWorkerPool(t.workers)
	return t
}

// Buffers returns the vertex/index buffer store this tessellator
// writes tessellation results into; canvas/renderstream reads it back
// by id.
func (t *Tessellator) Buffers() *Buffers { return t.buffers }

// Close stops the worker pool, waiting for in-flight jobs to finish.
func (t *Tessellator) Close() {
	t.pool.Close()
}

// Run drains sub until it closes, processing every delivered entry.
// It is meant to run in its own goroutine alongside the stream engine.
func (t *Tessellator) Run(sub *stream.Subscriber) {
	for {
		entries, ok := sub.Next()
		for _, e := range entries {
			t.process(e)
		}
		if !ok {
			return
		}
	}
}

func (t *Tessellator) state(target canvas.Target) *targetState {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.targets[target]
	if ok {
		return st
	}
	var h render.LayerHandle
	switch target.Kind {
	case canvas.TargetLayer:
		h = t.layerHandleLocked(target.Layer)
	case canvas.TargetSprite:
		h = t.core.EnsureSprite(target.Sprite)
	default:
		h = render.LayerHandle(0)
	}
	st = newTargetState(h)
	t.targets[target] = st
	return st
}

// layerHandleLocked resolves id to a stable LayerHandle, creating one
// on first reference. render.Core has no producer-id index for layers
// (only sprites, via EnsureSprite), so the tessellator keeps this
// mapping itself. Caller holds t.mu.
func (t *Tessellator) layerHandleLocked(id canvas.LayerId) render.LayerHandle {
	if h, ok := t.layerHandles[id]; ok {
		return h
	}
	h := t.core.AddLayer()
	t.layerHandles[id] = h
	return h
}

// process dispatches one stream entry to the render core or the
// tessellation job queue.
func (t *Tessellator) process(e stream.Entry) {
	st := t.state(e.Target)
	h := st.handle

	switch d := e.Draw.(type) {
	// --- frame control ---
	case canvas.StartFrame:
		t.core.EnterFrame()
	case canvas.ShowFrame:
		t.core.ExitFrame()
	case canvas.ResetFrame:
		t.core.ResetFrameDepth()

	// --- path construction ---
	case canvas.NewPathOp:
		st.path = nil
		st.subpathOpen = false
	case canvas.MoveOp:
		st.path = append(st.path, canvas.MoveTo{Point: canvas.Pt(d.X, d.Y)})
		st.subpathOpen = true
	case canvas.LineOp:
		if st.subpathOpen {
			st.path = append(st.path, canvas.LineTo{Point: canvas.Pt(d.X, d.Y)})
		}
	case canvas.BezierCurveOp:
		if st.subpathOpen {
			st.path = append(st.path, canvas.CubicTo{
				Control1: canvas.Pt(d.CP1X, d.CP1Y),
				Control2: canvas.Pt(d.CP2X, d.CP2Y),
				Point:    canvas.Pt(d.X, d.Y),
			})
		}
	case canvas.ClosePathOp:
		if st.subpathOpen {
			st.path = append(st.path, canvas.Close{})
		}

	// --- paint settings ---
	case canvas.SetFillColor:
		st.fillKind = fillColorKind
		st.fillColor = d.Color
	case canvas.SetFillTexture:
		st.fillKind = fillTextureKind
		st.fillTexture = d.Texture
		t.core.RetainTexture(d.Texture)
		t.core.Append(h, render.Entity{Kind: render.EntitySetFillTexture, Texture: d.Texture, Transform: d.Transform})
	case canvas.SetFillGradient:
		st.fillKind = fillGradientKind
		st.fillGradient = d.Gradient
		t.core.RetainGradient(d.Gradient)
		t.core.Append(h, render.Entity{Kind: render.EntitySetFillGradient, Gradient: d.Gradient, Transform: d.Transform})
	case canvas.SetWindingRule:
		st.windingRule = d.Rule
	case canvas.SetLineWidth:
		st.stroke.width = d.Width
		st.stroke.usePixel = false
	case canvas.SetLineWidthPixels:
		st.stroke.pixelWidth = d.Width
		st.stroke.usePixel = true
	case canvas.SetLineJoin:
		st.stroke.join = d.Join
	case canvas.SetLineCap:
		st.stroke.cap = d.Cap
	case canvas.SetDashPattern:
		st.stroke.dash = d.Lengths
		t.core.Append(h, render.Entity{Kind: render.EntitySetDashPattern, Dash: d.Lengths})
	case canvas.SetDashOffset:
		st.stroke.dashOffset = d.Offset
	case canvas.SetBlendMode:
		st.blendMode = d.Mode
		t.core.Append(h, render.Entity{Kind: render.EntitySetBlendMode, BlendMode: d.Mode})

	// --- fill/stroke invocation: dispatch tessellation jobs ---
	case canvas.Fill:
		t.dispatchFill(h, st)
	case canvas.Stroke:
		t.dispatchStroke(h, st)

	// --- transform stack ---
	case canvas.IdentityTransformOp:
		st.transform = canvas.Identity()
		t.emitTransform(h, st)
	case canvas.CanvasHeightOp:
		st.transform = canvasHeightMatrix(d.Height)
		t.emitTransform(h, st)
	case canvas.CenterRegionOp:
		st.transform = centerRegionMatrix(d.MinX, d.MinY, d.MaxX, d.MaxY)
		t.emitTransform(h, st)
	case canvas.MultiplyTransformOp:
		st.transform = st.transform.Multiply(d.M)
		t.emitTransform(h, st)

	// --- clipping ---
	case canvas.ClipOp:
		t.dispatchClip(h, st)
	case canvas.UnclipOp:
		t.core.Append(h, render.Entity{Kind: render.EntityDisableClipping})

	// --- state stack ---
	case canvas.PushStateOp:
		t.core.PushState(h)
	case canvas.PopStateOp:
		t.core.PopState(h)
	case canvas.StoreOp, canvas.RestoreOp, canvas.FreeStoredBufferOp:
		// Store/Restore/FreeStoredBuffer rewind the retained log itself
		// (component C); by the time an entry reaches the tessellator the
		// log already reflects their effect, so there is nothing further
		// to apply here.

	// --- canvas/layer/sprite management ---
	case canvas.ClearLayerOp, canvas.ClearSpriteOp:
		t.core.ClearEntities(h)
	case canvas.ClearAllLayersOp:
		for _, lh := range t.core.Order() {
			t.core.ClearEntities(lh)
		}
	case canvas.ClearCanvas:
		t.clearCanvas()
	case canvas.SwapLayersOp:
		t.core.SwapLayers(t.layerHandleFor(d.A), t.layerHandleFor(d.B))
	case canvas.LayerOp, canvas.SpriteOp:
		// Target selection only; st.handle already resolved above.
	case canvas.LayerBlendOp:
		lh := t.layerHandleFor(d.Id)
		t.core.SetLayerBlend(lh, d.Mode)
	case canvas.LayerAlphaOp:
		lh := t.layerHandleFor(d.Id)
		t.core.SetLayerAlpha(lh, d.Alpha)
	case canvas.SpriteTransformOp:
		t.mu.Lock()
		t.spriteTransforms[e.Target.Sprite] = d.M
		t.mu.Unlock()
	case canvas.DrawSpriteOp:
		t.core.EnsureSprite(d.Id)
		t.mu.Lock()
		xform := t.spriteTransforms[d.Id]
		t.mu.Unlock()
		t.core.Append(h, render.Entity{Kind: render.EntityRenderSprite, Sprite: d.Id, Transform: xform})

	// --- textures ---
	case canvas.CreateTexture:
		t.core.CreateTexture(d.Id, d.Width, d.Height)
	case canvas.FreeTexture:
		t.core.FreeTexture(d.Id)
	case canvas.SetTextureBytes:
		t.core.SetTextureBytes(d.Id, d.X, d.Y, d.W, d.H, d.Bytes)
	case canvas.SetTextureFromSprite:
		t.core.SetTextureFromSprite(d.Texture, d.Sprite, d.Bounds)
	case canvas.CreateDynamicTexture:
		t.core.CreateDynamicTexture(d.Texture, d.Sprite, d.Bounds, d.CanvasSize.W, d.CanvasSize.H)
	case canvas.TextureFillTransparencyOp:
		t.core.SetTextureTransparency(d.Texture, d.Transparent)
	case canvas.CopyTextureOp:
		t.core.CopyTexture(d.Src, d.Dst)
	case canvas.FilterTextureOp:
		t.core.FilterTexture(d.Texture, d.Filter, d.Params)

	// --- gradients ---
	case canvas.CreateGradient:
		t.core.CreateGradient(d.Id)
	case canvas.GradientAddStop:
		t.core.GradientAddStop(d.Id, d.Offset, d.Color)

	// --- text: carried opaquely, no tessellation (§1 Non-goals) ---
	case canvas.UseFontDefinitionOp, canvas.FontSizeOp, canvas.DrawGlyphsOp, canvas.LayoutTextOp:
	}
}

// clearCanvas clears every layer and every sprite this tessellator has
// seen, mirroring ClearCanvas's "drops every non-frame-tagged log
// entry" against the render core's accumulated entity lists (which
// otherwise retain geometry the retained log no longer replays).
func (t *Tessellator) clearCanvas() {
	for _, lh := range t.core.Order() {
		t.core.ClearEntities(lh)
	}
	t.mu.Lock()
	sprites := make([]render.LayerHandle, 0)
	for tgt, st := range t.targets {
		if tgt.Kind == canvas.TargetSprite {
			sprites = append(sprites, st.handle)
		}
	}
	t.mu.Unlock()
	for _, sh := range sprites {
		t.core.ClearEntities(sh)
	}
}

func (t *Tessellator) layerHandleFor(id canvas.LayerId) render.LayerHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.layerHandleLocked(id)
}

func (t *Tessellator) emitTransform(h render.LayerHandle, st *targetState) {
	t.core.Append(h, render.Entity{Kind: render.EntitySetTransform, Transform: st.transform})
}

func (t *Tessellator) dispatchFill(h render.LayerHandle, st *targetState) {
	if len(st.path) == 0 {
		return
	}
	t.applyPaint(h, st)
	slot, id := t.core.Reserve(h)
	path := append([]canvas.PathElement(nil), st.path...)
	j := job{
		kind:        jobFill,
		path:        path,
		windingRule: st.windingRule,
		transform:   st.transform,
		scaleFactor: t.scaleFactor,
		entityRef:   entityRef{handle: h, slot: slot, jobID: id},
	}
	t.pool.Submit(func() { t.runJob(j) })
}

func (t *Tessellator) dispatchStroke(h render.LayerHandle, st *targetState) {
	if len(st.path) == 0 {
		return
	}
	t.applyPaint(h, st)
	slot, id := t.core.Reserve(h)
	path := append([]canvas.PathElement(nil), st.path...)
	j := job{
		kind:        jobStroke,
		path:        path,
		stroke:      st.stroke,
		transform:   st.transform,
		scaleFactor: t.scaleFactor,
		entityRef:   entityRef{handle: h, slot: slot, jobID: id},
	}
	t.pool.Submit(func() { t.runJob(j) })
}

// dispatchClip tessellates the current path into a clip mask entity,
// then emits EnableClipping so subsequent draws in this layer know a
// clip mask is active. A Clip with no current path still enables
// clipping, against an empty mask (clips out everything that follows).
func (t *Tessellator) dispatchClip(h render.LayerHandle, st *targetState) {
	if len(st.path) != 0 {
		slot, id := t.core.Reserve(h)
		path := append([]canvas.PathElement(nil), st.path...)
		j := job{
			kind:        jobClip,
			path:        path,
			windingRule: st.windingRule,
			transform:   st.transform,
			scaleFactor: t.scaleFactor,
			entityRef:   entityRef{handle: h, slot: slot, jobID: id},
		}
		t.pool.Submit(func() { t.runJob(j) })
	}
	t.core.Append(h, render.Entity{Kind: render.EntityEnableClipping})
}

// applyPaint emits a SetFlatColor state entity ahead of a Fill/Stroke
// dispatch when a flat color is the active fill kind; texture/gradient
// fills are already tracked by the SetFillTexture/SetFillGradient
// entities appended when they were set.
func (t *Tessellator) applyPaint(h render.LayerHandle, st *targetState) {
	if st.fillKind == fillColorKind {
		t.core.Append(h, render.Entity{Kind: render.EntitySetFlatColor, Color: st.fillColor})
	}
}

func (t *Tessellator) runJob(j job) {
	tr := t.results.GetOrCreate(cacheKey(j), func() tessResult {
		var path []canvas.PathElement
		switch j.kind {
		case jobStroke:
			path = expandStroke(j.path, j.stroke, j.scaleFactor)
		default:
			path = j.path
		}

		vertices, bounds := tessellateFan(path)
		if len(vertices) == 0 {
			return tessResult{bounds: bounds}
		}

		indices := make([]uint32, len(vertices)/2)
		for i := range indices {
			indices[i] = uint32(i)
		}
		return tessResult{vertices: vertices, indices: indices, bounds: bounds}
	})

	if len(tr.vertices) == 0 {
		t.core.Resolve(j.entityRef.handle, j.entityRef.slot, j.entityRef.jobID, render.Entity{Kind: render.EntityFill})
		return
	}

	vid := t.core.AllocVertexBufferID()
	iid := t.core.AllocIndexBufferID()
	t.buffers.put(vid, tr.vertices, iid, tr.indices)

	kind := render.EntityFill
	switch j.kind {
	case jobStroke:
		kind = render.EntityStroke
	case jobClip:
		kind = render.EntityClip
	}

	result := render.Entity{
		Kind:         kind,
		VertexBuffer: vid,
		IndexBuffer:  iid,
		IndexCount:   len(tr.indices),
		Bounds:       tr.bounds,
		Transform:    j.transform,
	}
	if !t.core.Resolve(j.entityRef.handle, j.entityRef.slot, j.entityRef.jobID, result) {
		// The layer was cleared or the slot was overwritten since this
		// job was dispatched; discard the buffers along with the result.
		t.core.FreeVertexBufferID(vid)
		t.core.FreeIndexBufferID(iid)
		t.buffers.Free(vid, iid)
	}
}

// cacheKey identifies a tessellation job by the inputs tessellateFan
// and expandStroke actually consume: path shape, winding rule, and for
// strokes the stroke settings and scale factor. The transform is
// deliberately excluded since tessellation runs in path space and the
// transform is applied later at draw time.
func cacheKey(j job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|", j.kind, j.windingRule)
	for _, el := range j.path {
		switch p := el.(type) {
		case canvas.MoveTo:
			fmt.Fprintf(&b, "M%g,%g;", p.Point.X, p.Point.Y)
		case canvas.LineTo:
			fmt.Fprintf(&b, "L%g,%g;", p.Point.X, p.Point.Y)
		case canvas.QuadTo:
			fmt.Fprintf(&b, "Q%g,%g,%g,%g;", p.Control.X, p.Control.Y, p.Point.X, p.Point.Y)
		case canvas.CubicTo:
			fmt.Fprintf(&b, "C%g,%g,%g,%g,%g,%g;", p.Control1.X, p.Control1.Y, p.Control2.X, p.Control2.Y, p.Point.X, p.Point.Y)
		case canvas.Close:
			b.WriteString("Z;")
		}
	}
	if j.kind == jobStroke {
		s := j.stroke
		fmt.Fprintf(&b, "|%g,%g,%v,%d,%d,%g,%g,", s.width, s.pixelWidth, s.usePixel, s.cap, s.join, s.miterLimit, s.dashOffset)
		for _, d := range s.dash {
			fmt.Fprintf(&b, "%g,", d)
		}
		fmt.Fprintf(&b, "|%g", j.scaleFactor)
	}
	return b.String()
}

// canvasHeightMatrix builds the flip-and-scale transform CanvasHeightOp
// describes: Y increases upward in producer units, over a viewport of
// the given height in those units.
func canvasHeightMatrix(height float64) canvas.Matrix {
	if height == 0 {
		return canvas.Identity()
	}
	return canvas.Matrix{A: 1, B: 0, C: 0, D: -1, E: 0, F: height}
}

// centerRegionMatrix builds a transform that centers the rectangle on
// the origin and scales it to fit a unit square, preserving aspect
// ratio by the longer side; canvas/renderstream composes the viewport's
// own pixel-space scale on top when it binds a frame buffer.
func centerRegionMatrix(minX, minY, maxX, maxY float64) canvas.Matrix {
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return canvas.Translate(-(minX+maxX)/2, -(minY+maxY)/2)
	}
	longest := w
	if h > longest {
		longest = h
	}
	scale := 1 / longest
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return canvas.Scale(scale, scale).Multiply(canvas.Translate(-cx, -cy))
}
