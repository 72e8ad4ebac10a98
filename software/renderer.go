package software

import (
	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/clip"
	"github.com/gogpu/canvas/internal/image"
	"github.com/gogpu/canvas/internal/path"
	"github.com/gogpu/canvas/internal/raster"
	"github.com/gogpu/canvas/internal/stroke"
	"github.com/gogpu/canvas/stream"
)

// Renderer is the software renderer (component H): it consumes a
// stream subscriber directly, with no tessellation or render core in
// between, and rasterizes every Fill/Stroke/Clip straight onto an
// internal pixel buffer (§4.7).
//
// Unlike the tessellating path, the software renderer processes
// entries synchronously and in order; there is no worker pool, because
// a software scanline fill has nothing to parallelize against a single
// shared pixel buffer without tiling, which this renderer does not
// attempt (SPEC_FULL §15, Non-goals).
type Renderer struct {
	buf       *image.ImageBuf
	pix       *pixmap
	raster    *raster.Rasterizer
	targets   map[canvas.Target]*targetState
	sprites   map[canvas.SpriteId]*image.ImageBuf
	transform map[canvas.SpriteId]canvas.Matrix
}

// New creates a Renderer with an opaque black backing buffer of the
// given size.
func New(width, height int) (*Renderer, error) {
	buf, err := image.NewImageBuf(width, height, image.FormatRGBAPremul)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		buf:       buf,
		pix:       newPixmap(buf),
		raster:    raster.NewRasterizer(width, height),
		targets:   make(map[canvas.Target]*targetState),
		sprites:   make(map[canvas.SpriteId]*image.ImageBuf),
		transform: make(map[canvas.SpriteId]canvas.Matrix),
	}, nil
}

// Image returns the backing pixel buffer. Its pixels are premultiplied
// alpha; canvas/render and canvas/renderstream never touch this type,
// it exists only for this consumer.
func (r *Renderer) Image() *image.ImageBuf { return r.buf }

// Run drains sub until it closes, processing every delivered entry in
// order.
func (r *Renderer) Run(sub *stream.Subscriber) {
	for {
		entries, ok := sub.Next()
		for _, e := range entries {
			r.process(e)
		}
		if !ok {
			return
		}
	}
}

func (r *Renderer) state(target canvas.Target) *targetState {
	st, ok := r.targets[target]
	if !ok {
		st = newTargetState()
		r.targets[target] = st
	}
	return st
}

// pixmapFor selects the destination pixel buffer for target: the main
// buffer for a layer or the frame, or a sprite's own offscreen buffer
// (created lazily, matching render.Core.EnsureSprite).
func (r *Renderer) pixmapFor(target canvas.Target) *pixmap {
	if target.Kind != canvas.TargetSprite {
		return r.pix
	}
	buf, ok := r.sprites[target.Sprite]
	if !ok {
		buf, _ = image.NewImageBuf(r.buf.Width(), r.buf.Height(), image.FormatRGBAPremul)
		r.sprites[target.Sprite] = buf
	}
	return newPixmap(buf)
}

func (r *Renderer) process(e stream.Entry) {
	st := r.state(e.Target)

	switch d := e.Draw.(type) {
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

	case canvas.SetFillColor:
		st.fillKind = fillColorKind
		st.fillColor = d.Color
	case canvas.SetFillTexture, canvas.SetFillGradient:
		// Texture and gradient fills have no software-path sampler
		// (SPEC_FULL §15 Non-goals); the prior flat fill color keeps
		// standing in for them in this renderer.
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
	case canvas.SetDashOffset:
		st.stroke.dashOffset = d.Offset
	case canvas.SetBlendMode:
		st.blendMode = d.Mode

	case canvas.Fill:
		r.fill(e.Target, st)
	case canvas.Stroke:
		r.strokePath(e.Target, st)

	case canvas.IdentityTransformOp:
		st.transform = canvas.Identity()
	case canvas.CanvasHeightOp:
		st.transform = canvasHeightMatrix(d.Height)
	case canvas.CenterRegionOp:
		st.transform = centerRegionMatrix(d.MinX, d.MinY, d.MaxX, d.MaxY)
	case canvas.MultiplyTransformOp:
		st.transform = st.transform.Multiply(d.M)

	case canvas.ClipOp:
		r.pushClip(st)
	case canvas.UnclipOp:
		if len(st.clipStack) > 0 {
			st.clipStack = st.clipStack[:len(st.clipStack)-1]
		}

	case canvas.ClearLayerOp, canvas.ClearSpriteOp:
		r.clearTarget(e.Target)
	case canvas.ClearAllLayersOp:
		for t := range r.targets {
			if t.Kind == canvas.TargetLayer {
				r.clearTarget(t)
			}
		}
	case canvas.ClearCanvas:
		a := clampUnit(d.Color.A)
		r.buf.Fill(byteFromUnit(d.Color.R*a), byteFromUnit(d.Color.G*a), byteFromUnit(d.Color.B*a), byteFromUnit(a))
		for t := range r.sprites {
			delete(r.sprites, t)
		}
		r.targets = make(map[canvas.Target]*targetState)
	case canvas.LayerAlphaOp:
		if lst, ok := r.targets[canvas.LayerTarget(d.Id)]; ok {
			lst.alpha = d.Alpha
		}
	case canvas.LayerBlendOp:
		if lst, ok := r.targets[canvas.LayerTarget(d.Id)]; ok {
			lst.blendMode = d.Mode
		}
	case canvas.SpriteTransformOp:
		r.transform[e.Target.Sprite] = d.M
	case canvas.DrawSpriteOp:
		r.drawSprite(st, d.Id)
	}
}

// fill rasterizes the current path with the current fill color.
func (r *Renderer) fill(target canvas.Target, st *targetState) {
	if len(st.path) == 0 {
		return
	}
	points := path.Flatten(toPathElements(st.path, st.transform))
	if len(points) < 2 {
		return
	}
	rule := raster.FillRuleNonZero
	if st.windingRule == canvas.WindingEvenOdd {
		rule = raster.FillRuleEvenOdd
	}
	pix := r.preparedPixmap(target, st)
	r.raster.Fill(pix, toRasterPoints(points), rule, toRasterRGBA(st.fillColor))
}

// strokePath expands the current path to its stroke outline via the
// same internal/stroke expander canvas/tessellate uses, then fills the
// resulting outline (a stroke is a fill of its own outline, §4.4).
func (r *Renderer) strokePath(target canvas.Target, st *targetState) {
	if len(st.path) == 0 {
		return
	}
	width := st.stroke.width
	if st.stroke.usePixel {
		width = st.stroke.pixelWidth
	}
	style := stroke.Stroke{
		Width: width, Cap: toStrokeCap(st.stroke.cap), Join: toStrokeJoin(st.stroke.join),
		MiterLimit: st.stroke.miterLimit,
	}
	expander := stroke.NewStrokeExpander(style)
	outline := expander.Expand(toStrokeElements(st.path))

	points := path.Flatten(toPathElementsFromStroke(outline, st.transform))
	if len(points) < 2 {
		return
	}
	pix := r.preparedPixmap(target, st)
	r.raster.Fill(pix, toRasterPoints(points), raster.FillRuleNonZero, toRasterRGBA(st.fillColor))
}

// preparedPixmap returns the destination pixmap for target, configured
// with the current blend mode and clip mask.
func (r *Renderer) preparedPixmap(target canvas.Target, st *targetState) *pixmap {
	pix := r.pixmapFor(target)
	pix.mode = blendFuncFor(st.blendMode)
	pix.alpha = st.alpha
	pix.clip = st.activeClip()
	return pix
}

// pushClip intersects the path into a new clip mask layered onto the
// target's clip stack (§4.1 "Clip nests").
func (r *Renderer) pushClip(st *targetState) {
	if len(st.path) == 0 {
		st.clipStack = append(st.clipStack, emptyClipper(r.buf.Width(), r.buf.Height()))
		return
	}
	bounds := clip.NewRect(0, 0, float64(r.buf.Width()), float64(r.buf.Height()))
	mc, err := clip.NewMaskClipper(toClipElements(st.path, st.transform), bounds, true)
	if err != nil {
		return
	}
	st.clipStack = append(st.clipStack, mc)
}

func emptyClipper(w, h int) *clip.MaskClipper {
	bounds := clip.NewRect(0, 0, float64(w), float64(h))
	mc, _ := clip.NewMaskClipper(nil, bounds, true)
	return mc
}

func (r *Renderer) clearTarget(target canvas.Target) {
	delete(r.targets, target)
	if target.Kind == canvas.TargetSprite {
		delete(r.sprites, target.Sprite)
	}
}

// drawSprite composites a sprite's offscreen buffer into target at the
// sprite's last SpriteTransform, straight-alpha over, matching
// render.EntityRenderSprite's effect in the tessellating pipeline.
func (r *Renderer) drawSprite(st *targetState, id canvas.SpriteId) {
	src, ok := r.sprites[id]
	if !ok {
		return
	}
	m := r.transform[id]
	dst := r.pix
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			sr, sg, sb, sa := src.GetRGBA(x, y)
			if sa == 0 {
				continue
			}
			p := m.TransformPoint(canvas.Pt(float64(x), float64(y)))
			dst.mode = blendFuncFor(canvas.BlendSourceOver)
			dst.alpha = st.alpha
			dst.SetPixel(int(p.X), int(p.Y), raster.RGBA{
				R: float64(sr) / 255, G: float64(sg) / 255, B: float64(sb) / 255, A: float64(sa) / 255,
			})
		}
	}
}

func toRasterPoints(pts []path.Point) []raster.Point {
	out := make([]raster.Point, len(pts))
	for i, p := range pts {
		out[i] = raster.Point{X: p.X, Y: p.Y}
	}
	return out
}

func toRasterRGBA(c canvas.RGBA) raster.RGBA {
	return raster.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func byteFromUnit(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}

func canvasHeightMatrix(height float64) canvas.Matrix {
	if height == 0 {
		return canvas.Identity()
	}
	return canvas.Matrix{A: 1, B: 0, C: 0, D: -1, E: 0, F: height}
}

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
