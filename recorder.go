package canvas

// DrawSink accepts a batch of Draw instructions as a single atomic
// write. *stream.Engine implements this interface; Recorder depends
// only on the interface so the root canvas package never imports
// canvas/stream (§4.3: "it is the producer-side counterpart to a
// subscriber; it adds no rewrite logic").
type DrawSink interface {
	Write(draws []Draw)
}

// Recorder is the graphics context (component D): a thin sink that
// buffers draw instructions from method-style calls into a batch and
// flushes the batch to a DrawSink in one shot. Unlike Context, it does
// not rasterize anything itself; it only assembles Draw values for a
// stream engine to retain and fan out.
type Recorder struct {
	sink DrawSink
	buf  []Draw
}

// NewRecorder creates a Recorder that flushes into sink.
func NewRecorder(sink DrawSink) *Recorder {
	return &Recorder{sink: sink}
}

// Flush submits the buffered instructions as a single batch and resets
// the buffer. A Flush with nothing buffered is a no-op, matching
// Engine.Write's "len(draws) == 0" short circuit.
func (r *Recorder) Flush() {
	if len(r.buf) == 0 {
		return
	}
	r.sink.Write(r.buf)
	r.buf = r.buf[:0]
}

func (r *Recorder) push(d Draw) *Recorder {
	r.buf = append(r.buf, d)
	return r
}

// --- frame control ---

func (r *Recorder) StartFrame() *Recorder { return r.push(StartFrame{}) }
func (r *Recorder) ShowFrame() *Recorder  { return r.push(ShowFrame{}) }
func (r *Recorder) ResetFrame() *Recorder { return r.push(ResetFrame{}) }

// --- path construction ---

func (r *Recorder) NewPath() *Recorder { return r.push(NewPathOp{}) }

func (r *Recorder) MoveTo(x, y float64) *Recorder { return r.push(MoveOp{X: x, Y: y}) }

func (r *Recorder) LineTo(x, y float64) *Recorder { return r.push(LineOp{X: x, Y: y}) }

func (r *Recorder) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) *Recorder {
	return r.push(BezierCurveOp{CP1X: cp1x, CP1Y: cp1y, CP2X: cp2x, CP2Y: cp2y, X: x, Y: y})
}

func (r *Recorder) ClosePath() *Recorder { return r.push(ClosePathOp{}) }

// --- fill/stroke settings ---

func (r *Recorder) FillColor(c RGBA) *Recorder { return r.push(SetFillColor{Color: c}) }

func (r *Recorder) FillTexture(id TextureId, m Matrix) *Recorder {
	return r.push(SetFillTexture{Texture: id, Transform: m})
}

func (r *Recorder) FillGradient(id GradientId, m Matrix) *Recorder {
	return r.push(SetFillGradient{Gradient: id, Transform: m})
}

func (r *Recorder) WindingRule(rule WindingRule) *Recorder { return r.push(SetWindingRule{Rule: rule}) }

func (r *Recorder) LineWidth(w float64) *Recorder { return r.push(SetLineWidth{Width: w}) }

func (r *Recorder) LineWidthPixels(w float64) *Recorder {
	return r.push(SetLineWidthPixels{Width: w})
}

func (r *Recorder) LineJoin(j LineJoin) *Recorder { return r.push(SetLineJoin{Join: j}) }

func (r *Recorder) LineCap(c LineCap) *Recorder { return r.push(SetLineCap{Cap: c}) }

func (r *Recorder) DashPattern(lengths []float64) *Recorder {
	return r.push(SetDashPattern{Lengths: lengths})
}

func (r *Recorder) DashOffset(offset float64) *Recorder { return r.push(SetDashOffset{Offset: offset}) }

func (r *Recorder) Fill() *Recorder { return r.push(Fill{}) }

func (r *Recorder) Stroke() *Recorder { return r.push(Stroke{}) }

func (r *Recorder) BlendMode(mode BlendMode) *Recorder { return r.push(SetBlendMode{Mode: mode}) }

// --- transform stack ---

func (r *Recorder) IdentityTransform() *Recorder { return r.push(IdentityTransformOp{}) }

func (r *Recorder) CanvasHeight(h float64) *Recorder { return r.push(CanvasHeightOp{Height: h}) }

func (r *Recorder) CenterRegion(minX, minY, maxX, maxY float64) *Recorder {
	return r.push(CenterRegionOp{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})
}

func (r *Recorder) MultiplyTransform(m Matrix) *Recorder { return r.push(MultiplyTransformOp{M: m}) }

// --- clipping ---

func (r *Recorder) Clip() *Recorder   { return r.push(ClipOp{}) }
func (r *Recorder) Unclip() *Recorder { return r.push(UnclipOp{}) }

// --- state stack ---

func (r *Recorder) Store() *Recorder            { return r.push(StoreOp{}) }
func (r *Recorder) Restore() *Recorder          { return r.push(RestoreOp{}) }
func (r *Recorder) FreeStoredBuffer() *Recorder { return r.push(FreeStoredBufferOp{}) }
func (r *Recorder) PushState() *Recorder        { return r.push(PushStateOp{}) }
func (r *Recorder) PopState() *Recorder         { return r.push(PopStateOp{}) }

// --- canvas management ---

func (r *Recorder) ClearCanvas(c RGBA) *Recorder   { return r.push(ClearCanvas{Color: c}) }
func (r *Recorder) ClearLayer() *Recorder          { return r.push(ClearLayerOp{}) }
func (r *Recorder) ClearAllLayers() *Recorder      { return r.push(ClearAllLayersOp{}) }
func (r *Recorder) SwapLayers(a, b LayerId) *Recorder {
	return r.push(SwapLayersOp{A: a, B: b})
}
func (r *Recorder) Layer(id LayerId) *Recorder { return r.push(LayerOp{Id: id}) }
func (r *Recorder) LayerBlend(id LayerId, mode BlendMode) *Recorder {
	return r.push(LayerBlendOp{Id: id, Mode: mode})
}
func (r *Recorder) LayerAlpha(id LayerId, alpha float64) *Recorder {
	return r.push(LayerAlphaOp{Id: id, Alpha: alpha})
}

// --- sprite ops ---

func (r *Recorder) Sprite(id SpriteId) *Recorder  { return r.push(SpriteOp{Id: id}) }
func (r *Recorder) ClearSprite() *Recorder        { return r.push(ClearSpriteOp{}) }
func (r *Recorder) SpriteTransform(m Matrix) *Recorder {
	return r.push(SpriteTransformOp{M: m})
}
func (r *Recorder) DrawSprite(id SpriteId) *Recorder { return r.push(DrawSpriteOp{Id: id}) }

// --- texture ops ---

func (r *Recorder) CreateTexture(id TextureId, w, h int) *Recorder {
	return r.push(CreateTexture{Id: id, Width: w, Height: h})
}
func (r *Recorder) FreeTexture(id TextureId) *Recorder { return r.push(FreeTexture{Id: id}) }
func (r *Recorder) SetTextureBytes(id TextureId, x, y, w, h int, bytes []byte) *Recorder {
	return r.push(SetTextureBytes{Id: id, X: x, Y: y, W: w, H: h, Bytes: bytes})
}
func (r *Recorder) SetTextureFromSprite(texture TextureId, sprite SpriteId, bounds Rect) *Recorder {
	return r.push(SetTextureFromSprite{Texture: texture, Sprite: sprite, Bounds: bounds})
}
func (r *Recorder) CreateDynamicTexture(texture TextureId, sprite SpriteId, bounds Rect, w, h float64) *Recorder {
	op := CreateDynamicTexture{Texture: texture, Sprite: sprite, Bounds: bounds}
	op.CanvasSize.W, op.CanvasSize.H = w, h
	return r.push(op)
}
func (r *Recorder) TextureFillTransparency(texture TextureId, transparent bool) *Recorder {
	return r.push(TextureFillTransparencyOp{Texture: texture, Transparent: transparent})
}
func (r *Recorder) CopyTexture(src, dst TextureId) *Recorder {
	return r.push(CopyTextureOp{Src: src, Dst: dst})
}
func (r *Recorder) FilterTexture(texture TextureId, filter FilterKind, params []float64) *Recorder {
	return r.push(FilterTextureOp{Texture: texture, Filter: filter, Params: params})
}

// --- gradient ops ---

func (r *Recorder) CreateGradient(id GradientId) *Recorder { return r.push(CreateGradient{Id: id}) }
func (r *Recorder) GradientAddStop(id GradientId, offset float64, c RGBA) *Recorder {
	return r.push(GradientAddStop{Id: id, Offset: offset, Color: c})
}

// --- font/text ops (opaque payloads, §3/§9) ---

func (r *Recorder) UseFontDefinition(id FontId, data []byte) *Recorder {
	return r.push(UseFontDefinitionOp{Id: id, Data: data})
}
func (r *Recorder) FontSize(id FontId, size float64) *Recorder {
	return r.push(FontSizeOp{Id: id, Size: size})
}
func (r *Recorder) DrawGlyphs(font FontId, payload []byte) *Recorder {
	return r.push(DrawGlyphsOp{Font: font, Payload: payload})
}
func (r *Recorder) LayoutText(font FontId, payload []byte) *Recorder {
	return r.push(LayoutTextOp{Font: font, Payload: payload})
}
