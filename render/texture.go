package render

import (
	"sort"

	"github.com/gogpu/canvas"
)

// TextureLifecycle distinguishes a texture that is still being written
// (in-place modification is safe) from one that has already been used by
// an in-flight frame (modification must clone to a fresh backing so that
// frame is unaffected).
type TextureLifecycle int

const (
	// TextureLoading means modifications replace bytes in place.
	TextureLoading TextureLifecycle = iota
	// TextureReady means the next modification clones to a fresh texture.
	TextureReady
)

// TextureState is the render core's bookkeeping for one declared texture
// or gradient resource: its GPU-side lifecycle and a reference count.
//
// The reference count mirrors the teacher's renderer_core.rs free_entity
// accounting: it is the number of live entity declarations referencing
// this id, plus one while the id is the current backing of a named
// TextureId. Vertex/index buffers do not share this accounting — they are
// single-writer single-reader and are always freed outright on eviction
// (§4.5 invariant i; SPEC_FULL §13).
type TextureState struct {
	Lifecycle   TextureLifecycle
	RefCount    int
	Width       int
	Height      int
	Transparent bool
}

// GradientState is the render core's bookkeeping for one declared
// gradient: its accumulated stops and reference count. Gradients share
// the same refcount discipline as textures (they are GPU-resident 1D
// texture strips once tessellated).
type GradientState struct {
	Stops    []canvas.ColorStop
	RefCount int
}

// GradientTextureWidth is the resolution of the baked 1D gradient strip
// a GradientRequest carries. Gradients sample from this strip rather
// than evaluating color stops in the shader.
const GradientTextureWidth = 256

// TextureRequest is one pending GPU-side texture action, queued by
// entity declarations and drained in FIFO order by canvas/renderstream
// before it emits a layer's entities (§4.6).
type TextureRequest struct {
	Kind    TextureRequestKind
	Texture canvas.TextureId
	// X, Y, W, H describe the modified or copied region for SetBytes and
	// Copy requests.
	X, Y, W, H int
	Bytes      []byte
	// Src is the source texture for Copy requests.
	Src canvas.TextureId
	// Sprite and Bounds describe the source region for RenderFromSprite
	// and dynamic-texture re-renders.
	Sprite canvas.SpriteId
	Bounds canvas.Rect
	// Filter and Params describe a Filter request's post-processing op.
	Filter canvas.FilterKind
	Params []float64
}

// TextureRequestKind enumerates the pending GPU texture actions the
// render stream drains before walking a layer's entities.
type TextureRequestKind int

const (
	TextureRequestCreate TextureRequestKind = iota
	TextureRequestSetBytes
	TextureRequestCopy
	TextureRequestRenderFromSprite
	TextureRequestMipmap
	TextureRequestFilter
)

// EnsureTexture creates a zero-refcount TextureState for id if one does
// not already exist, and returns it.
func (c *Core) ensureTexture(id canvas.TextureId) *TextureState {
	st, ok := c.textures[id]
	if !ok {
		st = &TextureState{Lifecycle: TextureLoading}
		c.textures[id] = st
	}
	return st
}

// CreateTexture declares a blank texture of the given size and queues its
// GPU-side creation.
func (c *Core) CreateTexture(id canvas.TextureId, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.ensureTexture(id)
	st.Width, st.Height = width, height
	c.pendingRequests = append(c.pendingRequests, TextureRequest{
		Kind: TextureRequestCreate, Texture: id, W: width, H: height,
	})
}

// RetainTexture increments id's reference count, as a new entity
// declaration referencing it is appended to a layer.
func (c *Core) RetainTexture(id canvas.TextureId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureTexture(id).RefCount++
}

// ReleaseTexture decrements id's reference count. When it reaches zero
// the texture is queued for FreeTexture and its state is dropped
// (invariant i).
func (c *Core) ReleaseTexture(id canvas.TextureId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.textures[id]
	if !ok {
		return
	}
	st.RefCount--
	if st.RefCount <= 0 {
		delete(c.textures, id)
		delete(c.dynamicTextures, id)
	}
}

// FreeTexture removes id's state unconditionally, used when a producer
// issues FreeTexture directly rather than letting the refcount drain.
func (c *Core) FreeTexture(id canvas.TextureId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.textures, id)
	delete(c.namedTextures, id)
	delete(c.dynamicTextures, id)
}

// SetTextureBytes queues a byte-region update for id. If id's current
// state is Ready (already consumed by an in-flight frame), the update
// clones to a fresh backing by rotating the lifecycle back to Loading;
// subsequent in-flight frames keep reading the texture they already
// bound.
func (c *Core) SetTextureBytes(id canvas.TextureId, x, y, w, h int, bytes []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.ensureTexture(id)
	st.Lifecycle = TextureLoading
	c.pendingRequests = append(c.pendingRequests, TextureRequest{
		Kind: TextureRequestSetBytes, Texture: id, X: x, Y: y, W: w, H: h, Bytes: bytes,
	})
}

// MarkTextureReady transitions id to Ready, the state a texture enters
// once the render stream has bound it into a frame that has not yet been
// presented.
func (c *Core) MarkTextureReady(id canvas.TextureId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.textures[id]; ok {
		st.Lifecycle = TextureReady
	}
}

// SetTextureFromSprite queues a one-shot render of sprite's current
// content, clipped to bounds, into dst. Unlike CreateDynamicTexture this
// does not register an ongoing binding: dst is only refreshed this once.
func (c *Core) SetTextureFromSprite(dst canvas.TextureId, sprite canvas.SpriteId, bounds canvas.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.ensureTexture(dst)
	st.Lifecycle = TextureLoading
	c.pendingRequests = append(c.pendingRequests, TextureRequest{
		Kind: TextureRequestRenderFromSprite, Texture: dst, Sprite: sprite, Bounds: bounds,
	})
}

// SetTextureTransparency records whether sampling id outside its declared
// bounds should read as transparent rather than clamp to the edge.
func (c *Core) SetTextureTransparency(id canvas.TextureId, transparent bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureTexture(id).Transparent = transparent
}

// FilterTexture queues an in-place post-processing filter on id.
func (c *Core) FilterTexture(id canvas.TextureId, filter canvas.FilterKind, params []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureTexture(id)
	c.pendingRequests = append(c.pendingRequests, TextureRequest{
		Kind: TextureRequestFilter, Texture: id, Filter: filter, Params: params,
	})
}

// CopyTexture queues a full-texture copy from src to dst.
func (c *Core) CopyTexture(src, dst canvas.TextureId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureTexture(dst)
	c.pendingRequests = append(c.pendingRequests, TextureRequest{
		Kind: TextureRequestCopy, Src: src, Texture: dst,
	})
}

// DrainTextureRequests removes and returns all pending texture requests
// in FIFO order. canvas/renderstream calls this before walking a layer's
// entities (§4.6).
func (c *Core) DrainTextureRequests() []TextureRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pendingRequests
	c.pendingRequests = nil
	return out
}

// GradientRequest is one pending 1D gradient texture action, drained
// the same way as TextureRequest (§4.6) but kept on its own queue since
// a gradient has no bound TextureId of its own.
type GradientRequest struct {
	Kind     GradientRequestKind
	Gradient canvas.GradientId
	// Bytes is a baked GradientTextureWidth-wide premultiplied RGBA8
	// strip sampled from the gradient's current color stops.
	Bytes []byte
}

// GradientRequestKind enumerates the pending gradient texture actions.
type GradientRequestKind int

const (
	GradientRequestCreate GradientRequestKind = iota
	GradientRequestUpdate
)

// CreateGradient declares a gradient resource with zero stops and queues
// its GPU-side 1D texture creation.
func (c *Core) CreateGradient(id canvas.GradientId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.gradients[id]; !ok {
		g := &GradientState{}
		c.gradients[id] = g
		c.pendingGradientRequests = append(c.pendingGradientRequests, GradientRequest{
			Kind: GradientRequestCreate, Gradient: id, Bytes: bakeGradientStrip(g.Stops, GradientTextureWidth),
		})
	}
}

// GradientAddStop appends a color stop to a declared gradient and queues
// a re-bake of its 1D texture strip. A stop added to an unknown gradient
// id is a reference error and is silently skipped (§7).
func (c *Core) GradientAddStop(id canvas.GradientId, offset float64, color canvas.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gradients[id]
	if !ok {
		return
	}
	g.Stops = append(g.Stops, canvas.ColorStop{Offset: offset, Color: color})
	c.pendingGradientRequests = append(c.pendingGradientRequests, GradientRequest{
		Kind: GradientRequestUpdate, Gradient: id, Bytes: bakeGradientStrip(g.Stops, GradientTextureWidth),
	})
}

// DrainGradientRequests removes and returns all pending gradient texture
// requests in FIFO order, mirroring DrainTextureRequests.
func (c *Core) DrainGradientRequests() []GradientRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pendingGradientRequests
	c.pendingGradientRequests = nil
	return out
}

// bakeGradientStrip samples stops at width evenly spaced offsets across
// [0, 1], producing a premultiplied RGBA8 strip a backend uploads as a
// 1D texture. Offsets outside the stop range clamp to the nearest end
// stop; extend modes (repeat, reflect) are a sampler-addressing concern
// for the backend, not a property of the baked strip.
func bakeGradientStrip(stops []canvas.ColorStop, width int) []byte {
	out := make([]byte, width*4)
	if len(stops) == 0 {
		return out
	}
	sorted := make([]canvas.ColorStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		pm := sampleGradientStops(sorted, t).Premultiply()
		out[x*4+0] = clampByte(pm.R)
		out[x*4+1] = clampByte(pm.G)
		out[x*4+2] = clampByte(pm.B)
		out[x*4+3] = clampByte(pm.A)
	}
	return out
}

// sampleGradientStops interpolates sorted stops at offset t, clamping t
// to the first/last stop outside their range.
func sampleGradientStops(sorted []canvas.ColorStop, t float64) canvas.RGBA {
	if len(sorted) == 1 {
		return sorted[0].Color
	}
	if t <= sorted[0].Offset {
		return sorted[0].Color
	}
	last := sorted[len(sorted)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(sorted); i++ {
		if t > sorted[i].Offset {
			continue
		}
		prev := sorted[i-1]
		span := sorted[i].Offset - prev.Offset
		if span <= 0 {
			return sorted[i].Color
		}
		return prev.Color.Lerp(sorted[i].Color, (t-prev.Offset)/span)
	}
	return last.Color
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// RetainGradient increments id's reference count.
func (c *Core) RetainGradient(id canvas.GradientId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.gradients[id]; ok {
		g.RefCount++
	}
}

// ReleaseGradient decrements id's reference count, dropping its state
// once it reaches zero.
func (c *Core) ReleaseGradient(id canvas.GradientId) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gradients[id]
	if !ok {
		return
	}
	g.RefCount--
	if g.RefCount <= 0 {
		delete(c.gradients, id)
	}
}
