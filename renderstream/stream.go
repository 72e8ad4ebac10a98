package renderstream

import (
	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/render"
	"github.com/gogpu/canvas/tessellate"
	"github.com/gogpu/gputypes"
)

// state is the render stream's rolling RenderStreamState (§4.6):
// current render target, blend mode, clip/erase mask, shader modifier,
// and transform.
type state struct {
	target    uint32
	restore   uint32
	blend     canvas.BlendMode
	shader    ShaderKey
	transform canvas.Matrix
}

// Options configures the background color and output size a frame is
// emitted against.
type Options struct {
	Width, Height int
	Background    canvas.RGBA
}

// Emitter walks a render.Core and its tessellator's buffer store and
// produces the GPU action vocabulary for one frame.
//
// The spec assembles this output as a stack, pushing from the last
// layer/entity to the first and reversing once at the end, because
// computing a state delta requires knowing what state the *next*
// emitted instruction needs before emitting the instruction that
// produces the *current* state. This implementation reaches the same
// action sequence by walking forward while comparing against a rolling
// current-state value instead, which needs no reversal pass; see
// DESIGN.md.
type Emitter struct {
	core    *render.Core
	buffers *tessellate.Buffers
	opts    Options

	nextTargetID uint32
}

// New creates an Emitter reading resolved entities from core and
// tessellated geometry from buffers.
func New(core *render.Core, buffers *tessellate.Buffers, opts Options) *Emitter {
	return &Emitter{core: core, buffers: buffers, opts: opts}
}

// Emit produces one frame's worth of GPU actions. presenting is false
// while render.Core's frame-depth counter is non-zero: only setup and
// vertex-buffer actions are emitted, never draw-to-screen actions
// (§5 "Frame pacing / backpressure").
func (em *Emitter) Emit() []Action {
	presenting := em.core.FrameDepth() == 0

	var actions []Action
	mainTarget := em.allocTarget()
	actions = append(actions, Action{
		Kind: ActionCreateRenderTarget, ID: mainTarget,
		Width: em.opts.Width, Height: em.opts.Height,
		RenderTargetKind: RenderTargetColor, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	actions = append(actions, Action{Kind: ActionSelectRenderTarget, ID: mainTarget})
	actions = append(actions, Action{Kind: ActionClear, Color: em.opts.Background})

	st := &state{target: mainTarget, restore: mainTarget, transform: canvas.Identity()}
	var created []uint32

	for _, h := range em.core.Order() {
		actions = em.drainTextureRequests(actions)
		actions = em.drainGradientRequests(actions)
		actions, created = em.emitLayer(actions, h, st, created, presenting, 0)
	}

	if presenting {
		actions = append(actions, Action{
			Kind: ActionDrawFrameBuffer, ID: mainTarget,
			Color: em.opts.Background,
		})
		actions = append(actions, Action{Kind: ActionRenderToFrameBuffer, ID: mainTarget})
		actions = append(actions, Action{Kind: ActionShowFrameBuffer})
	}

	for _, id := range created {
		actions = append(actions, Action{Kind: ActionFreeRenderTarget, ID: id})
	}
	actions = append(actions, Action{Kind: ActionFreeRenderTarget, ID: mainTarget})

	return actions
}

func (em *Emitter) allocTarget() uint32 {
	em.nextTargetID++
	return em.nextTargetID
}

// drainTextureRequests turns the core's pending queue into texture
// setup actions, in FIFO order, before the next layer is walked (§4.6).
func (em *Emitter) drainTextureRequests(actions []Action) []Action {
	for _, r := range em.core.DrainTextureRequests() {
		switch r.Kind {
		case render.TextureRequestCreate:
			actions = append(actions, Action{
				Kind: ActionCreateTextureBgra, ID: uint32(r.Texture),
				Width: r.W, Height: r.H, Format: gputypes.TextureFormatBGRA8Unorm,
			})
		case render.TextureRequestSetBytes:
			actions = append(actions, Action{
				Kind: ActionWriteTextureData, ID: uint32(r.Texture),
				Width: r.W, Height: r.H, Bytes: r.Bytes,
			})
			em.core.MarkTextureReady(r.Texture)
		case render.TextureRequestCopy:
			actions = append(actions, Action{Kind: ActionCopyTexture, ID: uint32(r.Texture), Src: uint32(r.Src)})
		case render.TextureRequestRenderFromSprite:
			actions = em.emitSpriteToTexture(actions, r.Texture, r.Sprite, r.Bounds)
		case render.TextureRequestMipmap:
			actions = append(actions, Action{Kind: ActionCreateMipMaps, ID: uint32(r.Texture)})
		case render.TextureRequestFilter:
			actions = append(actions, Action{
				Kind: ActionUseShader, ID: uint32(r.Texture),
				Shader: ShaderKey{PremultiplyAlpha: r.Filter == canvas.FilterColorMatrix},
			})
		}
	}
	return actions
}

// drainGradientRequests turns the core's pending gradient queue into 1D
// texture setup actions, mirroring drainTextureRequests. A gradient's
// strip is always GradientTextureWidth wide, one row tall.
func (em *Emitter) drainGradientRequests(actions []Action) []Action {
	for _, r := range em.core.DrainGradientRequests() {
		switch r.Kind {
		case render.GradientRequestCreate:
			actions = append(actions, Action{
				Kind: ActionCreate1DTextureBgra, ID: uint32(r.Gradient),
				Width: render.GradientTextureWidth, Height: 1,
				Format: gputypes.TextureFormatBGRA8Unorm, Bytes: r.Bytes,
			})
		case render.GradientRequestUpdate:
			actions = append(actions, Action{
				Kind: ActionWriteTexture1D, ID: uint32(r.Gradient),
				Width: render.GradientTextureWidth, Bytes: r.Bytes,
			})
		}
	}
	return actions
}

// emitSpriteToTexture renders a sprite's entity list into an offscreen
// target, then copies it into the destination texture, grounding
// SetTextureFromSprite and CreateDynamicTexture re-renders in the same
// action vocabulary ordinary layers use.
func (em *Emitter) emitSpriteToTexture(actions []Action, dst canvas.TextureId, sprite canvas.SpriteId, bounds canvas.Rect) []Action {
	h, ok := em.core.SpriteHandle(sprite)
	if !ok {
		return actions
	}
	target := em.allocTarget()
	actions = append(actions, Action{
		Kind: ActionCreateRenderTarget, ID: target,
		Width: int(bounds.Width()), Height: int(bounds.Height()),
		RenderTargetKind: RenderTargetColor, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	actions = append(actions, Action{Kind: ActionSelectRenderTarget, ID: target})
	actions = append(actions, Action{Kind: ActionClear})
	st := &state{target: target, restore: target, transform: canvas.Identity()}
	var created []uint32
	actions, created = em.emitLayer(actions, h, st, created, false, 0)
	for _, id := range created {
		actions = append(actions, Action{Kind: ActionFreeRenderTarget, ID: id})
	}
	actions = append(actions, Action{Kind: ActionCopyTexture, ID: uint32(dst), Src: target})
	actions = append(actions, Action{Kind: ActionFreeRenderTarget, ID: target})
	em.core.MarkTextureReady(dst)
	return actions
}

// emitLayer walks one layer's resolved entity list. depth bounds
// DrawSprite recursion against render.Core.MaxSpriteDepth (§9 open
// question 4: cyclic sprite references).
func (em *Emitter) emitLayer(actions []Action, h render.LayerHandle, st *state, created []uint32, presenting bool, depth int) ([]Action, []uint32) {
	if depth > em.core.MaxSpriteDepth() {
		return actions, created
	}

	blendMode, alpha := em.core.LayerBlend(h)
	erasing := false
	var eraseTarget uint32

	for _, e := range em.core.Entities(h) {
		switch e.Kind {
		case render.EntityTessellating:
			// A job that never resolved (layer cleared mid-flight, or the
			// frame was emitted before the tessellator caught up); skip.
			continue

		case render.EntitySetTransform:
			if e.Transform != st.transform {
				actions = append(actions, Action{Kind: ActionSetTransform, Transform: e.Transform})
				st.transform = e.Transform
			}

		case render.EntitySetBlendMode:
			blendMode = e.BlendMode
			if e.BlendMode == canvas.BlendDestinationOut && !erasing {
				eraseTarget = em.allocTarget()
				created = append(created, eraseTarget)
				actions = append(actions, Action{
					Kind: ActionCreateRenderTarget, ID: eraseTarget,
					Width: em.opts.Width, Height: em.opts.Height,
					RenderTargetKind: RenderTargetErase, Format: gputypes.TextureFormatR8Unorm,
				})
				actions = append(actions, Action{Kind: ActionSelectRenderTarget, ID: eraseTarget})
				erasing = true
				st.target = eraseTarget
			} else if e.BlendMode != canvas.BlendDestinationOut && erasing {
				actions = em.endErase(actions, st, eraseTarget)
				erasing = false
			}
			if blendMode != st.blend {
				actions = append(actions, Action{Kind: ActionBlendMode, Blend: blendMode})
				st.blend = blendMode
			}

		case render.EntitySetFlatColor:
			shader := st.shader
			shader.HasFillTexture = false
			shader.HasFillGradient = false
			shader.EraseMask = erasing
			if shader != st.shader {
				actions = append(actions, Action{Kind: ActionUseShader, Shader: shader, Color: e.Color})
				st.shader = shader
			}

		case render.EntitySetFillTexture:
			shader := st.shader
			shader.HasFillTexture = true
			shader.FillTexture = e.Texture
			shader.HasFillGradient = false
			shader.EraseMask = erasing
			actions = append(actions, Action{Kind: ActionUseShader, Shader: shader, Transform: e.Transform})
			st.shader = shader

		case render.EntitySetFillGradient:
			shader := st.shader
			shader.HasFillGradient = true
			shader.FillGradient = e.Gradient
			shader.HasFillTexture = false
			shader.EraseMask = erasing
			actions = append(actions, Action{Kind: ActionUseShader, Shader: shader, Transform: e.Transform})
			st.shader = shader

		case render.EntitySetDashPattern:
			shader := st.shader
			shader.DashTexture = len(e.Dash) > 0
			if shader != st.shader {
				actions = append(actions, Action{Kind: ActionUseShader, Shader: shader})
				st.shader = shader
			}

		case render.EntityEnableClipping:
			shader := st.shader
			shader.ClipMask = true
			actions = append(actions, Action{Kind: ActionUseShader, Shader: shader})
			st.shader = shader

		case render.EntityDisableClipping:
			shader := st.shader
			shader.ClipMask = false
			actions = append(actions, Action{Kind: ActionUseShader, Shader: shader})
			st.shader = shader

		case render.EntityFill, render.EntityStroke:
			if e.IndexCount == 0 {
				continue
			}
			actions = em.emitGeometry(actions, e)
			actions = append(actions, Action{
				Kind: ActionDrawIndexedTriangles,
				VertexBuffer: e.VertexBuffer, IndexBuffer: e.IndexBuffer, IndexCount: e.IndexCount,
			})

		case render.EntityClip:
			if e.IndexCount == 0 {
				continue
			}
			actions = em.emitGeometry(actions, e)
			shader := st.shader
			shader.ClipMask = true
			actions = append(actions, Action{Kind: ActionUseShader, Shader: shader})
			actions = append(actions, Action{
				Kind: ActionDrawIndexedTriangles,
				VertexBuffer: e.VertexBuffer, IndexBuffer: e.IndexBuffer, IndexCount: e.IndexCount,
			})
			st.shader = shader

		case render.EntityRenderSprite:
			spriteHandle, ok := em.core.SpriteHandle(e.Sprite)
			if !ok {
				continue
			}
			if e.Transform != (canvas.Matrix{}) {
				actions = append(actions, Action{Kind: ActionSetTransform, Transform: e.Transform})
			}
			actions, created = em.emitLayer(actions, spriteHandle, st, created, presenting, depth+1)
			actions = append(actions, Action{Kind: ActionSetTransform, Transform: st.transform})
		}
	}

	if erasing {
		actions = em.endErase(actions, st, eraseTarget)
	}
	_ = alpha // layer alpha composites into the shader's blend factor at draw time; tracked for the backend, not re-derived here.
	return actions, created
}

// endErase clears the auxiliary erase texture and restores drawing to
// the main target, matching §4.6 "this texture is cleared at the end
// of the layer".
func (em *Emitter) endErase(actions []Action, st *state, eraseTarget uint32) []Action {
	actions = append(actions, Action{Kind: ActionClear, ID: eraseTarget})
	actions = append(actions, Action{Kind: ActionSelectRenderTarget, ID: st.restore})
	st.target = st.restore
	return actions
}

// emitGeometry emits the CreateVertex2DBuffer/CreateIndexBuffer setup
// pair for a resolved Fill/Stroke/Clip entity's buffers, reading the
// actual bytes back from the tessellator's buffer store by id.
func (em *Emitter) emitGeometry(actions []Action, e render.Entity) []Action {
	actions = append(actions, Action{
		Kind: ActionCreateVertexBuffer, ID: e.VertexBuffer,
		Vertices: em.buffers.Vertices(e.VertexBuffer),
	})
	actions = append(actions, Action{
		Kind: ActionCreateIndexBuffer, ID: e.IndexBuffer,
		Indices: em.buffers.Indices(e.IndexBuffer),
	})
	return actions
}
