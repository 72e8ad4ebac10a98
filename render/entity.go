package render

import "github.com/gogpu/canvas"

// EntityKind discriminates a render entity. A layer's entity list mixes
// tessellated geometry with synthetic shader-state changes (§4.4
// "state tracking") so that the render stream can replay a layer
// without re-interpreting the original Draw instructions.
type EntityKind int

const (
	// EntityTessellating is a placeholder written when a tessellation
	// job is dispatched; it is overwritten in place when the job
	// resolves, or left in place (and later skipped) if the job's
	// result is discarded because the layer changed underneath it.
	EntityTessellating EntityKind = iota
	EntityFill
	EntityStroke
	EntityClip
	EntitySetTransform
	EntitySetBlendMode
	EntitySetFlatColor
	EntitySetDashPattern
	EntitySetFillTexture
	EntitySetFillGradient
	EntityEnableClipping
	EntityDisableClipping
	EntityRenderSprite
)

// Entity is one element of a layer's render entity list. Only the
// fields relevant to Kind are meaningful; this mirrors the flat,
// kind-tagged command records the stream engine itself works with
// (one struct per instruction, a type tag selecting which fields
// apply) rather than a Go interface per kind, since entities never
// cross a package boundary as a closed producer-facing union the way
// Draw does.
type Entity struct {
	Kind EntityKind

	// Valid when Kind == EntityTessellating: identifies the in-flight
	// job so a late result can be matched against this exact slot.
	JobID uint64

	// Valid when Kind == EntityFill/EntityStroke/EntityClip.
	VertexBuffer uint32
	IndexBuffer  uint32
	IndexCount   int
	// Bounds is the tessellated geometry's path-space AABB, used by the
	// render stream to size the stencil-then-cover pass's cover quad
	// (§4.6).
	Bounds canvas.Rect

	Transform canvas.Matrix
	BlendMode canvas.BlendMode
	Color     canvas.RGBA
	Dash      []float64
	Texture   canvas.TextureId
	Gradient  canvas.GradientId
	Sprite    canvas.SpriteId
}
