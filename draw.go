package canvas

import "github.com/gogpu/canvas/internal/blend"

// DrawKind discriminates the Draw tagged union. Every concrete Draw
// variant reports one of these from Kind(), which is what the stream
// engine's rewrite rules, the codec's dispatch table and the
// tessellator switch on instead of a type assertion per consumer.
type DrawKind int

const (
	DrawStartFrame DrawKind = iota
	DrawShowFrame
	DrawResetFrame

	DrawNewPath
	DrawMoveTo
	DrawLineTo
	DrawBezierCurveTo
	DrawClosePath

	DrawSetFillColor
	DrawSetFillTexture
	DrawSetFillGradient
	DrawSetWindingRule
	DrawSetLineWidth
	DrawSetLineWidthPixels
	DrawSetLineJoin
	DrawSetLineCap
	DrawSetDashPattern
	DrawSetDashOffset
	DrawFill
	DrawStroke
	DrawSetBlendMode

	DrawIdentityTransform
	DrawCanvasHeight
	DrawCenterRegion
	DrawMultiplyTransform

	DrawClip
	DrawUnclip

	DrawStore
	DrawRestore
	DrawFreeStoredBuffer
	DrawPushState
	DrawPopState

	DrawClearCanvas
	DrawClearLayer
	DrawClearAllLayers
	DrawSwapLayers
	DrawLayer
	DrawLayerBlend
	DrawLayerAlpha

	DrawSprite
	DrawClearSprite
	DrawSpriteTransform
	DrawDrawSprite

	DrawCreateTexture
	DrawFreeTexture
	DrawSetTextureBytes
	DrawSetTextureFromSprite
	DrawCreateDynamicTexture
	DrawTextureFillTransparency
	DrawCopyTexture
	DrawFilterTexture

	DrawCreateGradient
	DrawGradientAddStop

	DrawUseFontDefinition
	DrawFontSize
	DrawDrawGlyphs
	DrawLayoutText
)

// WindingRule decides which areas of a filled or clipped path are
// considered inside. It is the same enumeration as FillRule; the spec
// names it WindingRule at the Draw/wire level, FillRule at the Paint
// level, so this is a type alias rather than a second parallel type.
type WindingRule = FillRule

const (
	WindingNonZero = FillRuleNonZero
	WindingEvenOdd = FillRuleEvenOdd
)

// BlendMode selects the Porter-Duff (or separable) compositing
// operation used when a layer, sprite, or fill is drawn over existing
// content. BlendDestinationOut is singled out by the render stream
// (§4.6): entering it redirects drawing to an auxiliary erase texture.
//
// This is the same enumeration internal/blend uses for its pixel-level
// compositing math, so a Draw instruction's blend mode flows unchanged
// into the software renderer and into the synthetic SetBlendMode
// tessellator entity.
type BlendMode = blend.BlendMode

const (
	BlendSourceOver      = blend.BlendSourceOver
	BlendSourceIn        = blend.BlendSourceIn
	BlendSourceOut       = blend.BlendSourceOut
	BlendSourceAtop      = blend.BlendSourceAtop
	BlendDestinationOver = blend.BlendDestinationOver
	BlendDestinationIn   = blend.BlendDestinationIn
	BlendDestinationOut  = blend.BlendDestinationOut
	BlendDestinationAtop = blend.BlendDestinationAtop
	BlendXor             = blend.BlendXor
	BlendMultiply        = blend.BlendMultiply
	BlendScreen          = blend.BlendScreen
	BlendDarken          = blend.BlendDarken
	BlendLighten         = blend.BlendLighten
)

// Draw is a closed tagged union: every drawing, state, resource, and
// frame-control instruction a producer can emit. Only types in this
// package implement it. Consumers dispatch by Kind(), not by type
// assertion, per the "dynamic dispatch" design note: the union is a
// tagged sum, and the graphics context's method-style API is a producer
// convenience layered on top of it, not a polymorphism boundary.
type Draw interface {
	Kind() DrawKind
}

// --- frame control ---

type StartFrame struct{}

func (StartFrame) Kind() DrawKind { return DrawStartFrame }

type ShowFrame struct{}

func (ShowFrame) Kind() DrawKind { return DrawShowFrame }

type ResetFrame struct{}

func (ResetFrame) Kind() DrawKind { return DrawResetFrame }

// --- path ops ---

// NewPathOp starts a new, empty path. Any unclosed subpath on the
// current path is abandoned (not implicitly closed; see ClosePath and
// §7's "unclosed subpath" tessellator behaviour).
type NewPathOp struct{}

func (NewPathOp) Kind() DrawKind { return DrawNewPath }

// MoveOp starts a new subpath at (X, Y), first terminating the prior
// subpath if one is unclosed.
type MoveOp struct{ X, Y float64 }

func (MoveOp) Kind() DrawKind { return DrawMoveTo }

// LineOp extends the current subpath with a straight line to (X, Y).
type LineOp struct{ X, Y float64 }

func (LineOp) Kind() DrawKind { return DrawLineTo }

// BezierCurveOp extends the current subpath with a cubic Bezier curve.
type BezierCurveOp struct {
	CP1X, CP1Y float64
	CP2X, CP2Y float64
	X, Y       float64
}

func (BezierCurveOp) Kind() DrawKind { return DrawBezierCurveTo }

// ClosePathOp closes the current subpath with a straight line back to
// its starting point.
type ClosePathOp struct{}

func (ClosePathOp) Kind() DrawKind { return DrawClosePath }

// --- fill/stroke settings and invocation ---

type SetFillColor struct{ Color RGBA }

func (SetFillColor) Kind() DrawKind { return DrawSetFillColor }

// SetFillTexture fills with a previously declared texture, sampled
// through Transform.
type SetFillTexture struct {
	Texture   TextureId
	Transform Matrix
}

func (SetFillTexture) Kind() DrawKind { return DrawSetFillTexture }

// SetFillGradient fills with a previously declared gradient, sampled
// through Transform.
type SetFillGradient struct {
	Gradient  GradientId
	Transform Matrix
}

func (SetFillGradient) Kind() DrawKind { return DrawSetFillGradient }

type SetWindingRule struct{ Rule WindingRule }

func (SetWindingRule) Kind() DrawKind { return DrawSetWindingRule }

// SetLineWidth sets the stroke width in canvas (pre-transform) units.
type SetLineWidth struct{ Width float64 }

func (SetLineWidth) Kind() DrawKind { return DrawSetLineWidth }

// SetLineWidthPixels sets the stroke width in device pixel units,
// independent of the current transform's scale.
type SetLineWidthPixels struct{ Width float64 }

func (SetLineWidthPixels) Kind() DrawKind { return DrawSetLineWidthPixels }

type SetLineJoin struct{ Join LineJoin }

func (SetLineJoin) Kind() DrawKind { return DrawSetLineJoin }

type SetLineCap struct{ Cap LineCap }

func (SetLineCap) Kind() DrawKind { return DrawSetLineCap }

// SetDashPattern sets the dash on/off lengths. An empty slice disables
// dashing.
type SetDashPattern struct{ Lengths []float64 }

func (SetDashPattern) Kind() DrawKind { return DrawSetDashPattern }

type SetDashOffset struct{ Offset float64 }

func (SetDashOffset) Kind() DrawKind { return DrawSetDashOffset }

// Fill rasterizes the current path with the current fill settings.
type Fill struct{}

func (Fill) Kind() DrawKind { return DrawFill }

// Stroke rasterizes the current path's outline with the current stroke
// settings.
type Stroke struct{}

func (Stroke) Kind() DrawKind { return DrawStroke }

type SetBlendMode struct{ Mode BlendMode }

func (SetBlendMode) Kind() DrawKind { return DrawSetBlendMode }

// --- transform stack ---

// IdentityTransformOp resets the current transform to identity.
type IdentityTransformOp struct{}

func (IdentityTransformOp) Kind() DrawKind { return DrawIdentityTransform }

// CanvasHeightOp sets up a transform that flips Y and scales so that the
// canvas's visible height in canvas units is Height, matching the
// convention that producers describe drawings with Y increasing
// upward.
type CanvasHeightOp struct{ Height float64 }

func (CanvasHeightOp) Kind() DrawKind { return DrawCanvasHeight }

// CenterRegionOp sets up a transform centering and fitting the
// rectangle (MinX, MinY)-(MaxX, MaxY) into the viewport.
type CenterRegionOp struct{ MinX, MinY, MaxX, MaxY float64 }

func (CenterRegionOp) Kind() DrawKind { return DrawCenterRegion }

// MultiplyTransformOp composes M onto the current transform:
// new = current * M.
type MultiplyTransformOp struct{ M Matrix }

func (MultiplyTransformOp) Kind() DrawKind { return DrawMultiplyTransform }

// --- clipping ---

// ClipOp intersects the current clip region with the current path.
type ClipOp struct{}

func (ClipOp) Kind() DrawKind { return DrawClip }

// UnclipOp removes the current clip region.
type UnclipOp struct{}

func (UnclipOp) Kind() DrawKind { return DrawUnclip }

// --- state stack ---

// StoreOp snapshots the current canvas state. Paired with Restore,
// which rewinds to it (§4.1 rule 2), or FreeStoredBuffer, which
// discards it without restoring (§4.1 rule 3).
type StoreOp struct{}

func (StoreOp) Kind() DrawKind { return DrawStore }

// RestoreOp restores the state captured by the most recent StoreOp.
type RestoreOp struct{}

func (RestoreOp) Kind() DrawKind { return DrawRestore }

// FreeStoredBufferOp discards the most recently stored state without
// restoring it.
type FreeStoredBufferOp struct{}

func (FreeStoredBufferOp) Kind() DrawKind { return DrawFreeStoredBuffer }

// PushStateOp pushes the current per-layer graphics state (transform,
// clip, fill/stroke settings) onto that layer's state stack.
type PushStateOp struct{}

func (PushStateOp) Kind() DrawKind { return DrawPushState }

// PopStateOp pops the current layer's state stack, restoring the
// popped state as current.
type PopStateOp struct{}

func (PopStateOp) Kind() DrawKind { return DrawPopState }

// --- canvas management ---

// ClearCanvas resets the whole canvas to Color and drops every
// non-frame-tagged log entry (§4.1 rule 1).
type ClearCanvas struct{ Color RGBA }

func (ClearCanvas) Kind() DrawKind { return DrawClearCanvas }

// ClearLayerOp clears the current target layer, preserving canvas-global
// entries and the restrictive font-op carve-out (§13).
type ClearLayerOp struct{}

func (ClearLayerOp) Kind() DrawKind { return DrawClearLayer }

// ClearAllLayersOp clears every layer (but not sprites or frame state).
type ClearAllLayersOp struct{}

func (ClearAllLayersOp) Kind() DrawKind { return DrawClearAllLayers }

// SwapLayersOp exchanges the composite-order position of two layers.
type SwapLayersOp struct{ A, B LayerId }

func (SwapLayersOp) Kind() DrawKind { return DrawSwapLayers }

// LayerOp selects Id as the current drawing target.
type LayerOp struct{ Id LayerId }

func (LayerOp) Kind() DrawKind { return DrawLayer }

type LayerBlendOp struct {
	Id   LayerId
	Mode BlendMode
}

func (LayerBlendOp) Kind() DrawKind { return DrawLayerBlend }

type LayerAlphaOp struct {
	Id    LayerId
	Alpha float64
}

func (LayerAlphaOp) Kind() DrawKind { return DrawLayerAlpha }

// --- sprite ops ---

// SpriteOp selects Id as the current drawing target, creating it as a
// sprite-flagged layer on first use.
type SpriteOp struct{ Id SpriteId }

func (SpriteOp) Kind() DrawKind { return DrawSprite }

// ClearSpriteOp clears the current target sprite, same carve-out as
// ClearLayerOp.
type ClearSpriteOp struct{}

func (ClearSpriteOp) Kind() DrawKind { return DrawClearSprite }

// SpriteTransformOp sets the transform applied when the current target
// sprite is drawn via DrawSpriteOp.
type SpriteTransformOp struct{ M Matrix }

func (SpriteTransformOp) Kind() DrawKind { return DrawSpriteTransform }

// DrawSpriteOp draws a previously defined sprite into the current
// target using that sprite's SpriteTransformOp.
type DrawSpriteOp struct{ Id SpriteId }

func (DrawSpriteOp) Kind() DrawKind { return DrawDrawSprite }

// --- texture ops ---

type CreateTexture struct {
	Id            TextureId
	Width, Height int
}

func (CreateTexture) Kind() DrawKind { return DrawCreateTexture }

type FreeTexture struct{ Id TextureId }

func (FreeTexture) Kind() DrawKind { return DrawFreeTexture }

// SetTextureBytes replaces a W x H region of Id at (X, Y) with Bytes
// (tightly packed BGRA).
type SetTextureBytes struct {
	Id    TextureId
	X, Y  int
	W, H  int
	Bytes []byte
}

func (SetTextureBytes) Kind() DrawKind { return DrawSetTextureBytes }

// SetTextureFromSprite renders Sprite into Texture's pixels, once, as of
// the time this instruction is processed.
type SetTextureFromSprite struct {
	Texture TextureId
	Sprite  SpriteId
	Bounds  Rect
}

func (SetTextureFromSprite) Kind() DrawKind { return DrawSetTextureFromSprite }

// CreateDynamicTexture binds Texture to Sprite so the render core
// re-renders it whenever the viewport transform or the sprite's
// modification counter changes (§4.5 "Dynamic textures", §9 open
// question on per-texture independence).
type CreateDynamicTexture struct {
	Texture    TextureId
	Sprite     SpriteId
	Bounds     Rect
	CanvasSize struct{ W, H float64 }
}

func (CreateDynamicTexture) Kind() DrawKind { return DrawCreateDynamicTexture }

// TextureFillTransparencyOp marks whether sampling Texture outside its
// declared bounds should be transparent (true) or clamp to the edge
// (false).
type TextureFillTransparencyOp struct {
	Texture     TextureId
	Transparent bool
}

func (TextureFillTransparencyOp) Kind() DrawKind { return DrawTextureFillTransparency }

type CopyTextureOp struct{ Src, Dst TextureId }

func (CopyTextureOp) Kind() DrawKind { return DrawCopyTexture }

// FilterKind enumerates post-processing filters that can be applied to
// a texture in place.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterBlur
	FilterMask
	FilterColorMatrix
)

type FilterTextureOp struct {
	Texture TextureId
	Filter  FilterKind
	Params  []float64
}

func (FilterTextureOp) Kind() DrawKind { return DrawFilterTexture }

// --- gradient ops ---

type CreateGradient struct{ Id GradientId }

func (CreateGradient) Kind() DrawKind { return DrawCreateGradient }

type GradientAddStop struct {
	Id     GradientId
	Offset float64
	Color  RGBA
}

func (GradientAddStop) Kind() DrawKind { return DrawGradientAddStop }

// --- font/text ops (carried opaquely, §3/§9) ---

// UseFontDefinitionOp declares or redeclares FontId's backing data. It
// is one of the two font ops that survive ClearLayer/ClearSprite (§13).
type UseFontDefinitionOp struct {
	Id   FontId
	Data []byte
}

func (UseFontDefinitionOp) Kind() DrawKind { return DrawUseFontDefinition }

// FontSizeOp sets the point size used by subsequent text ops against
// FontId. The other survivor of ClearLayer/ClearSprite (§13).
type FontSizeOp struct {
	Id   FontId
	Size float64
}

func (FontSizeOp) Kind() DrawKind { return DrawFontSize }

// DrawGlyphsOp and LayoutTextOp carry shaped-text payloads opaquely:
// this core never shapes glyphs (§1 Non-goals), so Payload is treated
// as uninterpreted bytes by every consumer except a caller-supplied
// opaque renderer.
type DrawGlyphsOp struct {
	Font    FontId
	Payload []byte
}

func (DrawGlyphsOp) Kind() DrawKind { return DrawDrawGlyphs }

type LayoutTextOp struct {
	Font    FontId
	Payload []byte
}

func (LayoutTextOp) Kind() DrawKind { return DrawLayoutText }
