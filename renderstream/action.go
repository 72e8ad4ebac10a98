// Package renderstream implements the render stream (component G): it
// walks a render.Core's layer list and each layer's resolved entities
// and emits the fixed GPU action vocabulary of §6.
package renderstream

import (
	"github.com/gogpu/canvas"
	"github.com/gogpu/gputypes"
)

// ActionKind discriminates one GPU backend action.
type ActionKind int

const (
	ActionCreateVertexBuffer ActionKind = iota
	ActionCreateIndexBuffer
	ActionFreeVertexBuffer
	ActionFreeIndexBuffer

	ActionCreateTextureBgra
	// ActionCreateTextureMono is part of the action vocabulary for a
	// single-channel 2D texture upload; no Draw op currently produces
	// one (CreateTexture is always BGRA), so nothing emits it yet.
	ActionCreateTextureMono
	ActionCreate1DTextureBgra
	// ActionCreate1DTextureMono mirrors ActionCreate1DTextureBgra for a
	// single-channel gradient strip; unused while gradients bake to
	// RGBA8.
	ActionCreate1DTextureMono
	ActionWriteTextureData
	ActionWriteTexture1D
	ActionCreateMipMaps
	ActionCopyTexture
	ActionFreeTexture

	ActionCreateRenderTarget
	ActionSelectRenderTarget
	ActionRenderToFrameBuffer
	ActionDrawFrameBuffer
	ActionFreeRenderTarget
	ActionShowFrameBuffer
	ActionClear

	ActionUseShader
	ActionSetTransform
	ActionBlendMode

	ActionDrawTriangles
	ActionDrawIndexedTriangles
)

// RenderTargetKind distinguishes the frame's main color target from an
// auxiliary erase-mask target created for a DestinationOut blend run.
type RenderTargetKind int

const (
	RenderTargetColor RenderTargetKind = iota
	RenderTargetErase
)

// ShaderKey encodes the combination of shading inputs UseShader
// selects: clip mask, erase mask, dash texture, fill texture or
// gradient, and a post-processing step (§6 "combination of clip mask,
// erase mask, dash texture, fill texture or gradient, and post-
// processing step").
type ShaderKey struct {
	ClipMask         bool
	EraseMask        bool
	DashTexture      bool
	FillTexture      canvas.TextureId
	HasFillTexture   bool
	FillGradient     canvas.GradientId
	HasFillGradient  bool
	PremultiplyAlpha bool
}

// Action is one emitted GPU backend instruction. Only the fields
// relevant to Kind are meaningful, the same flat kind-tagged record
// shape render.Entity and render.TextureRequest use.
type Action struct {
	Kind ActionKind

	ID  uint32
	Src uint32

	Width, Height int
	Format        gputypes.TextureFormat

	Vertices []float32
	Indices  []uint32
	Bytes    []byte

	Transform canvas.Matrix
	Blend     canvas.BlendMode
	Shader    ShaderKey
	Color     canvas.RGBA

	VertexBuffer uint32
	IndexBuffer  uint32
	IndexCount   int

	RenderTargetKind RenderTargetKind
	BackingTexture   uint32
}
