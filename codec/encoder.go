package codec

import (
	"fmt"
	"io"

	"github.com/gogpu/canvas"
)

// Encoder is a pure, stateless function from Draw to appended wire
// characters (§4.2 "Encoder"). It buffers nothing between calls, so the
// same Encoder can be shared by multiple producers without locking.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode appends the wire form of d to the encoder's writer.
func (e *Encoder) Encode(d canvas.Draw) error {
	buf := Append(nil, d)
	_, err := e.w.Write(buf)
	return err
}

// Append appends the wire form of d to dst and returns the extended
// slice, the allocation-free counterpart to Encode used by tests and
// by callers assembling a whole stream in memory.
func Append(dst []byte, d canvas.Draw) []byte {
	switch v := d.(type) {
	case canvas.StartFrame:
		return append(dst, codeStartFrame...)
	case canvas.ShowFrame:
		return append(dst, codeShowFrame...)
	case canvas.ResetFrame:
		return append(dst, codeResetFrame...)
	case canvas.NewPathOp:
		return append(dst, codeNewPath...)
	case canvas.MoveOp:
		dst = append(dst, codeMoveTo...)
		dst = appendF32(dst, float32(v.X))
		return appendF32(dst, float32(v.Y))
	case canvas.LineOp:
		dst = append(dst, codeLineTo...)
		dst = appendF32(dst, float32(v.X))
		return appendF32(dst, float32(v.Y))
	case canvas.BezierCurveOp:
		dst = append(dst, codeBezierCurveTo...)
		dst = appendF32(dst, float32(v.CP1X))
		dst = appendF32(dst, float32(v.CP1Y))
		dst = appendF32(dst, float32(v.CP2X))
		dst = appendF32(dst, float32(v.CP2Y))
		dst = appendF32(dst, float32(v.X))
		return appendF32(dst, float32(v.Y))
	case canvas.ClosePathOp:
		return append(dst, codeClosePath...)

	case canvas.SetFillColor:
		dst = append(dst, codeFillColor...)
		return appendColor(dst, v.Color)
	case canvas.SetFillTexture:
		dst = append(dst, codeFillTexture...)
		dst = appendCompactID(dst, uint64(v.Texture))
		return appendMatrix(dst, v.Transform)
	case canvas.SetFillGradient:
		dst = append(dst, codeFillGradient...)
		dst = appendCompactID(dst, uint64(v.Gradient))
		return appendMatrix(dst, v.Transform)
	case canvas.SetWindingRule:
		dst = append(dst, codeWindingRule...)
		return append(dst, alphabet[byte(v.Rule)])
	case canvas.SetLineWidth:
		dst = append(dst, codeLineWidth...)
		return appendF32(dst, float32(v.Width))
	case canvas.SetLineWidthPixels:
		dst = append(dst, codeLineWidthPx...)
		return appendF32(dst, float32(v.Width))
	case canvas.SetLineJoin:
		dst = append(dst, codeLineJoin...)
		return append(dst, alphabet[byte(v.Join)])
	case canvas.SetLineCap:
		dst = append(dst, codeLineCap...)
		return append(dst, alphabet[byte(v.Cap)])
	case canvas.SetDashPattern:
		dst = append(dst, codeDashPattern...)
		dst = appendCompactID(dst, uint64(len(v.Lengths)))
		for _, l := range v.Lengths {
			dst = appendF32(dst, float32(l))
		}
		return dst
	case canvas.SetDashOffset:
		dst = append(dst, codeDashOffset...)
		return appendF32(dst, float32(v.Offset))
	case canvas.Fill:
		return append(dst, codeFill...)
	case canvas.Stroke:
		return append(dst, codeStroke...)
	case canvas.SetBlendMode:
		dst = append(dst, codeBlendMode...)
		return append(dst, alphabet[byte(v.Mode)])

	case canvas.IdentityTransformOp:
		return append(dst, codeIdentityTransform...)
	case canvas.CanvasHeightOp:
		dst = append(dst, codeCanvasHeight...)
		return appendF32(dst, float32(v.Height))
	case canvas.CenterRegionOp:
		dst = append(dst, codeCenterRegion...)
		dst = appendF32(dst, float32(v.MinX))
		dst = appendF32(dst, float32(v.MinY))
		dst = appendF32(dst, float32(v.MaxX))
		return appendF32(dst, float32(v.MaxY))
	case canvas.MultiplyTransformOp:
		dst = append(dst, codeMultiplyTransform...)
		return appendMatrix(dst, v.M)

	case canvas.ClipOp:
		return append(dst, codeClip...)
	case canvas.UnclipOp:
		return append(dst, codeUnclip...)

	case canvas.StoreOp:
		return append(dst, codeStore...)
	case canvas.RestoreOp:
		return append(dst, codeRestore...)
	case canvas.FreeStoredBufferOp:
		return append(dst, codeFreeStoredBuffer...)
	case canvas.PushStateOp:
		return append(dst, codePushState...)
	case canvas.PopStateOp:
		return append(dst, codePopState...)

	case canvas.ClearCanvas:
		dst = append(dst, codeClearCanvas...)
		return appendColor(dst, v.Color)
	case canvas.ClearLayerOp:
		return append(dst, codeClearLayer...)
	case canvas.ClearAllLayersOp:
		return append(dst, codeClearAllLayers...)
	case canvas.SwapLayersOp:
		dst = append(dst, codeSwapLayers...)
		dst = appendCompactID(dst, uint64(v.A))
		return appendCompactID(dst, uint64(v.B))
	case canvas.LayerOp:
		dst = append(dst, codeLayer...)
		return appendCompactID(dst, uint64(v.Id))
	case canvas.LayerBlendOp:
		dst = append(dst, codeLayerBlend...)
		dst = appendCompactID(dst, uint64(v.Id))
		return append(dst, alphabet[byte(v.Mode)])
	case canvas.LayerAlphaOp:
		dst = append(dst, codeLayerAlpha...)
		dst = appendCompactID(dst, uint64(v.Id))
		return appendF32(dst, float32(v.Alpha))

	case canvas.SpriteOp:
		dst = append(dst, codeSprite...)
		return appendCompactID(dst, uint64(v.Id))
	case canvas.ClearSpriteOp:
		return append(dst, codeClearSprite...)
	case canvas.SpriteTransformOp:
		dst = append(dst, codeSpriteTransform...)
		return appendMatrix(dst, v.M)
	case canvas.DrawSpriteOp:
		dst = append(dst, codeDrawSprite...)
		return appendCompactID(dst, uint64(v.Id))

	case canvas.CreateTexture:
		dst = append(dst, codeCreateTexture...)
		dst = appendCompactID(dst, uint64(v.Id))
		dst = appendCompactID(dst, uint64(v.Width))
		return appendCompactID(dst, uint64(v.Height))
	case canvas.FreeTexture:
		dst = append(dst, codeFreeTexture...)
		return appendCompactID(dst, uint64(v.Id))
	case canvas.SetTextureBytes:
		dst = append(dst, codeSetTextureBytes...)
		dst = appendCompactID(dst, uint64(v.Id))
		dst = appendCompactID(dst, uint64(v.X))
		dst = appendCompactID(dst, uint64(v.Y))
		dst = appendCompactID(dst, uint64(v.W))
		dst = appendCompactID(dst, uint64(v.H))
		return appendBytes(dst, v.Bytes)
	case canvas.SetTextureFromSprite:
		dst = append(dst, codeSetTextureSprite...)
		dst = appendCompactID(dst, uint64(v.Texture))
		dst = appendCompactID(dst, uint64(v.Sprite))
		return appendRect(dst, v.Bounds)
	case canvas.CreateDynamicTexture:
		dst = append(dst, codeCreateDynamicTex...)
		dst = appendCompactID(dst, uint64(v.Texture))
		dst = appendCompactID(dst, uint64(v.Sprite))
		dst = appendRect(dst, v.Bounds)
		dst = appendF32(dst, float32(v.CanvasSize.W))
		return appendF32(dst, float32(v.CanvasSize.H))
	case canvas.TextureFillTransparencyOp:
		dst = append(dst, codeTextureFillAlpha...)
		dst = appendCompactID(dst, uint64(v.Texture))
		b := byte(0)
		if v.Transparent {
			b = 1
		}
		return append(dst, alphabet[b])
	case canvas.CopyTextureOp:
		dst = append(dst, codeCopyTexture...)
		dst = appendCompactID(dst, uint64(v.Src))
		return appendCompactID(dst, uint64(v.Dst))
	case canvas.FilterTextureOp:
		dst = append(dst, codeFilterTexture...)
		dst = appendCompactID(dst, uint64(v.Texture))
		dst = append(dst, alphabet[byte(v.Filter)])
		dst = appendCompactID(dst, uint64(len(v.Params)))
		for _, p := range v.Params {
			dst = appendF32(dst, float32(p))
		}
		return dst

	case canvas.CreateGradient:
		dst = append(dst, codeCreateGradient...)
		return appendCompactID(dst, uint64(v.Id))
	case canvas.GradientAddStop:
		dst = append(dst, codeGradientAddStop...)
		dst = appendCompactID(dst, uint64(v.Id))
		dst = appendF32(dst, float32(v.Offset))
		return appendColor(dst, v.Color)

	case canvas.UseFontDefinitionOp:
		dst = append(dst, codeUseFontDefinition...)
		dst = appendCompactID(dst, uint64(v.Id))
		return appendBytes(dst, v.Data)
	case canvas.FontSizeOp:
		dst = append(dst, codeFontSize...)
		dst = appendCompactID(dst, uint64(v.Id))
		return appendF32(dst, float32(v.Size))
	case canvas.DrawGlyphsOp:
		dst = append(dst, codeDrawGlyphs...)
		dst = appendCompactID(dst, uint64(v.Font))
		return appendBytes(dst, v.Payload)
	case canvas.LayoutTextOp:
		dst = append(dst, codeLayoutText...)
		dst = appendCompactID(dst, uint64(v.Font))
		return appendBytes(dst, v.Payload)
	}
	panic(fmt.Sprintf("codec: unhandled Draw type %T", d))
}

func appendRect(dst []byte, r canvas.Rect) []byte {
	dst = appendF32(dst, float32(r.Min.X))
	dst = appendF32(dst, float32(r.Min.Y))
	dst = appendF32(dst, float32(r.Max.X))
	return appendF32(dst, float32(r.Max.Y))
}
