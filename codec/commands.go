package codec

import "github.com/gogpu/canvas"

// Dispatch codes (§4.2 "each command begins with one or two literal
// dispatch characters"). The six hottest path-building/invocation
// instructions get a single lowercase letter; every other instruction
// gets two characters whose first letter is uppercase. That split lets
// the decoder tell a one-character command from a two-character one by
// looking only at the first byte, with no lookahead or backtracking.
const (
	codeMoveTo        = "m"
	codeLineTo        = "l"
	codeBezierCurveTo = "b"
	codeClosePath     = "z"
	codeFill          = "f"
	codeStroke        = "s"

	codeStartFrame   = "Sf"
	codeShowFrame    = "Sh"
	codeResetFrame   = "Sr"
	codeNewPath      = "Np"
	codeFillColor    = "Fc"
	codeFillTexture  = "Ft"
	codeFillGradient = "Fg"
	codeWindingRule  = "Wr"
	codeLineWidth    = "Lw"
	codeLineWidthPx  = "Lp"
	codeLineJoin     = "Lj"
	codeLineCap      = "Lc"
	codeDashPattern  = "Dp"
	codeDashOffset   = "Do"
	codeBlendMode    = "Bm"

	codeIdentityTransform = "It"
	codeCanvasHeight      = "Ch"
	codeCenterRegion      = "Cr"
	codeMultiplyTransform = "Mt"

	codeClip   = "Cl"
	codeUnclip = "Un"

	codeStore            = "St"
	codeRestore          = "Re"
	codeFreeStoredBuffer = "Fb"
	codePushState        = "Ps"
	codePopState         = "Po"

	codeClearCanvas    = "Cc"
	codeClearLayer     = "Cy"
	codeClearAllLayers = "Ca"
	codeSwapLayers     = "Sw"
	codeLayer          = "Ly"
	codeLayerBlend     = "Lb"
	codeLayerAlpha     = "La"

	codeSprite          = "Sp"
	codeClearSprite     = "Cs"
	codeSpriteTransform = "Sx"
	codeDrawSprite      = "Ds"

	codeCreateTexture     = "Tc"
	codeFreeTexture       = "Tf"
	codeSetTextureBytes   = "Tb"
	codeSetTextureSprite  = "Ts"
	codeCreateDynamicTex  = "Td"
	codeTextureFillAlpha  = "Tt"
	codeCopyTexture       = "Tp"
	codeFilterTexture     = "Tr"

	codeCreateGradient  = "Gc"
	codeGradientAddStop = "Ga"

	codeUseFontDefinition = "Uf"
	codeFontSize          = "Fs"
	codeDrawGlyphs        = "Dg"
	codeLayoutText        = "Lt"
)

// oneCharCommands is the set of dispatch characters that form a
// complete command by themselves.
var oneCharCommands = map[byte]canvas.DrawKind{
	'm': canvas.DrawMoveTo,
	'l': canvas.DrawLineTo,
	'b': canvas.DrawBezierCurveTo,
	'z': canvas.DrawClosePath,
	'f': canvas.DrawFill,
	's': canvas.DrawStroke,
}

// twoCharCommands maps a two-byte dispatch code to its DrawKind.
var twoCharCommands = map[string]canvas.DrawKind{
	codeStartFrame: canvas.DrawStartFrame,
	codeShowFrame:  canvas.DrawShowFrame,
	codeResetFrame: canvas.DrawResetFrame,
	codeNewPath:    canvas.DrawNewPath,

	codeFillColor:    canvas.DrawSetFillColor,
	codeFillTexture:  canvas.DrawSetFillTexture,
	codeFillGradient: canvas.DrawSetFillGradient,
	codeWindingRule:  canvas.DrawSetWindingRule,
	codeLineWidth:    canvas.DrawSetLineWidth,
	codeLineWidthPx:  canvas.DrawSetLineWidthPixels,
	codeLineJoin:     canvas.DrawSetLineJoin,
	codeLineCap:      canvas.DrawSetLineCap,
	codeDashPattern:  canvas.DrawSetDashPattern,
	codeDashOffset:   canvas.DrawSetDashOffset,
	codeBlendMode:    canvas.DrawSetBlendMode,

	codeIdentityTransform: canvas.DrawIdentityTransform,
	codeCanvasHeight:      canvas.DrawCanvasHeight,
	codeCenterRegion:      canvas.DrawCenterRegion,
	codeMultiplyTransform: canvas.DrawMultiplyTransform,

	codeClip:   canvas.DrawClip,
	codeUnclip: canvas.DrawUnclip,

	codeStore:            canvas.DrawStore,
	codeRestore:          canvas.DrawRestore,
	codeFreeStoredBuffer: canvas.DrawFreeStoredBuffer,
	codePushState:        canvas.DrawPushState,
	codePopState:         canvas.DrawPopState,

	codeClearCanvas:    canvas.DrawClearCanvas,
	codeClearLayer:     canvas.DrawClearLayer,
	codeClearAllLayers: canvas.DrawClearAllLayers,
	codeSwapLayers:     canvas.DrawSwapLayers,
	codeLayer:          canvas.DrawLayer,
	codeLayerBlend:     canvas.DrawLayerBlend,
	codeLayerAlpha:     canvas.DrawLayerAlpha,

	codeSprite:          canvas.DrawSprite,
	codeClearSprite:     canvas.DrawClearSprite,
	codeSpriteTransform: canvas.DrawSpriteTransform,
	codeDrawSprite:      canvas.DrawDrawSprite,

	codeCreateTexture:    canvas.DrawCreateTexture,
	codeFreeTexture:      canvas.DrawFreeTexture,
	codeSetTextureBytes:  canvas.DrawSetTextureBytes,
	codeSetTextureSprite: canvas.DrawSetTextureFromSprite,
	codeCreateDynamicTex: canvas.DrawCreateDynamicTexture,
	codeTextureFillAlpha: canvas.DrawTextureFillTransparency,
	codeCopyTexture:      canvas.DrawCopyTexture,
	codeFilterTexture:    canvas.DrawFilterTexture,

	codeCreateGradient:  canvas.DrawCreateGradient,
	codeGradientAddStop: canvas.DrawGradientAddStop,

	codeUseFontDefinition: canvas.DrawUseFontDefinition,
	codeFontSize:          canvas.DrawFontSize,
	codeDrawGlyphs:        canvas.DrawDrawGlyphs,
	codeLayoutText:        canvas.DrawLayoutText,
}

// isWhitespace reports whether b is insignificant between commands
// (§6 "The decoder accepts embedded '\n', '\r', or ' ' between
// commands").
func isWhitespace(b byte) bool {
	return b == '\n' || b == '\r' || b == ' '
}
