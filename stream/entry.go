// Package stream implements the retained instruction log (component C):
// a single-mutator state machine that accepts Draw instructions, applies
// redundancy-elimination rewrite rules, and fans the resulting log out to
// any number of independent subscribers with backpressure.
package stream

import "github.com/gogpu/canvas"

// Entry is one retained log record: a Draw instruction tagged with the
// target it was issued against.
type Entry struct {
	Target canvas.Target
	Draw   canvas.Draw
}

// isFrameControl reports whether d is one of the whole-canvas frame
// instructions, which are always tagged Frame regardless of the current
// selected target (§4.1 rule 9).
func isFrameControl(d canvas.Draw) bool {
	switch d.Kind() {
	case canvas.DrawStartFrame, canvas.DrawShowFrame, canvas.DrawResetFrame, canvas.DrawClearCanvas:
		return true
	default:
		return false
	}
}

// isFrameGlobalOnClear reports whether d survives a ClearLayer/ClearSprite
// sweep even though it is tagged with the cleared target (SPEC_FULL §13,
// open question decision 2): LayerBlend and the font declaration pair
// UseFontDefinition/FontSize are carve-outs; DrawGlyphs/LayoutText are
// not, matching the source's restrictive behaviour.
func isFrameGlobalOnClear(d canvas.Draw) bool {
	switch d.Kind() {
	case canvas.DrawLayerBlend, canvas.DrawUseFontDefinition, canvas.DrawFontSize:
		return true
	default:
		return isFrameControl(d)
	}
}
