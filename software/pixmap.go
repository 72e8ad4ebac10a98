// Package software implements the software renderer (component H): an
// alternative stream consumer that rasterizes the Draw instruction
// stream directly into a pixel buffer, bypassing the tessellator,
// render core, and render stream entirely (§4.7).
package software

import (
	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/blend"
	"github.com/gogpu/canvas/internal/clip"
	"github.com/gogpu/canvas/internal/image"
	"github.com/gogpu/canvas/internal/raster"
)

// pixmap adapts an image.ImageBuf to raster.Pixmap, compositing every
// written pixel against the buffer's current contents with the active
// blend mode and, when set, clipping it against a coverage mask.
type pixmap struct {
	buf   *image.ImageBuf
	mode  blend.BlendFunc
	clip  *clip.MaskClipper
	alpha float64
}

func newPixmap(buf *image.ImageBuf) *pixmap {
	return &pixmap{buf: buf, mode: blend.GetBlendFunc(blend.BlendSourceOver), alpha: 1}
}

func (p *pixmap) Width() int  { return p.buf.Width() }
func (p *pixmap) Height() int { return p.buf.Height() }

// SetPixel premultiplies the incoming straight-alpha color, composites
// it with the active blend mode against the buffer's own premultiplied
// contents (buf's format is always FormatRGBAPremul, so GetRGBA/SetRGBA
// read and write premultiplied channels directly), and writes the
// result back.
func (p *pixmap) SetPixel(x, y int, c raster.RGBA) {
	a := clampUnit(c.A * p.alpha)
	if a <= 0 {
		return
	}
	sa := byte(a * 255)
	sr := byte(clampUnit(c.R) * a * 255)
	sg := byte(clampUnit(c.G) * a * 255)
	sb := byte(clampUnit(c.B) * a * 255)

	if p.clip != nil {
		sa = p.clip.ApplyCoverage(float64(x)+0.5, float64(y)+0.5, sa)
		if sa == 0 {
			return
		}
	}

	dr, dg, db, da := p.buf.GetRGBA(x, y)
	r, g, b, aOut := p.mode(sr, sg, sb, sa, dr, dg, db, da)
	_ = p.buf.SetRGBA(x, y, r, g, b, aOut)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func blendFuncFor(mode canvas.BlendMode) blend.BlendFunc {
	return blend.GetBlendFunc(mode)
}
