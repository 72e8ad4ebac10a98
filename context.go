package canvas

import "image"

// Context is a stateful drawing surface: it owns a pixmap, a current path,
// fill/stroke paint, a transform, and a clip mask, and delegates the actual
// pixel work to a Renderer. It mirrors the immediate-mode drawing API that
// sits in front of the retained Draw instruction stream (see Recorder).
type Context struct {
	width, height int

	pixmap   *Pixmap
	renderer Renderer

	path *Path

	paint       *Paint // fill paint
	strokePaint *Paint

	matrix Matrix
	mask   *Mask

	stack []contextState
}

// contextState is what Push/Pop save and restore.
type contextState struct {
	matrix      Matrix
	paint       *Paint
	strokePaint *Paint
	mask        *Mask
}

// NewContext creates a Context of the given pixel dimensions. By default it
// allocates its own Pixmap and uses a SoftwareRenderer; use WithPixmap or
// WithRenderer to inject alternatives.
func NewContext(width, height int, opts ...ContextOption) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pm := o.pixmap
	if pm == nil {
		pm = NewPixmap(width, height)
	}

	renderer := o.renderer
	if renderer == nil {
		if o.analyticFiller != nil {
			renderer = NewAnalyticSoftwareRenderer(o.analyticFiller)
		} else {
			renderer = NewSoftwareRenderer()
		}
	}

	return &Context{
		width:       width,
		height:      height,
		pixmap:      pm,
		renderer:    renderer,
		path:        NewPath(),
		paint:       NewPaint(),
		strokePaint: NewPaint(),
		matrix:      Identity(),
	}
}

// NewContextForImage creates a Context backed by a Pixmap copied from img.
// The Context's dimensions come from img's bounds unless a WithPixmap
// option overrides the pixmap entirely.
func NewContextForImage(img image.Image, opts ...ContextOption) *Context {
	b := img.Bounds()
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.pixmap == nil {
		o.pixmap = FromImage(img)
	}

	merged := make([]ContextOption, 0, len(opts)+1)
	merged = append(merged, WithPixmap(o.pixmap))
	merged = append(merged, opts...)
	return NewContext(b.Dx(), b.Dy(), merged...)
}

// Width returns the context's width in pixels, as given to NewContext.
func (c *Context) Width() int { return c.width }

// Height returns the context's height in pixels, as given to NewContext.
func (c *Context) Height() int { return c.height }

// MoveTo starts a new subpath at (x, y), transformed by the current matrix.
func (c *Context) MoveTo(x, y float64) {
	p := c.matrix.TransformPoint(Pt(x, y))
	c.path.MoveTo(p.X, p.Y)
}

// LineTo adds a line to the current subpath, transformed by the current matrix.
func (c *Context) LineTo(x, y float64) {
	p := c.matrix.TransformPoint(Pt(x, y))
	c.path.LineTo(p.X, p.Y)
}

// QuadraticTo adds a quadratic Bezier curve, transformed by the current matrix.
func (c *Context) QuadraticTo(cx, cy, x, y float64) {
	ctrl := c.matrix.TransformPoint(Pt(cx, cy))
	p := c.matrix.TransformPoint(Pt(x, y))
	c.path.QuadraticTo(ctrl.X, ctrl.Y, p.X, p.Y)
}

// CubicTo adds a cubic Bezier curve, transformed by the current matrix.
func (c *Context) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	ctrl1 := c.matrix.TransformPoint(Pt(c1x, c1y))
	ctrl2 := c.matrix.TransformPoint(Pt(c2x, c2y))
	p := c.matrix.TransformPoint(Pt(x, y))
	c.path.CubicTo(ctrl1.X, ctrl1.Y, ctrl2.X, ctrl2.Y, p.X, p.Y)
}

// ClosePath closes the current subpath.
func (c *Context) ClosePath() {
	c.path.Close()
}

// DrawCircle adds a circle centered at (x, y) with radius r to the path.
func (c *Context) DrawCircle(x, y, r float64) {
	const k = 0.5522847498307936
	c.MoveTo(x+r, y)
	c.CubicTo(x+r, y+r*k, x+r*k, y+r, x, y+r)
	c.CubicTo(x-r*k, y+r, x-r, y+r*k, x-r, y)
	c.CubicTo(x-r, y-r*k, x-r*k, y-r, x, y-r)
	c.CubicTo(x+r*k, y-r, x+r, y-r*k, x+r, y)
	c.ClosePath()
}

// SetColor sets both the fill and stroke brush to a solid color, and keeps
// Pattern in sync for callers still using the Pattern-based API.
func (c *Context) SetColor(color RGBA) {
	c.paint.SetBrush(Solid(color))
	c.strokePaint.SetBrush(Solid(color))
}

// SetRGB sets both the fill and stroke color from RGB components.
func (c *Context) SetRGB(r, g, b float64) {
	c.SetColor(RGB(r, g, b))
}

// SetFillBrush sets the brush used by Fill.
func (c *Context) SetFillBrush(b Brush) {
	c.paint.SetBrush(b)
}

// FillBrush returns the brush used by Fill.
func (c *Context) FillBrush() Brush {
	return c.paint.GetBrush()
}

// SetStrokeBrush sets the brush used by Stroke.
func (c *Context) SetStrokeBrush(b Brush) {
	c.strokePaint.SetBrush(b)
}

// StrokeBrush returns the brush used by Stroke.
func (c *Context) StrokeBrush() Brush {
	return c.strokePaint.GetBrush()
}

// SetLineWidth sets the stroke line width.
func (c *Context) SetLineWidth(w float64) {
	c.strokePaint.LineWidth = w
}

// Fill rasterizes the current path's interior using the fill paint, then
// clears the path. It mirrors the immediate-mode "fill and reset" behavior
// common to 2D canvas APIs.
func (c *Context) Fill() error {
	err := c.renderer.Fill(c.pixmap, c.path, c.paint)
	c.path = NewPath()
	return err
}

// Stroke rasterizes the current path's outline using the stroke paint, then
// clears the path.
func (c *Context) Stroke() error {
	err := c.renderer.Stroke(c.pixmap, c.path, c.strokePaint)
	c.path = NewPath()
	return err
}

// SetMask installs mask as the current clip mask.
func (c *Context) SetMask(mask *Mask) {
	c.mask = mask
}

// GetMask returns the current clip mask, or nil if none is set.
func (c *Context) GetMask() *Mask {
	return c.mask
}

// ClearMask removes the current clip mask.
func (c *Context) ClearMask() {
	c.mask = nil
}

// InvertMask inverts the current clip mask in place. It is a no-op if no
// mask is set.
func (c *Context) InvertMask() {
	if c.mask != nil {
		c.mask.Invert()
	}
}

// AsMask rasterizes the current path's fill coverage into a new Mask the
// same size as the context, without affecting the pixmap or clearing the
// path.
func (c *Context) AsMask() *Mask {
	mask := NewMask(c.width, c.height)
	target := maskTarget{mask: mask}
	rz := newPathRasterizer(c.width, c.height)
	for _, poly := range flattenPath(c.path) {
		rz.fillMask(target, poly, c.paint.FillRule)
	}
	return mask
}

// Push saves the current matrix, paints, and clip mask onto an internal
// stack.
func (c *Context) Push() {
	c.stack = append(c.stack, contextState{
		matrix:      c.matrix,
		paint:       c.paint.Clone(),
		strokePaint: c.strokePaint.Clone(),
		mask:        c.mask,
	})
}

// Pop restores the most recently pushed state. It is a no-op if the stack
// is empty.
func (c *Context) Pop() {
	if len(c.stack) == 0 {
		return
	}
	n := len(c.stack) - 1
	state := c.stack[n]
	c.stack = c.stack[:n]

	c.matrix = state.matrix
	c.paint = state.paint
	c.strokePaint = state.strokePaint
	c.mask = state.mask
}
