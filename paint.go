package canvas

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Paint represents the styling information for drawing.
type Paint struct {
	// Brush is the preferred source of color for this paint. It takes
	// precedence over Pattern when both are set; Pattern is kept for
	// callers that only know the older Pattern-based API.
	Brush Brush

	// Pattern is the fill or stroke pattern
	Pattern Pattern

	// LineWidth is the width of strokes
	LineWidth float64

	// LineCap is the shape of line endpoints
	LineCap LineCap

	// LineJoin is the shape of line joins
	LineJoin LineJoin

	// MiterLimit is the miter limit for sharp joins
	MiterLimit float64

	// FillRule is the fill rule for paths
	FillRule FillRule

	// Antialias enables anti-aliasing
	Antialias bool
}

// NewPaint creates a new Paint with default values.
func NewPaint() *Paint {
	return &Paint{
		Brush:      Solid(Black),
		Pattern:    NewSolidPattern(Black),
		LineWidth:  1.0,
		LineCap:    LineCapButt,
		LineJoin:   LineJoinMiter,
		MiterLimit: 10.0,
		FillRule:   FillRuleNonZero,
		Antialias:  true,
	}
}

// Clone creates a copy of the Paint.
func (p *Paint) Clone() *Paint {
	return &Paint{
		Brush:      p.Brush,
		Pattern:    p.Pattern,
		LineWidth:  p.LineWidth,
		LineCap:    p.LineCap,
		LineJoin:   p.LineJoin,
		MiterLimit: p.MiterLimit,
		FillRule:   p.FillRule,
		Antialias:  p.Antialias,
	}
}

// SetBrush sets the paint's brush, also updating Pattern so callers using
// the older Pattern-based API keep seeing a matching solid color where
// possible.
func (p *Paint) SetBrush(b Brush) {
	p.Brush = b
	if sb, ok := b.(SolidBrush); ok {
		p.Pattern = NewSolidPattern(sb.Color)
	}
}

// GetBrush returns the paint's brush, falling back to Pattern and then to
// an opaque black solid brush if neither is set.
func (p *Paint) GetBrush() Brush {
	if p.Brush != nil {
		return p.Brush
	}
	if p.Pattern != nil {
		return patternBrush{p.Pattern}
	}
	return Solid(Black)
}

// ColorAt returns the color this paint would paint at (x, y), giving Brush
// precedence over Pattern per GetBrush.
func (p *Paint) ColorAt(x, y float64) RGBA {
	return p.GetBrush().ColorAt(x, y)
}

// patternBrush adapts a Pattern to the Brush interface so GetBrush can
// return a uniform type regardless of which field was set.
type patternBrush struct {
	pattern Pattern
}

func (patternBrush) brushMarker() {}

func (b patternBrush) ColorAt(x, y float64) RGBA {
	return b.pattern.ColorAt(x, y)
}
