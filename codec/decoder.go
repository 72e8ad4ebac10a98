package codec

import "github.com/gogpu/canvas"

// decoderState names where the incremental decoder is within parsing
// one command (§4.2 "Decoder ... States are a finite set, one per
// partially parsed command").
type decoderState int

const (
	stateBetweenCommands decoderState = iota
	stateAwaitingSecondDispatchChar
	stateAwaitingFields
	stateError
)

// Decoder is the incremental decoder state machine of §4.2. Feed
// accepts bytes one at a time (or in whatever chunks the transport
// delivers); a command completes and is emitted the moment its fixed
// and/or length-prefixed fields have all arrived, without the caller
// needing to frame commands itself.
type Decoder struct {
	state decoderState
	buf   []byte // bytes of the command currently being assembled
	err   error
}

// NewDecoder creates a Decoder ready to accept the start of a stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Err returns the error that put the decoder into its terminal error
// state, or nil if it is still decoding normally.
func (d *Decoder) Err() error {
	return d.err
}

// Feed consumes one byte. It returns a completed Draw (ready=true) the
// moment one is fully parsed, or ready=false while more bytes are
// needed. Once Feed returns a non-nil error the decoder is in its
// terminal error state (§4.2) and every subsequent Feed returns
// ErrIsInErrorState without consuming input.
func (d *Decoder) Feed(b byte) (draw canvas.Draw, ready bool, err error) {
	if d.state == stateError {
		return nil, false, ErrIsInErrorState
	}
	if d.state == stateBetweenCommands && isWhitespace(b) {
		return nil, false, nil
	}
	d.buf = append(d.buf, b)
	draw, ready, err = d.tryParse()
	if err != nil {
		d.state = stateError
		d.err = err
		return nil, false, err
	}
	if ready {
		d.buf = nil
		d.state = stateBetweenCommands
	} else {
		d.state = stateAwaitingFields
	}
	return draw, ready, nil
}

// Write feeds every byte of p in order, stopping at the first error.
// It returns the Draw values completed along the way.
func (d *Decoder) Write(p []byte) ([]canvas.Draw, error) {
	var out []canvas.Draw
	for _, b := range p {
		draw, ready, err := d.Feed(b)
		if err != nil {
			return out, err
		}
		if ready {
			out = append(out, draw)
		}
	}
	return out, nil
}

// tryParse attempts to parse a complete command from d.buf. It returns
// ErrMissingCharacter-free success only once every field has arrived;
// returning (nil, false, nil) means "keep feeding bytes".
func (d *Decoder) tryParse() (canvas.Draw, bool, error) {
	if len(d.buf) == 0 {
		return nil, false, nil
	}
	first := d.buf[0]
	if kind, ok := oneCharCommands[first]; ok {
		return d.parseFields(kind, d.buf[1:])
	}
	if first < 'A' || first > 'Z' {
		return nil, false, ErrInvalidCharacter
	}
	if len(d.buf) < 2 {
		return nil, false, nil // need the second dispatch char
	}
	code := string(d.buf[:2])
	kind, ok := twoCharCommands[code]
	if !ok {
		return nil, false, ErrInvalidCharacter
	}
	return d.parseFields(kind, d.buf[2:])
}

// parseFields decodes the fixed/length-prefixed fields following a
// command's dispatch code. field is everything after the dispatch
// code collected so far; a nil/false/nil return means more bytes are
// needed.
func (d *Decoder) parseFields(kind canvas.DrawKind, field []byte) (canvas.Draw, bool, error) {
	switch kind {
	case canvas.DrawStartFrame:
		return canvas.StartFrame{}, true, nil
	case canvas.DrawShowFrame:
		return canvas.ShowFrame{}, true, nil
	case canvas.DrawResetFrame:
		return canvas.ResetFrame{}, true, nil
	case canvas.DrawNewPath:
		return canvas.NewPathOp{}, true, nil
	case canvas.DrawClosePath:
		return canvas.ClosePathOp{}, true, nil
	case canvas.DrawFill:
		return canvas.Fill{}, true, nil
	case canvas.DrawStroke:
		return canvas.Stroke{}, true, nil
	case canvas.DrawIdentityTransform:
		return canvas.IdentityTransformOp{}, true, nil
	case canvas.DrawClip:
		return canvas.ClipOp{}, true, nil
	case canvas.DrawUnclip:
		return canvas.UnclipOp{}, true, nil
	case canvas.DrawStore:
		return canvas.StoreOp{}, true, nil
	case canvas.DrawRestore:
		return canvas.RestoreOp{}, true, nil
	case canvas.DrawFreeStoredBuffer:
		return canvas.FreeStoredBufferOp{}, true, nil
	case canvas.DrawPushState:
		return canvas.PushStateOp{}, true, nil
	case canvas.DrawPopState:
		return canvas.PopStateOp{}, true, nil
	case canvas.DrawClearLayer:
		return canvas.ClearLayerOp{}, true, nil
	case canvas.DrawClearAllLayers:
		return canvas.ClearAllLayersOp{}, true, nil
	case canvas.DrawClearSprite:
		return canvas.ClearSpriteOp{}, true, nil

	case canvas.DrawMoveTo:
		return need(field, 12, func(f []byte) canvas.Draw {
			x, _ := readF32(f[0:6])
			y, _ := readF32(f[6:12])
			return canvas.MoveOp{X: float64(x), Y: float64(y)}
		})
	case canvas.DrawLineTo:
		return need(field, 12, func(f []byte) canvas.Draw {
			x, _ := readF32(f[0:6])
			y, _ := readF32(f[6:12])
			return canvas.LineOp{X: float64(x), Y: float64(y)}
		})
	case canvas.DrawBezierCurveTo:
		return need(field, 36, func(f []byte) canvas.Draw {
			vals := readF32s(f, 6)
			return canvas.BezierCurveOp{
				CP1X: vals[0], CP1Y: vals[1], CP2X: vals[2], CP2Y: vals[3], X: vals[4], Y: vals[5],
			}
		})

	case canvas.DrawSetFillColor:
		c, n, err := readColor(field)
		return wrap(field, n, err, func() canvas.Draw { return canvas.SetFillColor{Color: c} })
	case canvas.DrawSetFillTexture:
		return parseIDThenMatrix(field, func(id uint64, m canvas.Matrix) canvas.Draw {
			return canvas.SetFillTexture{Texture: canvas.TextureId(id), Transform: m}
		})
	case canvas.DrawSetFillGradient:
		return parseIDThenMatrix(field, func(id uint64, m canvas.Matrix) canvas.Draw {
			return canvas.SetFillGradient{Gradient: canvas.GradientId(id), Transform: m}
		})
	case canvas.DrawSetWindingRule:
		return need(field, 1, func(f []byte) canvas.Draw {
			v, _ := digitValue(f[0])
			return canvas.SetWindingRule{Rule: canvas.WindingRule(v)}
		})
	case canvas.DrawSetLineWidth:
		return need(field, 6, func(f []byte) canvas.Draw {
			v, _ := readF32(f)
			return canvas.SetLineWidth{Width: float64(v)}
		})
	case canvas.DrawSetLineWidthPixels:
		return need(field, 6, func(f []byte) canvas.Draw {
			v, _ := readF32(f)
			return canvas.SetLineWidthPixels{Width: float64(v)}
		})
	case canvas.DrawSetLineJoin:
		return need(field, 1, func(f []byte) canvas.Draw {
			v, _ := digitValue(f[0])
			return canvas.SetLineJoin{Join: canvas.LineJoin(v)}
		})
	case canvas.DrawSetLineCap:
		return need(field, 1, func(f []byte) canvas.Draw {
			v, _ := digitValue(f[0])
			return canvas.SetLineCap{Cap: canvas.LineCap(v)}
		})
	case canvas.DrawSetDashPattern:
		count, n, ok := readCompactID(field)
		if !ok {
			if n == -2 {
				return nil, false, ErrBadNumber
			}
			return nil, false, nil
		}
		total := n + int(count)*6
		if len(field) < total {
			return nil, false, nil
		}
		lengths := readF32s(field[n:total], int(count))
		return canvas.SetDashPattern{Lengths: lengths}, true, nil
	case canvas.DrawSetDashOffset:
		return need(field, 6, func(f []byte) canvas.Draw {
			v, _ := readF32(f)
			return canvas.SetDashOffset{Offset: float64(v)}
		})
	case canvas.DrawSetBlendMode:
		return need(field, 1, func(f []byte) canvas.Draw {
			v, _ := digitValue(f[0])
			return canvas.SetBlendMode{Mode: canvas.BlendMode(v)}
		})

	case canvas.DrawCanvasHeight:
		return need(field, 6, func(f []byte) canvas.Draw {
			v, _ := readF32(f)
			return canvas.CanvasHeightOp{Height: float64(v)}
		})
	case canvas.DrawCenterRegion:
		return need(field, 24, func(f []byte) canvas.Draw {
			vals := readF32s(f, 4)
			return canvas.CenterRegionOp{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}
		})
	case canvas.DrawMultiplyTransform:
		m, n, err := readMatrix(field)
		return wrap(field, n, err, func() canvas.Draw { return canvas.MultiplyTransformOp{M: m} })

	case canvas.DrawClearCanvas:
		c, n, err := readColor(field)
		return wrap(field, n, err, func() canvas.Draw { return canvas.ClearCanvas{Color: c} })

	case canvas.DrawSwapLayers:
		return parseTwoIDs(field, func(a, b uint64) canvas.Draw {
			return canvas.SwapLayersOp{A: canvas.LayerId(a), B: canvas.LayerId(b)}
		})
	case canvas.DrawLayer:
		return parseOneID(field, func(id uint64) canvas.Draw { return canvas.LayerOp{Id: canvas.LayerId(id)} })
	case canvas.DrawLayerBlend:
		id, n, ok := readCompactID(field)
		if !ok {
			return invalidOrWait(n)
		}
		if len(field) < n+1 {
			return nil, false, nil
		}
		v, _ := digitValue(field[n])
		return canvas.LayerBlendOp{Id: canvas.LayerId(id), Mode: canvas.BlendMode(v)}, true, nil
	case canvas.DrawLayerAlpha:
		id, n, ok := readCompactID(field)
		if !ok {
			return invalidOrWait(n)
		}
		if len(field) < n+6 {
			return nil, false, nil
		}
		v, _ := readF32(field[n : n+6])
		return canvas.LayerAlphaOp{Id: canvas.LayerId(id), Alpha: float64(v)}, true, nil

	case canvas.DrawSprite:
		return parseOneID(field, func(id uint64) canvas.Draw { return canvas.SpriteOp{Id: canvas.SpriteId(id)} })
	case canvas.DrawSpriteTransform:
		m, n, err := readMatrix(field)
		return wrap(field, n, err, func() canvas.Draw { return canvas.SpriteTransformOp{M: m} })
	case canvas.DrawDrawSprite:
		return parseOneID(field, func(id uint64) canvas.Draw { return canvas.DrawSpriteOp{Id: canvas.SpriteId(id)} })

	case canvas.DrawCreateTexture:
		return parseThreeIDs(field, func(id, w, h uint64) canvas.Draw {
			return canvas.CreateTexture{Id: canvas.TextureId(id), Width: int(w), Height: int(h)}
		})
	case canvas.DrawFreeTexture:
		return parseOneID(field, func(id uint64) canvas.Draw { return canvas.FreeTexture{Id: canvas.TextureId(id)} })
	case canvas.DrawSetTextureBytes:
		return parseSetTextureBytes(field)
	case canvas.DrawSetTextureFromSprite:
		return parseTwoIDsThenRect(field, func(texture, sprite uint64, r canvas.Rect) canvas.Draw {
			return canvas.SetTextureFromSprite{Texture: canvas.TextureId(texture), Sprite: canvas.SpriteId(sprite), Bounds: r}
		})
	case canvas.DrawCreateDynamicTexture:
		return parseCreateDynamicTexture(field)
	case canvas.DrawTextureFillTransparency:
		id, n, ok := readCompactID(field)
		if !ok {
			return invalidOrWait(n)
		}
		if len(field) < n+1 {
			return nil, false, nil
		}
		v, _ := digitValue(field[n])
		return canvas.TextureFillTransparencyOp{Texture: canvas.TextureId(id), Transparent: v != 0}, true, nil
	case canvas.DrawCopyTexture:
		return parseTwoIDs(field, func(src, dst uint64) canvas.Draw {
			return canvas.CopyTextureOp{Src: canvas.TextureId(src), Dst: canvas.TextureId(dst)}
		})
	case canvas.DrawFilterTexture:
		return parseFilterTexture(field)

	case canvas.DrawCreateGradient:
		return parseOneID(field, func(id uint64) canvas.Draw { return canvas.CreateGradient{Id: canvas.GradientId(id)} })
	case canvas.DrawGradientAddStop:
		return parseGradientAddStop(field)

	case canvas.DrawUseFontDefinition:
		return parseIDThenBytes(field, func(id uint64, data []byte) canvas.Draw {
			return canvas.UseFontDefinitionOp{Id: canvas.FontId(id), Data: data}
		})
	case canvas.DrawFontSize:
		id, n, ok := readCompactID(field)
		if !ok {
			return invalidOrWait(n)
		}
		if len(field) < n+6 {
			return nil, false, nil
		}
		v, _ := readF32(field[n : n+6])
		return canvas.FontSizeOp{Id: canvas.FontId(id), Size: float64(v)}, true, nil
	case canvas.DrawDrawGlyphs:
		return parseIDThenBytes(field, func(id uint64, data []byte) canvas.Draw {
			return canvas.DrawGlyphsOp{Font: canvas.FontId(id), Payload: data}
		})
	case canvas.DrawLayoutText:
		return parseIDThenBytes(field, func(id uint64, data []byte) canvas.Draw {
			return canvas.LayoutTextOp{Font: canvas.FontId(id), Payload: data}
		})
	}
	return nil, false, ErrInvalidCharacter
}

// --- shared field parsers ---

func invalidOrWait(n int) (canvas.Draw, bool, error) {
	if n == -2 {
		return nil, false, ErrBadNumber
	}
	return nil, false, nil
}

func need(field []byte, n int, build func([]byte) canvas.Draw) (canvas.Draw, bool, error) {
	if len(field) < n {
		return nil, false, nil
	}
	return build(field[:n]), true, nil
}

func wrap(field []byte, n int, err error, build func() canvas.Draw) (canvas.Draw, bool, error) {
	if err == ErrMissingCharacter {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	_ = n
	return build(), true, nil
}

func readF32s(buf []byte, count int) []float64 {
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		v, _ := readF32(buf[i*6 : i*6+6])
		out[i] = float64(v)
	}
	return out
}

func parseOneID(field []byte, build func(uint64) canvas.Draw) (canvas.Draw, bool, error) {
	id, n, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n)
	}
	_ = n
	return build(id), true, nil
}

func parseTwoIDs(field []byte, build func(a, b uint64) canvas.Draw) (canvas.Draw, bool, error) {
	a, n1, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n1)
	}
	b, n2, ok := readCompactID(field[n1:])
	if !ok {
		return invalidOrWait(n2)
	}
	return build(a, b), true, nil
}

func parseThreeIDs(field []byte, build func(a, b, c uint64) canvas.Draw) (canvas.Draw, bool, error) {
	a, n1, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n1)
	}
	b, n2, ok := readCompactID(field[n1:])
	if !ok {
		return invalidOrWait(n2)
	}
	c, n3, ok := readCompactID(field[n1+n2:])
	if !ok {
		return invalidOrWait(n3)
	}
	return build(a, b, c), true, nil
}

func parseIDThenMatrix(field []byte, build func(id uint64, m canvas.Matrix) canvas.Draw) (canvas.Draw, bool, error) {
	id, n, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n)
	}
	m, mn, err := readMatrix(field[n:])
	return wrap(field, mn, err, func() canvas.Draw { return build(id, m) })
}

func parseIDThenBytes(field []byte, build func(id uint64, data []byte) canvas.Draw) (canvas.Draw, bool, error) {
	id, n, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n)
	}
	data, dn, err := readBytes(field[n:])
	if err != nil {
		return nil, false, err
	}
	if dn == 0 && data == nil {
		return nil, false, nil
	}
	return build(id, data), true, nil
}

func parseTwoIDsThenRect(field []byte, build func(a, b uint64, r canvas.Rect) canvas.Draw) (canvas.Draw, bool, error) {
	a, n1, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n1)
	}
	b, n2, ok := readCompactID(field[n1:])
	if !ok {
		return invalidOrWait(n2)
	}
	r, rn, err := readRect(field[n1+n2:])
	return wrap(field, rn, err, func() canvas.Draw { return build(a, b, r) })
}

func parseSetTextureBytes(field []byte) (canvas.Draw, bool, error) {
	offs := make([]int, 5)
	vals := make([]uint64, 5)
	pos := 0
	for i := 0; i < 5; i++ {
		v, n, ok := readCompactID(field[pos:])
		if !ok {
			return invalidOrWait(n)
		}
		vals[i], offs[i] = v, n
		pos += n
	}
	data, dn, err := readBytes(field[pos:])
	if err != nil {
		return nil, false, err
	}
	if dn == 0 && data == nil {
		return nil, false, nil
	}
	return canvas.SetTextureBytes{
		Id: canvas.TextureId(vals[0]), X: int(vals[1]), Y: int(vals[2]), W: int(vals[3]), H: int(vals[4]),
		Bytes: data,
	}, true, nil
}

func parseCreateDynamicTexture(field []byte) (canvas.Draw, bool, error) {
	texture, n1, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n1)
	}
	sprite, n2, ok := readCompactID(field[n1:])
	if !ok {
		return invalidOrWait(n2)
	}
	r, rn, err := readRect(field[n1+n2:])
	if err != nil {
		return wrap(field, rn, err, nil)
	}
	rest := field[n1+n2+rn:]
	if len(rest) < 12 {
		return nil, false, nil
	}
	w, _ := readF32(rest[0:6])
	h, _ := readF32(rest[6:12])
	op := canvas.CreateDynamicTexture{Texture: canvas.TextureId(texture), Sprite: canvas.SpriteId(sprite), Bounds: r}
	op.CanvasSize.W, op.CanvasSize.H = float64(w), float64(h)
	return op, true, nil
}

func parseFilterTexture(field []byte) (canvas.Draw, bool, error) {
	id, n, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n)
	}
	if len(field) < n+1 {
		return nil, false, nil
	}
	filter, _ := digitValue(field[n])
	count, cn, ok := readCompactID(field[n+1:])
	if !ok {
		return invalidOrWait(cn)
	}
	total := n + 1 + cn + int(count)*6
	if len(field) < total {
		return nil, false, nil
	}
	params := readF32s(field[n+1+cn:total], int(count))
	return canvas.FilterTextureOp{Texture: canvas.TextureId(id), Filter: canvas.FilterKind(filter), Params: params}, true, nil
}

func parseGradientAddStop(field []byte) (canvas.Draw, bool, error) {
	id, n, ok := readCompactID(field)
	if !ok {
		return invalidOrWait(n)
	}
	if len(field) < n+6 {
		return nil, false, nil
	}
	offset, _ := readF32(field[n : n+6])
	c, cn, err := readColor(field[n+6:])
	return wrap(field, cn, err, func() canvas.Draw {
		return canvas.GradientAddStop{Id: canvas.GradientId(id), Offset: float64(offset), Color: c}
	})
}

// readBytes decodes a length-prefixed base64 byte blob (§4.2 "Byte
// blobs"). err is ErrBadNumber if the length prefix is malformed; a
// nil data/err pair with n == 0 means more input is needed.
func readBytes(field []byte) (data []byte, n int, err error) {
	count, lenBytes, ok := readCompactID(field)
	if !ok {
		if lenBytes == -2 {
			return nil, 0, ErrBadNumber
		}
		return nil, 0, nil
	}
	n = int(count)
	encLen := base64Len(n)
	total := lenBytes + encLen
	if len(field) < total {
		return nil, 0, nil
	}
	out := make([]byte, 0, n)
	enc := field[lenBytes:total]
	for i := 0; i < len(enc); i += 4 {
		d0, _ := digitValue(enc[i])
		d1, _ := digitValue(enc[i+1])
		d2, _ := digitValue(enc[i+2])
		d3, _ := digitValue(enc[i+3])
		out = append(out, byte(d0<<2|d1>>4), byte(d1<<4|d2>>2), byte(d2<<6|d3))
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, total, nil
}
