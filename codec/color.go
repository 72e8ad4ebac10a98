package codec

import "github.com/gogpu/canvas"

// colorTypeRGBA is the wire's only colour type tag today (§4.2 "Colours
// carry a single leading type character (R = RGBA)"). A future type
// would get its own tag byte and a case in decodeColor.
const colorTypeRGBA = 'R'

func appendColor(dst []byte, c canvas.RGBA) []byte {
	dst = append(dst, colorTypeRGBA)
	dst = appendF32(dst, float32(c.R))
	dst = appendF32(dst, float32(c.G))
	dst = appendF32(dst, float32(c.B))
	dst = appendF32(dst, float32(c.A))
	return dst
}

// colorLen is the fixed wire length of an RGBA colour: one type byte
// plus four f32 fields.
const colorLen = 1 + 4*6

func readColor(buf []byte) (canvas.RGBA, int, error) {
	if len(buf) < 1 {
		return canvas.RGBA{}, 0, ErrMissingCharacter
	}
	if buf[0] != colorTypeRGBA {
		return canvas.RGBA{}, 0, ErrUnknownColorType
	}
	if len(buf) < colorLen {
		return canvas.RGBA{}, 0, ErrMissingCharacter
	}
	r, ok1 := readF32(buf[1:7])
	g, ok2 := readF32(buf[7:13])
	b, ok3 := readF32(buf[13:19])
	a, ok4 := readF32(buf[19:25])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return canvas.RGBA{}, 0, ErrBadNumber
	}
	return canvas.RGBA{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}, colorLen, nil
}

const rectLen = 4 * 6

func readRect(buf []byte) (canvas.Rect, int, error) {
	if len(buf) < rectLen {
		return canvas.Rect{}, 0, ErrMissingCharacter
	}
	minX, ok1 := readF32(buf[0:6])
	minY, ok2 := readF32(buf[6:12])
	maxX, ok3 := readF32(buf[12:18])
	maxY, ok4 := readF32(buf[18:24])
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return canvas.Rect{}, 0, ErrBadNumber
	}
	return canvas.Rect{
		Min: canvas.Point{X: float64(minX), Y: float64(minY)},
		Max: canvas.Point{X: float64(maxX), Y: float64(maxY)},
	}, rectLen, nil
}

func appendMatrix(dst []byte, m canvas.Matrix) []byte {
	dst = appendF32(dst, float32(m.A))
	dst = appendF32(dst, float32(m.B))
	dst = appendF32(dst, float32(m.C))
	dst = appendF32(dst, float32(m.D))
	dst = appendF32(dst, float32(m.E))
	dst = appendF32(dst, float32(m.F))
	return dst
}

const matrixLen = 6 * 6

func readMatrix(buf []byte) (canvas.Matrix, int, error) {
	if len(buf) < matrixLen {
		return canvas.Matrix{}, 0, ErrMissingCharacter
	}
	vals := make([]float32, 6)
	for i := 0; i < 6; i++ {
		v, ok := readF32(buf[i*6 : i*6+6])
		if !ok {
			return canvas.Matrix{}, 0, ErrBadNumber
		}
		vals[i] = v
	}
	return canvas.Matrix{
		A: float64(vals[0]), B: float64(vals[1]), C: float64(vals[2]),
		D: float64(vals[3]), E: float64(vals[4]), F: float64(vals[5]),
	}, matrixLen, nil
}
