package software

import (
	"testing"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/stream"
)

func runEntries(t *testing.T, r *Renderer, entries []stream.Entry) {
	t.Helper()
	for _, e := range entries {
		r.process(e)
	}
}

func TestFillSolidSquarePaintsInteriorPixels(t *testing.T) {
	r, err := New(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	layer := canvas.LayerTarget(canvas.LayerId(0))
	runEntries(t, r, []stream.Entry{
		{Target: layer, Draw: canvas.NewPathOp{}},
		{Target: layer, Draw: canvas.MoveOp{X: 10, Y: 10}},
		{Target: layer, Draw: canvas.LineOp{X: 50, Y: 10}},
		{Target: layer, Draw: canvas.LineOp{X: 50, Y: 50}},
		{Target: layer, Draw: canvas.LineOp{X: 10, Y: 50}},
		{Target: layer, Draw: canvas.ClosePathOp{}},
		{Target: layer, Draw: canvas.SetFillColor{Color: canvas.RGBA{R: 1, A: 1}}},
		{Target: layer, Draw: canvas.Fill{}},
	})

	r2, g, b, a := r.Image().GetRGBA(30, 30)
	if a == 0 {
		t.Fatal("expected a painted pixel inside the square to be opaque")
	}
	if r2 == 0 {
		t.Errorf("expected red channel to be painted, got r=%d g=%d b=%d a=%d", r2, g, b, a)
	}
}

func TestFillOutsidePathLeavesPixelTransparent(t *testing.T) {
	r, err := New(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	layer := canvas.LayerTarget(canvas.LayerId(0))
	runEntries(t, r, []stream.Entry{
		{Target: layer, Draw: canvas.NewPathOp{}},
		{Target: layer, Draw: canvas.MoveOp{X: 10, Y: 10}},
		{Target: layer, Draw: canvas.LineOp{X: 20, Y: 10}},
		{Target: layer, Draw: canvas.LineOp{X: 20, Y: 20}},
		{Target: layer, Draw: canvas.LineOp{X: 10, Y: 20}},
		{Target: layer, Draw: canvas.ClosePathOp{}},
		{Target: layer, Draw: canvas.SetFillColor{Color: canvas.RGBA{R: 1, A: 1}}},
		{Target: layer, Draw: canvas.Fill{}},
	})

	_, _, _, a := r.Image().GetRGBA(60, 60)
	if a != 0 {
		t.Errorf("expected pixel far outside the path to stay transparent, got a=%d", a)
	}
}

func TestClipWithEmptyPathMasksOutSubsequentFills(t *testing.T) {
	r, err := New(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	layer := canvas.LayerTarget(canvas.LayerId(0))
	runEntries(t, r, []stream.Entry{
		{Target: layer, Draw: canvas.ClipOp{}},
		{Target: layer, Draw: canvas.NewPathOp{}},
		{Target: layer, Draw: canvas.MoveOp{X: 0, Y: 0}},
		{Target: layer, Draw: canvas.LineOp{X: 64, Y: 0}},
		{Target: layer, Draw: canvas.LineOp{X: 64, Y: 64}},
		{Target: layer, Draw: canvas.LineOp{X: 0, Y: 64}},
		{Target: layer, Draw: canvas.ClosePathOp{}},
		{Target: layer, Draw: canvas.SetFillColor{Color: canvas.RGBA{R: 1, A: 1}}},
		{Target: layer, Draw: canvas.Fill{}},
	})

	_, _, _, a := r.Image().GetRGBA(30, 30)
	if a != 0 {
		t.Error("an empty-path Clip should mask out everything drawn after it")
	}
}

func TestClearCanvasResetsBufferToGivenColor(t *testing.T) {
	r, err := New(16, 16)
	if err != nil {
		t.Fatal(err)
	}
	frame := canvas.FrameTarget()
	r.process(stream.Entry{Target: frame, Draw: canvas.ClearCanvas{Color: canvas.RGBA{R: 1, G: 1, B: 1, A: 1}}})

	red, green, blue, a := r.Image().GetRGBA(5, 5)
	if red == 0 || green == 0 || blue == 0 || a == 0 {
		t.Errorf("expected ClearCanvas to paint white, got r=%d g=%d b=%d a=%d", red, green, blue, a)
	}
}

func TestDrawSpriteCompositesOntoMainBuffer(t *testing.T) {
	r, err := New(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	sprite := canvas.SpriteTarget(canvas.SpriteId(1))
	runEntries(t, r, []stream.Entry{
		{Target: sprite, Draw: canvas.NewPathOp{}},
		{Target: sprite, Draw: canvas.MoveOp{X: 0, Y: 0}},
		{Target: sprite, Draw: canvas.LineOp{X: 10, Y: 0}},
		{Target: sprite, Draw: canvas.LineOp{X: 10, Y: 10}},
		{Target: sprite, Draw: canvas.LineOp{X: 0, Y: 10}},
		{Target: sprite, Draw: canvas.ClosePathOp{}},
		{Target: sprite, Draw: canvas.SetFillColor{Color: canvas.RGBA{G: 1, A: 1}}},
		{Target: sprite, Draw: canvas.Fill{}},
	})

	layer := canvas.LayerTarget(canvas.LayerId(0))
	r.process(stream.Entry{Target: sprite, Draw: canvas.SpriteTransformOp{M: canvas.Identity()}})
	r.process(stream.Entry{Target: layer, Draw: canvas.DrawSpriteOp{Id: 1}})

	_, g, _, a := r.Image().GetRGBA(5, 5)
	if a == 0 || g == 0 {
		t.Errorf("expected the sprite's green fill to composite onto the main buffer, got g=%d a=%d", g, a)
	}
}
