package render

import (
	"testing"

	"github.com/gogpu/canvas"
)

func canvasWhite() canvas.RGBA { return canvas.RGBA{R: 1, G: 1, B: 1, A: 1} }

func TestCreateTextureQueuesACreateRequest(t *testing.T) {
	c := NewCore()
	c.CreateTexture(1, 64, 32)
	reqs := c.DrainTextureRequests()
	if len(reqs) != 1 || reqs[0].Kind != TextureRequestCreate {
		t.Fatalf("expected a single Create request, got %v", reqs)
	}
	if reqs[0].W != 64 || reqs[0].H != 32 {
		t.Errorf("expected W=64 H=32, got W=%d H=%d", reqs[0].W, reqs[0].H)
	}
}

func TestDrainTextureRequestsEmptiesTheQueue(t *testing.T) {
	c := NewCore()
	c.CreateTexture(1, 1, 1)
	c.DrainTextureRequests()
	if reqs := c.DrainTextureRequests(); len(reqs) != 0 {
		t.Errorf("expected the queue to be empty after draining, got %d", len(reqs))
	}
}

func TestReleaseTextureDropsStateOnceRefCountReachesZero(t *testing.T) {
	c := NewCore()
	c.CreateTexture(1, 1, 1)
	c.RetainTexture(1)
	c.ReleaseTexture(1)
	if _, ok := c.textures[1]; ok {
		t.Error("expected the texture's state to be dropped once its ref count reached zero")
	}
}

func TestReleaseTextureKeepsStateWhileRefCountIsPositive(t *testing.T) {
	c := NewCore()
	c.CreateTexture(1, 1, 1)
	c.RetainTexture(1)
	c.RetainTexture(1)
	c.ReleaseTexture(1)
	if _, ok := c.textures[1]; !ok {
		t.Error("expected the texture's state to survive while the ref count is still positive")
	}
}

func TestGradientAddStopOnUnknownIDIsSilentlySkipped(t *testing.T) {
	c := NewCore()
	c.GradientAddStop(99, 0.5, canvasWhite())
	if _, ok := c.gradients[99]; ok {
		t.Error("expected adding a stop to an undeclared gradient to not create one")
	}
}

func TestCreateGradientThenAddStopAccumulates(t *testing.T) {
	c := NewCore()
	c.CreateGradient(1)
	c.GradientAddStop(1, 0, canvasWhite())
	c.GradientAddStop(1, 1, canvasWhite())
	if len(c.gradients[1].Stops) != 2 {
		t.Errorf("expected 2 accumulated stops, got %d", len(c.gradients[1].Stops))
	}
}

func TestReleaseGradientDropsStateAtZero(t *testing.T) {
	c := NewCore()
	c.CreateGradient(1)
	c.RetainGradient(1)
	c.ReleaseGradient(1)
	if _, ok := c.gradients[1]; ok {
		t.Error("expected the gradient's state to be dropped once its ref count reached zero")
	}
}

func TestCreateGradientQueuesA1DTextureCreateRequest(t *testing.T) {
	c := NewCore()
	c.CreateGradient(1)
	reqs := c.DrainGradientRequests()
	if len(reqs) != 1 || reqs[0].Kind != GradientRequestCreate {
		t.Fatalf("expected a single Create request, got %v", reqs)
	}
	if len(reqs[0].Bytes) != GradientTextureWidth*4 {
		t.Errorf("expected a %d-byte strip, got %d", GradientTextureWidth*4, len(reqs[0].Bytes))
	}
}

func TestGradientAddStopQueuesAnUpdateRequestEachTime(t *testing.T) {
	c := NewCore()
	c.CreateGradient(1)
	c.GradientAddStop(1, 0, canvasWhite())
	c.GradientAddStop(1, 1, canvas.RGBA{R: 0, G: 0, B: 0, A: 1})
	reqs := c.DrainGradientRequests()
	if len(reqs) != 3 {
		t.Fatalf("expected create + two updates, got %d requests", len(reqs))
	}
	if reqs[1].Kind != GradientRequestUpdate || reqs[2].Kind != GradientRequestUpdate {
		t.Errorf("expected the add-stop requests to be updates, got %v", reqs[1:])
	}
}

func TestBakeGradientStripInterpolatesBetweenStops(t *testing.T) {
	stops := []canvas.ColorStop{
		{Offset: 0, Color: canvas.RGBA{R: 0, G: 0, B: 0, A: 1}},
		{Offset: 1, Color: canvas.RGBA{R: 1, G: 1, B: 1, A: 1}},
	}
	strip := bakeGradientStrip(stops, GradientTextureWidth)
	if strip[0] != 0 || strip[1] != 0 || strip[2] != 0 {
		t.Errorf("expected the first texel to be black, got %v", strip[:4])
	}
	last := (GradientTextureWidth - 1) * 4
	if strip[last] != 255 || strip[last+1] != 255 || strip[last+2] != 255 {
		t.Errorf("expected the last texel to be white, got %v", strip[last:last+4])
	}
}

func TestBakeGradientStripWithNoStopsIsFullyTransparent(t *testing.T) {
	strip := bakeGradientStrip(nil, GradientTextureWidth)
	for i, b := range strip {
		if b != 0 {
			t.Fatalf("expected an all-zero strip for a gradient with no stops, byte %d was %d", i, b)
		}
	}
}
