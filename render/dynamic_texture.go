package render

import "github.com/gogpu/canvas"

// DynamicTexture binds a render texture id to a sprite's content plus a
// canvas-coordinate bounding box and a target canvas size (§4.5 "Dynamic
// textures"). Each frame the render stream compares its recorded
// transform and modification counter against the sprite's current values
// and reissues a render-from-sprite request when they differ.
//
// Per the open-question decision in SPEC_FULL §14(3), two dynamic
// textures bound to the same sprite are tracked independently here: the
// sprite's modification counter itself is never partitioned per-texture,
// only each DynamicTexture's own last-seen copy of it.
type DynamicTexture struct {
	Sprite     canvas.SpriteId
	Bounds     canvas.Rect
	CanvasSize struct{ W, H float64 }

	lastTransform   canvas.Matrix
	lastModCount    uint64
	transformIsSet  bool
}

// CreateDynamicTexture registers texture as a dynamic binding to sprite,
// clipped to bounds and targeting a canvas of the given size. The first
// frame after creation always issues a render request, since no prior
// transform/counter pair exists to compare against.
func (c *Core) CreateDynamicTexture(texture canvas.TextureId, sprite canvas.SpriteId, bounds canvas.Rect, canvasW, canvasH float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureTexture(texture)
	dt := &DynamicTexture{Sprite: sprite, Bounds: bounds}
	dt.CanvasSize.W, dt.CanvasSize.H = canvasW, canvasH
	c.dynamicTextures[texture] = dt
}

// spriteModCount returns how many times sprite's backing layer's entity
// list has been mutated. Append, ClearEntities, and Resolve all bump a
// layer's generation implicitly via boundsSet invalidation; here we reuse
// the entity list length plus a coarse edit marker as the modification
// signal a dynamic texture compares against.
func (c *Core) spriteModCount(sprite canvas.SpriteId) uint64 {
	h, ok := c.spriteIndex[sprite]
	if !ok || int(h) >= len(c.slab) || c.slab[h] == nil {
		return 0
	}
	return uint64(len(c.slab[h].entities))
}

// DynamicTextureNeedsRender reports whether texture's sprite content has
// changed, or its viewport transform differs from the last render, since
// the last time this was checked — and if so, records the new values and
// queues a RenderFromSprite request.
func (c *Core) DynamicTextureNeedsRender(texture canvas.TextureId, currentTransform canvas.Matrix) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	dt, ok := c.dynamicTextures[texture]
	if !ok {
		return false
	}
	modCount := c.spriteModCount(dt.Sprite)
	stale := !dt.transformIsSet || modCount != dt.lastModCount || currentTransform != dt.lastTransform
	if !stale {
		return false
	}
	dt.lastTransform = currentTransform
	dt.lastModCount = modCount
	dt.transformIsSet = true
	c.pendingRequests = append(c.pendingRequests, TextureRequest{
		Kind:    TextureRequestRenderFromSprite,
		Texture: texture,
		Sprite:  dt.Sprite,
		Bounds:  dt.Bounds,
	})
	return true
}
