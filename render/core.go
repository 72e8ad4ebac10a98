package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/canvas"
)

// LayerHandle is a stable integer identifying a slot in the layer
// slab. Layer definitions and sprite definitions share a single slab
// (§9 "Arena/index storage"); sprites are found through Core's
// SpriteId index rather than the ordered composite list.
type LayerHandle int

// layerDef is one slab slot: a render entity list, a per-layer saved
// state stack, and the bookkeeping the composite order and sprite
// index need.
type layerDef struct {
	entities   []Entity
	stateStack []savedState
	blendMode  canvas.BlendMode
	alpha      float64
	bounds     canvas.Rect
	boundsSet  bool
	isSprite   bool
	spriteID   canvas.SpriteId
	inUse      bool
}

// savedState is what PushState/PopState moves onto and off of a
// layer's stack. The stack is per-layer, never shared across layers
// (§9 "Deeply nested state").
type savedState struct {
	blendMode canvas.BlendMode
	alpha     float64
}

// Core is the render core (component F). It owns the ordered layer
// list, the layer/sprite slab, and the refcounted texture and gradient
// tables; see texture.go and dynamic_texture.go. Core is safe for
// concurrent use: every exported method takes the exclusive owner
// mutex, matching the stream engine's single-mutator model (§5).
type Core struct {
	mu sync.Mutex

	device         DeviceHandle
	maxSpriteDepth int

	order       []LayerHandle // composite order, layers only
	slab        []*layerDef
	freeList    []LayerHandle
	spriteIndex map[canvas.SpriteId]LayerHandle

	textures        map[canvas.TextureId]*TextureState
	namedTextures   map[canvas.TextureId]canvas.TextureId
	gradients       map[canvas.GradientId]*GradientState
	dynamicTextures map[canvas.TextureId]*DynamicTexture

	pendingRequests         []TextureRequest
	pendingGradientRequests []GradientRequest

	nextJobID     uint64
	freeVertexIDs []uint32
	nextVertexID  uint32
	freeIndexIDs  []uint32
	nextIndexID   uint32

	frameDepth int
}

// NewCore creates an empty render core with a single default layer at
// handle 0, matching the canvas lifecycle's single default layer
// (§3 "Lifecycle").
func NewCore(opts ...CoreOption) *Core {
	o := defaultCoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Core{
		device:          o.device,
		maxSpriteDepth:  o.maxSpriteDepth,
		spriteIndex:     make(map[canvas.SpriteId]LayerHandle),
		textures:        make(map[canvas.TextureId]*TextureState),
		namedTextures:   make(map[canvas.TextureId]canvas.TextureId),
		gradients:       make(map[canvas.GradientId]*GradientState),
		dynamicTextures: make(map[canvas.TextureId]*DynamicTexture),
	}
	c.AddLayer()
	return c
}

// MaxSpriteDepth returns the configured cyclic-sprite expansion limit
// (§9 open question 4); canvas/renderstream consults this while
// walking DrawSprite references.
func (c *Core) MaxSpriteDepth() int {
	return c.maxSpriteDepth
}

// Device returns the injected GPU device handle, or nil if none was
// provided.
func (c *Core) Device() DeviceHandle {
	return c.device
}

// AddLayer allocates a new non-sprite layer and appends it to the
// composite order.
func (c *Core) AddLayer() LayerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.alloc()
	c.order = append(c.order, h)
	return h
}

// alloc reuses a free slab slot or grows the slab. Caller holds mu.
func (c *Core) alloc() LayerHandle {
	if n := len(c.freeList); n > 0 {
		h := c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		c.slab[h] = &layerDef{inUse: true, alpha: 1}
		return h
	}
	h := LayerHandle(len(c.slab))
	c.slab = append(c.slab, &layerDef{inUse: true, alpha: 1})
	return h
}

// EnsureSprite returns the layer handle backing id, creating a
// sprite-flagged layer on first use. A sprite layer is never part of
// the composite order (§4.5: "sprites are layers marked with an
// is_sprite flag"); the flag is permanent for the life of the handle
// (invariant iii).
func (c *Core) EnsureSprite(id canvas.SpriteId) LayerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.spriteIndex[id]; ok {
		return h
	}
	h := c.alloc()
	c.slab[h].isSprite = true
	c.slab[h].spriteID = id
	c.spriteIndex[id] = h
	return h
}

// SpriteHandle looks up an existing sprite's handle without creating
// one.
func (c *Core) SpriteHandle(id canvas.SpriteId) (LayerHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.spriteIndex[id]
	return h, ok
}

// FreeLayer releases h back to the free list. Panics if h is not
// currently in use: a double-free is a programmer error, not producer
// input (§7 propagation policy only covers producer input).
func (c *Core) FreeLayer(h LayerHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freeLayerLocked(h)
}

func (c *Core) freeLayerLocked(h LayerHandle) {
	if int(h) >= len(c.slab) || !c.slab[h].inUse {
		panic(fmt.Sprintf("render: double free of layer handle %d", h))
	}
	def := c.slab[h]
	if def.isSprite {
		delete(c.spriteIndex, def.spriteID)
	} else {
		for i, oh := range c.order {
			if oh == h {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.slab[h] = nil
	c.freeList = append(c.freeList, h)
}

// Order returns a copy of the current composite-order layer list,
// bottom to top.
func (c *Core) Order() []LayerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LayerHandle, len(c.order))
	copy(out, c.order)
	return out
}

// SwapLayers exchanges the composite position of two non-sprite
// layers.
func (c *Core) SwapLayers(a, b LayerHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ia, ib := -1, -1
	for i, h := range c.order {
		if h == a {
			ia = i
		}
		if h == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return // reference error: one of them is a sprite or unknown; skip (§7)
	}
	c.order[ia], c.order[ib] = c.order[ib], c.order[ia]
}

// Entities returns a copy of h's current render entity list.
func (c *Core) Entities(h LayerHandle) []Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return nil
	}
	out := make([]Entity, len(c.slab[h].entities))
	copy(out, c.slab[h].entities)
	return out
}

// Append adds a finished (non-placeholder) entity to h's entity list,
// e.g. a synthetic state-tracking entity that never goes through the
// Reserve/Resolve placeholder protocol.
func (c *Core) Append(h LayerHandle, e Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return
	}
	c.slab[h].entities = append(c.slab[h].entities, e)
	c.slab[h].boundsSet = false
}

// ClearEntities truncates h's entity list, used when ClearLayer or
// ClearSprite reaches the render core. Returns the job ids of any
// in-flight Tessellating placeholders that were discarded, so callers
// can track them for diagnostics; results that resolve after this call
// are silently discarded by Resolve.
func (c *Core) ClearEntities(h LayerHandle) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return nil
	}
	def := c.slab[h]
	var discarded []uint64
	for _, e := range def.entities {
		if e.Kind == EntityTessellating {
			discarded = append(discarded, e.JobID)
		}
	}
	def.entities = nil
	def.boundsSet = false
	return discarded
}

// Reserve appends a Tessellating placeholder to h's entity list and
// returns the slot index plus a freshly minted job id, the entity slot
// protocol of §4.4.
func (c *Core) Reserve(h LayerHandle) (slot int, jobID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextJobID++
	jobID = c.nextJobID
	def := c.slab[h]
	slot = len(def.entities)
	def.entities = append(def.entities, Entity{Kind: EntityTessellating, JobID: jobID})
	return slot, jobID
}

// Resolve overwrites the placeholder at (h, slot) with result if, and
// only if, the slot still holds the matching jobID. Otherwise the
// result is discarded: the layer was cleared, or the slot was
// overwritten, since the job was dispatched (§4.4 "Entity slot
// protocol").
func (c *Core) Resolve(h LayerHandle, slot int, jobID uint64, result Entity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return false
	}
	def := c.slab[h]
	if slot < 0 || slot >= len(def.entities) {
		return false
	}
	cur := def.entities[slot]
	if cur.Kind != EntityTessellating || cur.JobID != jobID {
		return false
	}
	def.entities[slot] = result
	def.boundsSet = false
	return true
}

// SetLayerBlend sets the blend mode used when compositing h.
func (c *Core) SetLayerBlend(h LayerHandle, mode canvas.BlendMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) < len(c.slab) && c.slab[h] != nil {
		c.slab[h].blendMode = mode
	}
}

// SetLayerAlpha sets the opacity used when compositing h.
func (c *Core) SetLayerAlpha(h LayerHandle, alpha float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) < len(c.slab) && c.slab[h] != nil {
		c.slab[h].alpha = alpha
	}
}

// LayerBlend returns h's current blend mode and alpha.
func (c *Core) LayerBlend(h LayerHandle) (canvas.BlendMode, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return canvas.BlendSourceOver, 1
	}
	return c.slab[h].blendMode, c.slab[h].alpha
}

// PushState pushes h's current blend mode and alpha onto its state
// stack (§9 "Deeply nested state": the stack is per-layer).
func (c *Core) PushState(h LayerHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return
	}
	def := c.slab[h]
	def.stateStack = append(def.stateStack, savedState{blendMode: def.blendMode, alpha: def.alpha})
}

// PopState restores h's most recently pushed state. A pop with an
// empty stack is a no-op (§7: no panics on producer input, and an
// unbalanced PopState is a malformed-but-passed-through instruction).
func (c *Core) PopState(h LayerHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(h) >= len(c.slab) || c.slab[h] == nil {
		return
	}
	def := c.slab[h]
	n := len(def.stateStack)
	if n == 0 {
		return
	}
	s := def.stateStack[n-1]
	def.stateStack = def.stateStack[:n-1]
	def.blendMode = s.blendMode
	def.alpha = s.alpha
}

// AllocVertexBufferID returns a fresh or recycled vertex buffer id.
func (c *Core) AllocVertexBufferID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return allocID(&c.freeVertexIDs, &c.nextVertexID)
}

// FreeVertexBufferID returns id to the free list.
func (c *Core) FreeVertexBufferID(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freeVertexIDs = append(c.freeVertexIDs, id)
}

// AllocIndexBufferID returns a fresh or recycled index buffer id.
func (c *Core) AllocIndexBufferID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return allocID(&c.freeIndexIDs, &c.nextIndexID)
}

// FreeIndexBufferID returns id to the free list.
func (c *Core) FreeIndexBufferID(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freeIndexIDs = append(c.freeIndexIDs, id)
}

// EnterFrame increments the frame-depth counter, as StartFrame does
// (§5 "Frame pacing / backpressure").
func (c *Core) EnterFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameDepth++
}

// ExitFrame decrements the frame-depth counter, as ShowFrame does.
func (c *Core) ExitFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frameDepth > 0 {
		c.frameDepth--
	}
}

// ResetFrameDepth zeroes the frame-depth counter, as ResetFrame does.
func (c *Core) ResetFrameDepth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameDepth = 0
}

// FrameDepth reports the current frame-depth counter. While it is
// non-zero, canvas/renderstream emits only setup and vertex-buffer
// actions, never draw-to-screen actions (§5).
func (c *Core) FrameDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameDepth
}

func allocID(free *[]uint32, next *uint32) uint32 {
	if n := len(*free); n > 0 {
		id := (*free)[n-1]
		*free = (*free)[:n-1]
		return id
	}
	id := *next
	*next++
	return id
}
