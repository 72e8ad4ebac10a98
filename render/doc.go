// Package render is the render core (component F): it owns the ordered
// list of layer handles, a slab of layer definitions, refcounted
// textures and gradients, and the dynamic-texture re-render decision.
// It never tessellates a path itself (see canvas/tessellate) and never
// walks its own state to emit GPU actions (see canvas/renderstream); it
// is the shared mutable store those two packages read and write.
//
// A render entity inside a layer is either tessellated geometry, a
// synthetic shader-state change, a sprite reference, or a placeholder
// for a tessellation job still in flight. The entity slot protocol
// (Core.Reserve / Core.Resolve) lets the render core and the
// tessellator's worker pool agree on results arriving out of order
// without corrupting a layer that was cleared mid-flight.
package render
