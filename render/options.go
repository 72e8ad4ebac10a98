package render

import "github.com/gogpu/gpucontext"

// DeviceHandle is an alias for gpucontext.DeviceProvider: the render
// core receives a GPU device/queue/adapter, it never creates one
// (§1 exclusions).
type DeviceHandle = gpucontext.DeviceProvider

// CoreOption configures a Core during creation.
type CoreOption func(*coreOptions)

type coreOptions struct {
	device         DeviceHandle
	maxSpriteDepth int
}

func defaultCoreOptions() coreOptions {
	return coreOptions{
		maxSpriteDepth: 64,
	}
}

// WithDevice injects the GPU device the render core's textures and
// vertex buffers are described against. The core itself issues no GPU
// calls; the handle is forwarded to canvas/renderstream.
func WithDevice(d DeviceHandle) CoreOption {
	return func(o *coreOptions) {
		o.device = d
	}
}

// WithMaxSpriteDepth overrides the default cyclic-sprite expansion
// depth limit (§9 open question 4). Default is 64.
func WithMaxSpriteDepth(depth int) CoreOption {
	return func(o *coreOptions) {
		o.maxSpriteDepth = depth
	}
}
