package canvas

import (
	"fmt"
	"sync"
)

// GPUAccelerator is an optional hardware-assisted backend that
// canvas/tessellate consults before falling back to its CPU worker pool.
// The accelerator is supplied by the host application; this package never
// constructs one itself (§1 exclusions: the GPU backend is an external
// collaborator).
type GPUAccelerator interface {
	// Name identifies the accelerator in logs and diagnostics.
	Name() string
	// Init prepares any backend resources the accelerator needs.
	Init() error
	// Close releases backend resources.
	Close()
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator installs a as the active accelerator. It calls
// a.Init and, if a also implements loggerSetter, propagates the current
// logger so the accelerator's diagnostics share configuration with the
// rest of canvas.
func RegisterAccelerator(a GPUAccelerator) error {
	if err := a.Init(); err != nil {
		return fmt.Errorf("canvas: accelerator init: %w", err)
	}
	accelMu.Lock()
	accel = a
	accelMu.Unlock()
	propagateLogger(a, Logger())
	return nil
}

// Accelerator returns the currently registered accelerator, or nil if
// none has been registered.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	defer accelMu.RUnlock()
	return accel
}

// resetAccelerator clears the registered accelerator, closing it first.
// Shared by this package's tests to restore a clean slate between cases.
func resetAccelerator() {
	accelMu.Lock()
	a := accel
	accel = nil
	accelMu.Unlock()
	if a != nil {
		a.Close()
	}
}
