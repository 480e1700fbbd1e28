package pixkernel

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
)

// RenderTarget is the input and output of one accelerated pass.
type RenderTarget struct {
	// Shapes is the encoded shape data, terminated by the sentinel.
	Shapes []float32

	// Background is the RGB every pixel starts from.
	Background [3]float32

	Width, Height int

	// Pix receives Width*Height*3 encoded samples in row-major order.
	Pix []int16
}

// Accelerator is an optional GPU implementation of the pixel kernel.
//
// Implementations live in GPU backend packages and register themselves on
// import:
//
//	import _ "github.com/gogpu/pixkernel/gpu"
type Accelerator interface {
	// Name returns the accelerator name.
	Name() string

	// Init acquires device resources. Called once during registration.
	// An accelerator that cannot reach a device may still succeed and
	// answer every Render with ErrFallbackToCPU.
	Init() error

	// Close releases device resources.
	Close()

	// Render evaluates every pixel of target. It returns ErrFallbackToCPU
	// when the pass cannot run on the device. target.Pix must not be
	// retained after Render returns.
	Render(ctx context.Context, target RenderTarget) error
}

// DeviceProviderAware is implemented by accelerators that can reuse an
// externally owned GPU device instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator installs a as the accelerator used by
// AcceleratedRenderer. Init is called first; if it fails, a is not
// registered. A previously registered accelerator is closed.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("pixkernel: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Debug("pixkernel: accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator removes and closes the registered accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// CurrentAccelerator returns the registered accelerator, or nil.
func CurrentAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider shares provider's device with the
// registered accelerator. It is a no-op when no accelerator is registered
// or the accelerator cannot share devices.
func SetAcceleratorDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return errors.New("pixkernel: nil device provider")
	}
	a := CurrentAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
