//go:build !nogpu

// Package gpu registers the WebGPU compute accelerator.
//
// Importing it makes canvases created with pixkernel.WithAccelerator(true)
// evaluate passes on the GPU:
//
//	import _ "github.com/gogpu/pixkernel/gpu"
//
// If no device is available, every pass falls back to the CPU renderer.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pixkernel"
	gpuimpl "github.com/gogpu/pixkernel/internal/gpu"
)

func init() {
	if err := pixkernel.RegisterAccelerator(&gpuimpl.ComputeAccelerator{}); err != nil {
		pixkernel.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider makes the accelerator use a GPU device owned by an
// existing gogpu application instead of opening its own. The provider
// must also expose HalDevice() and HalQueue().
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return pixkernel.SetAcceleratorDeviceProvider(provider)
}

// Available reports whether the registered accelerator has a usable device.
func Available() bool {
	a, ok := pixkernel.CurrentAccelerator().(interface{ Ready() bool })
	return ok && a.Ready()
}
