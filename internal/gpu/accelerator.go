//go:build !nogpu

package gpu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pixkernel"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one dispatch.
const fenceTimeout = 5 * time.Second

// ComputeAccelerator evaluates render passes on the GPU.
//
// If no device can be opened, Init still succeeds and every Render
// returns pixkernel.ErrFallbackToCPU.
type ComputeAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // shared device, not destroyed on Close
}

var (
	_ pixkernel.Accelerator         = (*ComputeAccelerator)(nil)
	_ pixkernel.DeviceProviderAware = (*ComputeAccelerator)(nil)
)

// Name implements pixkernel.Accelerator.
func (a *ComputeAccelerator) Name() string { return "kernel-compute" }

// Init implements pixkernel.Accelerator.
func (a *ComputeAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu: init failed, using CPU fallback", "err", err)
		a.releaseLocked()
	}
	return nil
}

// Ready reports whether a device and pipeline are available.
func (a *ComputeAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// SetLogger implements the logger propagation hook of pixkernel.
func (a *ComputeAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Close implements pixkernel.Accelerator.
func (a *ComputeAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *ComputeAccelerator) releaseLocked() {
	a.destroyPipeline()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches to a device owned by provider, which must
// expose HalDevice() and HalQueue() returning hal.Device and hal.Queue.
func (a *ComputeAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()
	a.device = device
	a.queue = queue
	a.limits = gputypes.DefaultLimits()
	a.externalDevice = true

	if err := a.createPipeline(); err != nil {
		return fmt.Errorf("gpu: create pipeline on shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu: switched to shared device")
	return nil
}

// Render implements pixkernel.Accelerator.
func (a *ComputeAccelerator) Render(ctx context.Context, target pixkernel.RenderTarget) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return pixkernel.ErrFallbackToCPU
	}

	pixels := uint64(target.Width) * uint64(target.Height) //nolint:gosec // validated by the caller
	sampleBytes := pixels * 3 * 4
	if !fitsLimits(a.limits.MaxStorageBufferBindingSize, pixels, sampleBytes, len(target.Shapes)) {
		slogger().Debug("gpu: pass exceeds buffer limits", "pixels", pixels, "floats", len(target.Shapes))
		return pixkernel.ErrFallbackToCPU
	}
	return a.dispatch(target, uint32(pixels), sampleBytes)
}

func (a *ComputeAccelerator) dispatch(target pixkernel.RenderTarget, pixels uint32, sampleBytes uint64) error {
	groupsX, groupsY := foldGroups((pixels+workgroupSize-1)/workgroupSize, a.limits.MaxComputeWorkgroupsPerDimension)
	shapeBytes := packFloats(target.Shapes)
	params := kernelParams{
		Width:      uint32(target.Width),  //nolint:gosec // bounded by pixels
		Height:     uint32(target.Height), //nolint:gosec // bounded by pixels
		Length:     uint32(len(shapeBytes) / 4),
		RowStride:  groupsX * workgroupSize,
		Background: target.Background,
	}

	slogger().Debug("gpu: dispatch",
		"width", target.Width, "height", target.Height,
		"shape_bytes", len(shapeBytes), "groups_x", groupsX, "groups_y", groupsY)

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	shapesBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_shapes", Size: uint64(len(shapeBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create shapes buffer: %w", err)
	}
	defer a.device.DestroyBuffer(shapesBuf)

	samplesBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_samples", Size: sampleBytes,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create samples buffer: %w", err)
	}
	defer a.device.DestroyBuffer(samplesBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_staging", Size: sampleBytes,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramsBuf, 0, params.bytes())
	a.queue.WriteBuffer(shapesBuf, 0, shapeBytes)

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "kernel_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: shapesBuf.NativeHandle(), Offset: 0, Size: uint64(len(shapeBytes))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: samplesBuf.NativeHandle(), Offset: 0, Size: sampleBytes}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "kernel_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("kernel"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "kernel_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(groupsX, groupsY, 1)
	pass.End()
	encoder.CopyBufferToBuffer(samplesBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: sampleBytes},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("wait for GPU: timed out after %v", fenceTimeout)
	}

	readback := make([]byte, sampleBytes)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackSamples(readback, target.Pix)
	return nil
}

func (a *ComputeAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	a.limits = gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), a.limits)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu: accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *ComputeAccelerator) createPipeline() error {
	spirv, err := compileKernel()
	if err != nil {
		return err
	}
	a.shader, err = a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "kernel",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	a.bindLayout, err = a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kernel_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	a.pipeLayout, err = a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "kernel_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	a.pipeline, err = a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "kernel_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	return nil
}

func (a *ComputeAccelerator) destroyPipeline() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}
