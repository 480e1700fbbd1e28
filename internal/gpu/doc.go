//go:build !nogpu

// Package gpu runs the pixel kernel as a WebGPU compute shader.
//
// ComputeAccelerator uploads the frozen shape data and a small uniform
// block, dispatches one invocation per pixel in workgroups of 64 and reads
// the samples back. Dispatches wider than the per-dimension workgroup limit
// are folded into a 2-D grid; the shader reconstructs the linear pixel
// index from the row stride.
//
// Device access goes through gogpu/wgpu's HAL. The kernel's WGSL source is
// compiled to SPIR-V with gogpu/naga when the pipeline is created.
package gpu
