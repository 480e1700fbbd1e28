//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"
)

// paramsSize is the size of the Params uniform in kernel.wgsl:
// four u32 followed by a vec4<f32>.
const paramsSize = 32

// kernelParams mirrors the Params uniform.
type kernelParams struct {
	Width, Height uint32
	Length        uint32 // floats in the shape buffer
	RowStride     uint32 // invocations per grid row
	Background    [3]float32
}

func (p kernelParams) bytes() []byte {
	b := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(b[0:], p.Width)
	binary.LittleEndian.PutUint32(b[4:], p.Height)
	binary.LittleEndian.PutUint32(b[8:], p.Length)
	binary.LittleEndian.PutUint32(b[12:], p.RowStride)
	for i, c := range p.Background {
		binary.LittleEndian.PutUint32(b[16+4*i:], math.Float32bits(c))
	}
	binary.LittleEndian.PutUint32(b[28:], math.Float32bits(1))
	return b
}

// packFloats serializes shape data for upload. Storage bindings must not
// be empty, so an empty slice packs as a single sentinel.
func packFloats(data []float32) []byte {
	if len(data) == 0 {
		data = []float32{-1}
	}
	b := make([]byte, 4*len(data))
	for i, f := range data {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

// unpackSamples narrows the i32 samples written by the shader into dst.
func unpackSamples(src []byte, dst []int16) {
	for i := range dst {
		v := int32(binary.LittleEndian.Uint32(src[4*i:])) //nolint:gosec // two's complement reinterpretation
		dst[i] = int16(max(min(v, math.MaxInt16), math.MinInt16))
	}
}

// foldGroups splits a 1-D dispatch of n workgroups into an x*y grid with
// x no larger than limit. The grid may contain up to x-1 surplus groups;
// the shader discards invocations past the last pixel.
// shapeBufferSize is an upper bound on the size of the uploaded shape buffer for n floats,
// including the sentinel packFloats may append.
func shapeBufferSize(n int) uint64 {
	return 4*uint64(n) + 4 //nolint:gosec // n is a slice length
}

// fitsLimits reports whether a pass fits in storage bindings of at most
// maxBinding bytes and in a 32-bit invocation index.
func fitsLimits(maxBinding, pixels, sampleBytes uint64, floats int) bool {
	return pixels <= 1<<32-1 && sampleBytes <= maxBinding && shapeBufferSize(floats) <= maxBinding
}

func foldGroups(n, limit uint32) (x, y uint32) {
	if n == 0 {
		return 0, 0
	}
	if limit == 0 || n <= limit {
		return n, 1
	}
	y = (n + limit - 1) / limit
	x = (n + y - 1) / y
	return x, y
}
