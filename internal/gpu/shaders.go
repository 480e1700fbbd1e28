//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/kernel.wgsl
var kernelShaderSource string

// workgroupSize matches @workgroup_size in kernel.wgsl.
const workgroupSize = 64

// compileKernel compiles the kernel shader to SPIR-V words.
func compileKernel() ([]uint32, error) {
	spirv, err := naga.Compile(kernelShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile kernel shader: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("compile kernel shader: SPIR-V size %d is not a multiple of 4", len(spirv))
	}

	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}
