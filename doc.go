// Package pixkernel rasterizes an ordered list of flat-colored primitives
// into a 16-bit RGB pixel buffer.
//
// # Overview
//
// Drawing calls on a Canvas append records to a ShapeBuffer: a flat
// []float32 of tagged, variable-length records terminated by -1. When the
// pass ends, every pixel is evaluated independently: the sample at the pixel
// center is tested against each record in order and blended with straight
// alpha, so later primitives draw over earlier ones.
//
// # Quick Start
//
//	c, err := pixkernel.NewCanvas(256, 256)
//	if err != nil {
//	    return err
//	}
//	c.Begin()
//	c.Background(pixkernel.RGB{R: 1})
//	c.Fill(pixkernel.RGBA{G: 1, A: 0.5})
//	c.Circle(128, 128, 64)
//	if err := c.End(ctx); err != nil {
//	    return err
//	}
//	err = c.Image().SavePNG("out.png")
//
// # Renderers
//
// The CPU renderer fans pixel ranges out over a worker pool. A GPU compute
// accelerator running the same kernel is available by blank import:
//
//	import _ "github.com/gogpu/pixkernel/gpu"
//
// Canvases created with WithAccelerator(true) try it first and fall back to
// the CPU when it reports ErrFallbackToCPU or fails.
//
// # Coordinate System
//
// Origin at top-left, X right, Y down. Pixel (x, y) is sampled at
// (x+0.5, y+0.5).
package pixkernel

// Version is the library version.
const Version = "0.3.0"
