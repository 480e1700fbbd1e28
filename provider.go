package pixkernel

import (
	"fmt"

	"github.com/gogpu/pixkernel/internal/kernel"
)

// DataProvider supplies the inputs of one render pass.
//
// Implementations must return data that stays unchanged for the whole pass.
// Renderers do not retain either value after Render returns.
type DataProvider interface {
	// Background returns the color every pixel starts from.
	Background() RGB

	// ShapeData returns the encoded records followed by the sentinel.
	ShapeData() []float32
}

// Frame is an immutable DataProvider.
type Frame struct {
	background RGB
	shapes     []float32
}

var _ DataProvider = (*Frame)(nil)

// NewFrame copies shapes into a new frame and terminates the copy with a
// sentinel. Empty input yields a sentinel-only frame. The records are not
// checked here; renderers reject a malformed frame with ErrMalformedBuffer.
func NewFrame(background RGB, shapes []float32) *Frame {
	data := make([]float32, len(shapes)+1)
	copy(data, shapes)
	data[len(shapes)] = Sentinel
	return &Frame{background: background, shapes: data}
}

// Background implements DataProvider.
func (f *Frame) Background() RGB { return f.background }

// ShapeData implements DataProvider. The slice must not be modified.
func (f *Frame) ShapeData() []float32 { return f.shapes }

// Primitives decodes the frame's records.
func (f *Frame) Primitives() ([]Primitive, error) {
	return kernel.Decode(f.shapes)
}

// passData returns the shape data of p, substituting a sentinel-only
// buffer for an empty one. The framing is checked once here so the
// per-pixel loop can trust it; a bad buffer yields ErrMalformedBuffer.
func passData(p DataProvider) (shapes []float32, bg [3]float32, err error) {
	shapes = p.ShapeData()
	if len(shapes) == 0 {
		shapes = []float32{Sentinel}
	}
	if _, err := kernel.Used(shapes); err != nil {
		return nil, bg, fmt.Errorf("pixkernel: shape data: %w", err)
	}
	return shapes, p.Background().array(), nil
}
