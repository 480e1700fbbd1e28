package pixkernel

import (
	"context"
	"errors"

	"github.com/gogpu/pixkernel/internal/kernel"
	"github.com/gogpu/pixkernel/internal/parallel"
)

// Renderer evaluates one pass: every pixel of a width x height image
// against the provider's shape data.
type Renderer interface {
	// Render returns a fresh PixelBuffer. It reads the provider only for
	// the duration of the call. A canceled ctx abandons the pass and
	// returns ctx.Err() with no buffer.
	Render(ctx context.Context, p DataProvider, width, height int) (*PixelBuffer, error)
}

// CPURenderer runs the pixel kernel over a worker pool. Pixels are split
// into consecutive index ranges; each range writes only its own samples.
type CPURenderer struct {
	pool  *parallel.Pool
	chunk int
}

var _ Renderer = (*CPURenderer)(nil)

// NewCPURenderer starts a renderer. It honours WithWorkers and
// WithChunkSize. Call Close to stop its workers.
func NewCPURenderer(opts ...Option) *CPURenderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &CPURenderer{
		pool:  parallel.NewPool(o.workers),
		chunk: o.chunk,
	}
}

// Workers returns the number of worker goroutines.
func (r *CPURenderer) Workers() int { return r.pool.Workers() }

// Close stops the workers. Render fails after Close.
func (r *CPURenderer) Close() { r.pool.Close() }

// Render implements Renderer.
func (r *CPURenderer) Render(ctx context.Context, p DataProvider, width, height int) (*PixelBuffer, error) {
	pb, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	shapes, bg, err := passData(p)
	if err != nil {
		return nil, err
	}

	Logger().Debug("pixkernel: cpu pass",
		"width", width, "height", height, "floats", len(shapes), "workers", r.pool.Workers())

	err = r.pool.ForRange(ctx, width*height, r.chunk, func(start, end int) {
		kernel.Range(shapes, bg, width, start, end, pb.pix)
	})
	if err != nil {
		return nil, err
	}
	return pb, nil
}

// AcceleratedRenderer tries the registered Accelerator and falls back to
// another Renderer when none is registered or it declines the pass.
type AcceleratedRenderer struct {
	fallback Renderer
}

var _ Renderer = (*AcceleratedRenderer)(nil)

// NewAcceleratedRenderer wraps fallback.
func NewAcceleratedRenderer(fallback Renderer) *AcceleratedRenderer {
	return &AcceleratedRenderer{fallback: fallback}
}

// Close closes the fallback renderer.
func (r *AcceleratedRenderer) Close() { closeRenderer(r.fallback) }

// Render implements Renderer.
func (r *AcceleratedRenderer) Render(ctx context.Context, p DataProvider, width, height int) (*PixelBuffer, error) {
	a := CurrentAccelerator()
	if a == nil {
		return r.fallback.Render(ctx, p, width, height)
	}

	pb, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	shapes, bg, err := passData(p)
	if err != nil {
		return nil, err
	}

	err = a.Render(ctx, RenderTarget{
		Shapes:     shapes,
		Background: bg,
		Width:      width,
		Height:     height,
		Pix:        pb.pix,
	})
	switch {
	case err == nil:
		return pb, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case !errors.Is(err, ErrFallbackToCPU):
		Logger().Warn("pixkernel: accelerator failed, using CPU", "accelerator", a.Name(), "err", err)
	}
	return r.fallback.Render(ctx, p, width, height)
}

// closeRenderer closes r if it has a Close method.
func closeRenderer(r Renderer) {
	switch c := r.(type) {
	case interface{ Close() }:
		c.Close()
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			Logger().Warn("pixkernel: close renderer", "err", err)
		}
	}
}
