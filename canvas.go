package pixkernel

import (
	"context"
	"fmt"
)

// Canvas is the drawing surface that produces shape buffers.
//
// A pass is bracketed by Begin and End. Between them, Background and Fill
// set state and the shape methods append one primitive each using the
// current fill. End renders the pass and publishes the result as Image.
//
// Drawing methods do not return errors. The first failure is kept and
// reported by End and Err, and later drawing calls in the same pass are
// ignored.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	width  int
	height int

	shapes     *ShapeBuffer
	background RGB
	fill       RGBA

	open bool
	err  error

	renderer     Renderer
	ownsRenderer bool
	image        *PixelBuffer
}

// NewCanvas creates a canvas. Without WithRenderer it starts its own
// CPURenderer, released by Close.
func NewCanvas(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Canvas{
		width:  width,
		height: height,
		shapes: NewShapeBuffer(o.initialCap, o.maxCap),
		fill:   RGBA{A: 1},
	}

	r := o.renderer
	if r == nil {
		r = NewCPURenderer(WithWorkers(o.workers), WithChunkSize(o.chunk))
		c.ownsRenderer = true
	}
	if o.accelerate {
		r = NewAcceleratedRenderer(r)
	}
	c.renderer = r
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Close releases the renderer if the canvas created it.
func (c *Canvas) Close() {
	if c.ownsRenderer {
		closeRenderer(c.renderer)
	}
}

// Begin opens a pass and discards the previous pass's primitives.
// Background and fill are kept.
func (c *Canvas) Begin() {
	if c.open {
		c.setErr(ErrPassOpen)
		return
	}
	c.err = nil
	c.shapes.Begin()
	c.open = true
}

// End closes the pass and renders it. On success the result replaces
// Image; on failure Image returns nil until the next successful End.
func (c *Canvas) End(ctx context.Context) error {
	if !c.open {
		return ErrPassNotOpen
	}
	c.open = false
	c.image = nil
	if c.err != nil {
		return c.err
	}

	pb, err := c.renderer.Render(ctx, c.Frame(), c.width, c.height)
	if err != nil {
		c.err = fmt.Errorf("pixkernel: render pass: %w", err)
		return c.err
	}
	c.image = pb
	return nil
}

// Err returns the first error of the current or last pass.
func (c *Canvas) Err() error { return c.err }

// Open reports whether a pass is open.
func (c *Canvas) Open() bool { return c.open }

// Image returns the buffer rendered by the last successful End.
func (c *Canvas) Image() *PixelBuffer { return c.image }

// Frame returns an immutable snapshot of the current background and shapes.
func (c *Canvas) Frame() *Frame {
	return &Frame{background: c.background, shapes: c.shapes.Snapshot()}
}

// Pixels renders the primitives appended so far into a new buffer
// without closing the pass.
func (c *Canvas) Pixels(ctx context.Context) (*PixelBuffer, error) {
	return c.renderer.Render(ctx, c.Frame(), c.width, c.height)
}

// Difference renders the current primitives and returns their mean
// squared error against target.
func (c *Canvas) Difference(ctx context.Context, target *PixelBuffer) (float64, error) {
	pb, err := c.Pixels(ctx)
	if err != nil {
		return 0, err
	}
	return Difference(ctx, pb, target)
}

// Primitives decodes the primitives appended so far.
func (c *Canvas) Primitives() ([]Primitive, error) {
	return c.shapes.Records()
}

// Background sets the color every pixel starts from.
func (c *Canvas) Background(col RGB) { c.background = col }

// Fill sets the color of primitives appended after this call.
func (c *Canvas) Fill(col RGBA) { c.fill = col }

// Circle appends a circle of radius r centered at (x, y).
func (c *Canvas) Circle(x, y, r float32) {
	if c.ready() {
		c.setErr(c.shapes.AppendCircle(x, y, r, c.fill))
	}
}

// Rect appends a rectangle with top-left corner (x, y).
func (c *Canvas) Rect(x, y, w, h float32) {
	if c.ready() {
		c.setErr(c.shapes.AppendRect(x, y, w, h, c.fill))
	}
}

// Ellipse appends an axis-aligned ellipse centered at (x, y).
func (c *Canvas) Ellipse(x, y, rx, ry float32) {
	if c.ready() {
		c.setErr(c.shapes.AppendEllipse(x, y, rx, ry, c.fill))
	}
}

// Line appends a segment from (x1, y1) to (x2, y2) with round caps.
func (c *Canvas) Line(x1, y1, x2, y2, strokeWidth float32) {
	if c.ready() {
		c.setErr(c.shapes.AppendLine(x1, y1, x2, y2, strokeWidth, c.fill))
	}
}

// Polygon appends a closed polygon. Extra coordinates in the longer slice
// are ignored.
func (c *Canvas) Polygon(xs, ys []float32) {
	if c.ready() {
		c.setErr(c.shapes.AppendPolygon(xs, ys, c.fill))
	}
}

func (c *Canvas) ready() bool {
	if !c.open {
		c.setErr(ErrPassNotOpen)
		return false
	}
	return c.err == nil
}

func (c *Canvas) setErr(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}
