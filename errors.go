package pixkernel

import (
	"errors"

	"github.com/gogpu/pixkernel/internal/kernel"
)

var (
	// ErrFallbackToCPU indicates the accelerator cannot run this pass.
	// The caller should transparently fall back to CPU rendering.
	ErrFallbackToCPU = errors.New("pixkernel: falling back to CPU rendering")

	// ErrCapacityExceeded is returned when an append would grow a shape
	// buffer past its maximum capacity. The buffer is left unchanged.
	ErrCapacityExceeded = errors.New("pixkernel: shape buffer capacity exceeded")

	// ErrPassNotOpen is returned for drawing calls outside Begin/End.
	ErrPassNotOpen = errors.New("pixkernel: no render pass open")

	// ErrPassOpen is returned by Begin when a pass is already open.
	ErrPassOpen = errors.New("pixkernel: render pass already open")

	// ErrInvalidDimensions is returned for non-positive canvas sizes.
	ErrInvalidDimensions = errors.New("pixkernel: invalid dimensions")

	// ErrSizeMismatch is returned when comparing buffers of different sizes.
	ErrSizeMismatch = errors.New("pixkernel: pixel buffer sizes differ")

	// ErrMalformedBuffer is returned when decoding an invalid shape buffer.
	ErrMalformedBuffer = kernel.ErrMalformedBuffer
)
