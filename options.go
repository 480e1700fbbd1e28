package pixkernel

// Option configures a Canvas or a CPURenderer.
//
//	c, err := pixkernel.NewCanvas(800, 600,
//	    pixkernel.WithWorkers(4),
//	    pixkernel.WithMaxCapacity(1<<20),
//	)
type Option func(*options)

type options struct {
	renderer   Renderer
	workers    int
	chunk      int
	initialCap int
	maxCap     int
	accelerate bool
}

func defaultOptions() options {
	return options{
		workers:    0, // GOMAXPROCS
		chunk:      0, // chosen per pass
		initialCap: DefaultInitialCapacity,
	}
}

// WithRenderer sets the renderer used by End and Pixels.
// The canvas does not close a renderer it did not create.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithWorkers sets the number of CPU workers. 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkSize sets how many pixels a CPU worker evaluates per task.
// 0 picks a size from the image and worker count.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunk = n
	}
}

// WithInitialCapacity sets the initial shape buffer size in floats.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCap = n
		}
	}
}

// WithMaxCapacity bounds shape buffer growth, in floats. Appends that
// would exceed it fail with ErrCapacityExceeded. 0 means unbounded.
func WithMaxCapacity(n int) Option {
	return func(o *options) {
		o.maxCap = n
	}
}

// WithAccelerator makes the canvas try the registered Accelerator before
// the CPU.
func WithAccelerator(enabled bool) Option {
	return func(o *options) {
		o.accelerate = enabled
	}
}
