package pixkernel

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/pixkernel/internal/color"
	"github.com/gogpu/pixkernel/internal/parallel"
)

// differenceChunk is the number of samples summed per task. It is fixed
// so the result does not depend on the worker count.
const differenceChunk = 1 << 15

var differencePool = sync.OnceValue(func() *parallel.Pool {
	return parallel.NewPool(0)
})

// Difference returns the mean squared error between the decoded channel
// values of a and b. Identical buffers score 0 and the worst case is 1.
func Difference(ctx context.Context, a, b *PixelBuffer) (float64, error) {
	if a.width != b.width || a.height != b.height {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, a.width, a.height, b.width, b.height)
	}

	n := len(a.pix)
	partial := make([]float64, (n+differenceChunk-1)/differenceChunk)
	err := differencePool().ForRange(ctx, n, differenceChunk, func(start, end int) {
		var sum float64
		for i := start; i < end; i++ {
			d := color.Decode(a.pix[i]) - color.Decode(b.pix[i])
			sum += float64(d * d)
		}
		partial[start/differenceChunk] = sum
	})
	if err != nil {
		return 0, err
	}

	var total float64
	for _, s := range partial {
		total += s
	}
	return total / float64(n), nil
}
