package kernel

import (
	"github.com/gogpu/pixkernel/internal/color"
	"github.com/gogpu/pixkernel/internal/coverage"
)

// ChannelsPerPixel is the number of samples written per pixel (R, G, B).
const ChannelsPerPixel = 3

// Shade composites every record of shapes over bg at sample (x, y) and
// returns the resulting straight-alpha color.
//
// Records are applied in buffer order, so later records draw on top.
// Scanning stops at the first sentinel or at the end of the slice.
//
// This is the HOT PATH: no allocation and no validation.
func Shade(shapes []float32, bg [3]float32, x, y float32) (r, g, b float32) {
	r, g, b = bg[0], bg[1], bg[2]

	j := 0
	for j < len(shapes) {
		tag := Tag(shapes[j])
		if tag == TagSentinel {
			break
		}
		in := j + 1
		j = in + 4

		var covered bool
		switch tag {
		case TagCircle:
			covered = coverage.Circle(x, y, shapes[j], shapes[j+1], shapes[j+2])
			j += 3
		case TagRect:
			covered = coverage.Rect(x, y, shapes[j], shapes[j+1], shapes[j+2], shapes[j+3])
			j += 4
		case TagEllipse:
			covered = coverage.Ellipse(x, y, shapes[j], shapes[j+1], shapes[j+2], shapes[j+3])
			j += 4
		case TagLine:
			covered = coverage.Line(x, y, shapes[j], shapes[j+1], shapes[j+2], shapes[j+3], shapes[j+4]/2)
			j += 5
		case TagPolygon:
			n := vertexCount(shapes[j])
			start := j + 1
			covered = coverage.Polygon(x, y, shapes[start:start+n], shapes[start+n:start+2*n])
			j = start + 2*n
		}

		if covered {
			a := shapes[in+3]
			ra := 1 - a
			r = r*ra + shapes[in]*a
			g = g*ra + shapes[in+1]*a
			b = b*ra + shapes[in+2]*a
		}
	}
	return r, g, b
}

// Pixel evaluates pixel i of a width-wide image in row-major order and
// writes its encoded samples to out[i*3 : i*3+3].
func Pixel(shapes []float32, bg [3]float32, width, i int, out []int16) {
	x := float32(i%width) + 0.5
	y := float32(i/width) + 0.5
	r, g, b := Shade(shapes, bg, x, y)

	o := i * ChannelsPerPixel
	out[o] = color.Encode(r)
	out[o+1] = color.Encode(g)
	out[o+2] = color.Encode(b)
}

// Range evaluates pixels [start, end). Each pixel writes only its own
// samples, so disjoint ranges may run concurrently on the same out slice.
func Range(shapes []float32, bg [3]float32, width, start, end int, out []int16) {
	for i := start; i < end; i++ {
		Pixel(shapes, bg, width, i, out)
	}
}
