// Package coverage provides the binary inside/outside tests for each
// primitive kind.
//
// Every test takes a sample point (normally a pixel centre, offset by 0.5
// from the integer pixel coordinate) and the primitive parameters, and
// reports whether the sample is covered. The functions are pure and keep no
// state, so they may be evaluated from any number of goroutines in any order.
//
// Degenerate geometry (zero or negative radius, width, height or stroke, an
// empty polygon) is never covered. None of the tests take a square root.
package coverage

// Circle reports whether (x, y) lies strictly inside a circle.
//
// Parameters:
//   - x, y: sample point
//   - cx, cy: circle center
//   - r2: squared radius, stored pre-squared in the shape record
//
// A non-positive r2 is never covered.
func Circle(x, y, cx, cy, r2 float32) bool {
	dx := cx - x
	dy := cy - y
	return dx*dx+dy*dy < r2
}

// Rect reports whether (x, y) lies in the open interior of an axis-aligned
// rectangle. Samples exactly on any of the four edges are not covered.
//
// Parameters:
//   - x, y: sample point
//   - rx, ry: rectangle origin (top-left)
//   - w, h: width and height
func Rect(x, y, rx, ry, w, h float32) bool {
	return x > rx && x < rx+w && y > ry && y < ry+h
}

// Ellipse reports whether (x, y) lies inside or on an axis-aligned ellipse,
// using the implicit form dx²·ry² + dy²·rx² <= rx²·ry².
//
// Parameters:
//   - x, y: sample point
//   - ex, ey: ellipse center
//   - rx, ry: semi-axes along X and Y
func Ellipse(x, y, ex, ey, rx, ry float32) bool {
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx := x - ex
	dy := y - ey
	return (dx*dx)*(ry*ry)+(dy*dy)*(rx*rx) <= (rx*rx)*(ry*ry)
}

// Line reports whether (x, y) lies within epsilon of the segment from
// (sx, sy) to (ex, ey), i.e. inside a capsule of half-width epsilon.
//
// The sample is projected onto the segment and the projection parameter is
// clamped to [0, 1]. A zero-length segment degrades to a point test.
//
// Parameters:
//   - x, y: sample point
//   - sx, sy: segment start
//   - ex, ey: segment end
//   - epsilon: half the stroke width
func Line(x, y, sx, sy, ex, ey, epsilon float32) bool {
	if epsilon <= 0 {
		return false
	}
	xDiff := ex - sx
	yDiff := ey - sy
	length2 := xDiff*xDiff + yDiff*yDiff
	if length2 == 0 {
		return inEpsilon(sx, sy, x, y, epsilon)
	}
	t := ((x-sx)*xDiff + (y-sy)*yDiff) / length2
	if t < 0 {
		return inEpsilon(sx, sy, x, y, epsilon)
	}
	if t > 1 {
		return inEpsilon(ex, ey, x, y, epsilon)
	}
	return inEpsilon(sx+t*xDiff, sy+t*yDiff, x, y, epsilon)
}

// inEpsilon reports whether two points are strictly closer than epsilon.
func inEpsilon(x1, y1, x2, y2, epsilon float32) bool {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx+dy*dy < epsilon*epsilon
}

// Polygon reports whether (x, y) lies inside the polygon with vertices
// (xs[i], ys[i]) under the even-odd rule. The polygon is closed by an
// implicit edge from the last vertex back to the first.
//
// An edge crosses the sample's scanline when one end is strictly below y and
// the other is at or above it, so a vertex shared by two edges is counted once.
// Only the first min(len(xs), len(ys)) vertices are used. An empty polygon
// is never covered.
func Polygon(x, y float32, xs, ys []float32) bool {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n == 0 {
		return false
	}
	lastX := xs[n-1]
	lastY := ys[n-1]
	odd := false
	for i := 0; i < n; i++ {
		vx := xs[i]
		vy := ys[i]
		if (vy < y && lastY >= y) || (lastY < y && vy >= y) {
			if vx+(y-vy)/(lastY-vy)*(lastX-vx) < x {
				odd = !odd
			}
		}
		lastX = vx
		lastY = vy
	}
	return odd
}
