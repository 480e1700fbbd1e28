// Package kernel implements the per-pixel evaluation of an encoded shape
// buffer.
//
// A shape buffer is a flat []float32 of concatenated records terminated by
// the sentinel tag -1. Each record is:
//
//	tag, r, g, b, a, geometry...
//
// where the geometry fields depend on the tag:
//
//	0 circle   cx, cy, r²
//	1 rect     x, y, w, h
//	2 ellipse  cx, cy, rx, ry
//	3 line     x1, y1, x2, y2, strokeWidth
//	4 polygon  n, x[0..n), y[0..n)
//
// The hot loop trusts the framing; use Walk to validate a buffer produced
// outside ShapeBuffer.
package kernel

import "errors"

// Tag identifies the primitive kind of a record.
type Tag int

// Record tags.
const (
	TagSentinel Tag = -1
	TagCircle   Tag = 0
	TagRect     Tag = 1
	TagEllipse  Tag = 2
	TagLine     Tag = 3
	TagPolygon  Tag = 4
)

// Sentinel is the float value marking the end of a shape buffer.
const Sentinel float32 = -1

// Record lengths in floats, including tag and color.
const (
	HeaderLen        = 5 // tag + RGBA
	CircleLen        = HeaderLen + 3
	RectLen          = HeaderLen + 4
	EllipseLen       = HeaderLen + 4
	LineLen          = HeaderLen + 5
	PolygonHeaderLen = HeaderLen + 1
)

// ErrMalformedBuffer is returned by Walk and Decode for unknown tags or
// truncated records.
var ErrMalformedBuffer = errors.New("kernel: malformed shape buffer")

// PolygonLen returns the record length of a polygon with n vertices.
func PolygonLen(n int) int {
	return PolygonHeaderLen + 2*n
}

// String returns the primitive name of a tag.
func (t Tag) String() string {
	switch t {
	case TagSentinel:
		return "sentinel"
	case TagCircle:
		return "circle"
	case TagRect:
		return "rect"
	case TagEllipse:
		return "ellipse"
	case TagLine:
		return "line"
	case TagPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// maxVertices bounds the vertex count read from a record. Larger values
// cannot fit in any buffer and are reported as truncated by Walk.
const maxVertices = 1 << 24

// vertexCount converts the stored polygon vertex count to an int.
// Negative and NaN counts read as zero; counts are rounded and capped at
// maxVertices.
func vertexCount(v float32) int {
	if !(v > 0) {
		return 0
	}
	if v >= maxVertices {
		return maxVertices
	}
	return int(v + 0.5)
}
