package pixkernel

import (
	"fmt"

	"github.com/gogpu/pixkernel/internal/kernel"
)

// Tag identifies the primitive kind of a shape buffer record.
type Tag = kernel.Tag

// Record tags.
const (
	TagSentinel = kernel.TagSentinel
	TagCircle   = kernel.TagCircle
	TagRect     = kernel.TagRect
	TagEllipse  = kernel.TagEllipse
	TagLine     = kernel.TagLine
	TagPolygon  = kernel.TagPolygon
)

// Primitive is the decoded form of one shape buffer record.
type Primitive = kernel.Primitive

// Sentinel marks the end of a shape buffer.
const Sentinel = kernel.Sentinel

// DefaultInitialCapacity is the number of floats a new ShapeBuffer
// reserves. It holds a few hundred small records.
const DefaultInitialCapacity = 4096

// ShapeBuffer is an append-only list of encoded primitives.
//
// Records are written at the cursor and the float after the last record is
// always the sentinel. Storage grows geometrically and is reused across
// Begin calls. A failed append leaves the buffer exactly as it was.
//
// ShapeBuffer is not safe for concurrent use. Hand a Snapshot to the
// renderer instead of the buffer itself.
type ShapeBuffer struct {
	data   []float32
	cursor int
	max    int // 0 means unbounded
}

// NewShapeBuffer returns an empty buffer with room for initial floats.
// maxCap bounds growth; 0 means unbounded.
func NewShapeBuffer(initial, maxCap int) *ShapeBuffer {
	if initial < 1 {
		initial = 1
	}
	if maxCap > 0 && initial > maxCap {
		initial = maxCap
	}
	b := &ShapeBuffer{
		data: make([]float32, initial),
		max:  maxCap,
	}
	b.data[0] = Sentinel
	return b
}

// Begin discards all records. Storage is kept for reuse.
func (b *ShapeBuffer) Begin() {
	b.cursor = 0
	b.data[0] = Sentinel
}

// Len returns the number of floats used by records, excluding the sentinel.
func (b *ShapeBuffer) Len() int { return b.cursor }

// Cap returns the current storage size in floats.
func (b *ShapeBuffer) Cap() int { return len(b.data) }

// Empty reports whether no record has been appended since Begin.
func (b *ShapeBuffer) Empty() bool { return b.cursor == 0 }

// Data returns the records followed by the sentinel. The slice aliases the
// buffer and is only valid until the next append or Begin.
func (b *ShapeBuffer) Data() []float32 {
	return b.data[:b.cursor+1]
}

// Snapshot returns an independent copy of the records followed by the
// sentinel. An empty buffer yields a single-element sentinel-only slice.
func (b *ShapeBuffer) Snapshot() []float32 {
	out := make([]float32, b.cursor+1)
	copy(out, b.data[:b.cursor])
	out[b.cursor] = Sentinel
	return out
}

// Records decodes the buffer into primitives.
func (b *ShapeBuffer) Records() ([]Primitive, error) {
	return kernel.Decode(b.Data())
}

// AppendCircle appends a circle. The radius is stored squared with its
// sign kept, so a negative or zero radius never covers a pixel.
func (b *ShapeBuffer) AppendCircle(x, y, r float32, c RGBA) error {
	rec, err := b.reserve(TagCircle, kernel.CircleLen)
	if err != nil {
		return err
	}
	putColor(rec, c)
	rec[5], rec[6], rec[7] = x, y, signedSquare(r)
	b.commit(TagCircle, kernel.CircleLen)
	return nil
}

// AppendRect appends an axis-aligned rectangle with origin (x, y).
func (b *ShapeBuffer) AppendRect(x, y, w, h float32, c RGBA) error {
	rec, err := b.reserve(TagRect, kernel.RectLen)
	if err != nil {
		return err
	}
	putColor(rec, c)
	rec[5], rec[6], rec[7], rec[8] = x, y, w, h
	b.commit(TagRect, kernel.RectLen)
	return nil
}

// AppendEllipse appends an axis-aligned ellipse centered at (x, y).
func (b *ShapeBuffer) AppendEllipse(x, y, rx, ry float32, c RGBA) error {
	rec, err := b.reserve(TagEllipse, kernel.EllipseLen)
	if err != nil {
		return err
	}
	putColor(rec, c)
	rec[5], rec[6], rec[7], rec[8] = x, y, rx, ry
	b.commit(TagEllipse, kernel.EllipseLen)
	return nil
}

// AppendLine appends a segment stroked as a capsule of the given width.
func (b *ShapeBuffer) AppendLine(x1, y1, x2, y2, width float32, c RGBA) error {
	rec, err := b.reserve(TagLine, kernel.LineLen)
	if err != nil {
		return err
	}
	putColor(rec, c)
	rec[5], rec[6], rec[7], rec[8], rec[9] = x1, y1, x2, y2, width
	b.commit(TagLine, kernel.LineLen)
	return nil
}

// AppendPolygon appends a polygon filled with the even-odd rule. If xs and
// ys differ in length the extra coordinates are ignored. A polygon without
// vertices is recorded and covers nothing.
func (b *ShapeBuffer) AppendPolygon(xs, ys []float32, c RGBA) error {
	n := min(len(xs), len(ys))
	size := kernel.PolygonLen(n)
	rec, err := b.reserve(TagPolygon, size)
	if err != nil {
		return err
	}
	putColor(rec, c)
	rec[5] = float32(n)
	copy(rec[6:6+n], xs[:n])
	copy(rec[6+n:6+2*n], ys[:n])
	b.commit(TagPolygon, size)
	return nil
}

// reserve makes room for a record of size floats plus the trailing
// sentinel and returns the record's slot. The tag slot is left untouched
// so the buffer still ends at the cursor until commit.
func (b *ShapeBuffer) reserve(tag Tag, size int) ([]float32, error) {
	need := b.cursor + size + 1
	if need <= len(b.data) {
		return b.data[b.cursor : b.cursor+size], nil
	}

	if b.max > 0 && need > b.max {
		return nil, fmt.Errorf("%w: %s needs %d floats, max %d", ErrCapacityExceeded, tag, need, b.max)
	}
	newCap := max(need, 2*len(b.data))
	if b.max > 0 && newCap > b.max {
		newCap = b.max
	}

	grown := make([]float32, newCap)
	copy(grown, b.data[:b.cursor])
	grown[b.cursor] = Sentinel
	Logger().Debug("pixkernel: shape buffer grown", "from", len(b.data), "to", newCap)
	b.data = grown
	return b.data[b.cursor : b.cursor+size], nil
}

// commit terminates the record reserved at the cursor and publishes it by
// writing its tag last.
func (b *ShapeBuffer) commit(tag Tag, size int) {
	b.data[b.cursor+size] = Sentinel
	b.data[b.cursor] = float32(tag)
	b.cursor += size
}

func putColor(rec []float32, c RGBA) {
	rec[1], rec[2], rec[3], rec[4] = c.R, c.G, c.B, c.A
}

func signedSquare(r float32) float32 {
	if r < 0 {
		return -r * r
	}
	return r * r
}
