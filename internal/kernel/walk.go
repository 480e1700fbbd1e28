package kernel

import "fmt"

// Record describes the framing of one record in a shape buffer.
type Record struct {
	Tag    Tag
	Offset int // index of the tag
	Len    int // floats consumed, including tag and color
}

// Primitive is the decoded form of one record.
type Primitive struct {
	Tag   Tag
	Color [4]float32

	// Geometry holds the fields that follow the color, as stored.
	// For a polygon that is n, x[0..n), y[0..n).
	Geometry []float32
}

// Vertices returns the X and Y coordinates of a polygon primitive.
// It returns nil slices for other tags.
func (p Primitive) Vertices() (xs, ys []float32) {
	if p.Tag != TagPolygon || len(p.Geometry) == 0 {
		return nil, nil
	}
	n := vertexCount(p.Geometry[0])
	return p.Geometry[1 : 1+n], p.Geometry[1+n : 1+2*n]
}

// Walk calls fn for every record of data in order, stopping at the sentinel
// or at the end of the slice. It returns ErrMalformedBuffer for an unknown
// tag or a record that runs past the end of data, and stops early if fn
// returns an error.
func Walk(data []float32, fn func(Record) error) error {
	j := 0
	for j < len(data) {
		tag := Tag(data[j])
		if tag == TagSentinel {
			return nil
		}

		var n int
		switch tag {
		case TagCircle:
			n = CircleLen
		case TagRect:
			n = RectLen
		case TagEllipse:
			n = EllipseLen
		case TagLine:
			n = LineLen
		case TagPolygon:
			if j+PolygonHeaderLen > len(data) {
				return fmt.Errorf("%w: polygon header at %d truncated", ErrMalformedBuffer, j)
			}
			n = PolygonLen(vertexCount(data[j+HeaderLen]))
		default:
			return fmt.Errorf("%w: unknown tag %v at %d", ErrMalformedBuffer, data[j], j)
		}
		if j+n > len(data) {
			return fmt.Errorf("%w: %s record at %d needs %d floats, %d left",
				ErrMalformedBuffer, tag, j, n, len(data)-j)
		}

		if err := fn(Record{Tag: tag, Offset: j, Len: n}); err != nil {
			return err
		}
		j += n
	}
	return nil
}

// Used returns the number of floats occupied by records before the
// sentinel.
func Used(data []float32) (int, error) {
	end := 0
	err := Walk(data, func(r Record) error {
		end = r.Offset + r.Len
		return nil
	})
	return end, err
}

// Decode converts a shape buffer to its primitives, in order.
// The returned primitives do not alias data.
func Decode(data []float32) ([]Primitive, error) {
	var prims []Primitive
	err := Walk(data, func(r Record) error {
		rec := data[r.Offset : r.Offset+r.Len]
		p := Primitive{
			Tag:      r.Tag,
			Color:    [4]float32{rec[1], rec[2], rec[3], rec[4]},
			Geometry: append([]float32(nil), rec[HeaderLen:]...),
		}
		prims = append(prims, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prims, nil
}
