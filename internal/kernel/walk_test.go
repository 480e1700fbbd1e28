package kernel

import (
	"errors"
	"math"
	"testing"
)

func TestWalkFraming(t *testing.T) {
	shapes := buffer(
		circle([4]float32{1, 0, 0, 1}, 1, 2, 3),
		polygon([4]float32{0, 1, 0, 1}, []float32{0, 1, 2}, []float32{3, 4, 5}),
		[]float32{float32(TagLine), 0, 0, 1, 1, 0, 0, 5, 5, 1},
		rect([4]float32{0, 0, 0, 1}, 0, 0, 1, 1),
		[]float32{float32(TagEllipse), 0, 0, 0, 1, 5, 5, 1, 2},
	)

	var got []Record
	if err := Walk(shapes, func(r Record) error {
		got = append(got, r)
		return nil
	}); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []Record{
		{TagCircle, 0, CircleLen},
		{TagPolygon, 8, PolygonLen(3)},
		{TagLine, 20, LineLen},
		{TagRect, 30, RectLen},
		{TagEllipse, 39, EllipseLen},
	}
	if len(got) != len(want) {
		t.Fatalf("Walk() visited %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	used, err := Used(shapes)
	if err != nil {
		t.Fatalf("Used() error = %v", err)
	}
	if used != len(shapes)-1 {
		t.Errorf("Used() = %d, want %d", used, len(shapes)-1)
	}
}

func TestWalkMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []float32
	}{
		{"unknown tag", []float32{7, 0, 0, 0, 0, Sentinel}},
		{"truncated circle", []float32{float32(TagCircle), 1, 1, 1, 1, 5}},
		{"truncated polygon header", []float32{float32(TagPolygon), 1, 1, 1}},
		{"truncated polygon vertices", []float32{float32(TagPolygon), 1, 1, 1, 1, 3, 0, 0}},
		{"huge vertex count", []float32{float32(TagPolygon), 1, 1, 1, 1, 1e30, Sentinel}},
		{"infinite vertex count", []float32{float32(TagPolygon), 1, 1, 1, 1, float32(math.Inf(1)), Sentinel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Walk(tt.data, func(Record) error { return nil })
			if !errors.Is(err, ErrMalformedBuffer) {
				t.Errorf("Walk() error = %v, want ErrMalformedBuffer", err)
			}
		})
	}
}

func TestWalkStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	shapes := buffer(rect([4]float32{}, 0, 0, 1, 1), rect([4]float32{}, 0, 0, 1, 1))
	calls := 0
	err := Walk(shapes, func(Record) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Walk() = %v after %d calls, want stop after 1", err, calls)
	}
}

func TestDecode(t *testing.T) {
	shapes := buffer(
		circle([4]float32{1, 0.5, 0.25, 0.75}, 1, 2, 3),
		polygon([4]float32{0, 1, 0, 1}, []float32{0, 1, 2}, []float32{3, 4, 5}),
	)
	prims, err := Decode(shapes)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(prims) != 2 {
		t.Fatalf("Decode() returned %d primitives, want 2", len(prims))
	}

	c := prims[0]
	if c.Tag != TagCircle || c.Color != [4]float32{1, 0.5, 0.25, 0.75} {
		t.Errorf("circle = %+v", c)
	}
	if len(c.Geometry) != 3 || c.Geometry[2] != 9 {
		t.Errorf("circle geometry = %v, want r² = 9", c.Geometry)
	}
	if xs, ys := c.Vertices(); xs != nil || ys != nil {
		t.Error("Vertices() on a circle should return nil")
	}

	xs, ys := prims[1].Vertices()
	if len(xs) != 3 || xs[2] != 2 || ys[0] != 3 {
		t.Errorf("Vertices() = %v, %v", xs, ys)
	}

	// Decoded geometry must not alias the buffer.
	shapes[5] = 100
	if prims[0].Geometry[0] == 100 {
		t.Error("Decode() result aliases the input buffer")
	}
}

func TestTagString(t *testing.T) {
	if TagPolygon.String() != "polygon" || Tag(9).String() != "unknown" {
		t.Errorf("unexpected tag names: %s, %s", TagPolygon, Tag(9))
	}
}

func TestVertexCount(t *testing.T) {
	tests := []struct {
		in   float32
		want int
	}{
		{3, 3},
		{2.6, 3},
		{0, 0},
		{-4, 0},
		{float32(math.NaN()), 0},
		{float32(math.Inf(-1)), 0},
		{float32(math.Inf(1)), maxVertices},
		{1e30, maxVertices},
	}
	for _, tt := range tests {
		if got := vertexCount(tt.in); got != tt.want {
			t.Errorf("vertexCount(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWalkNaNVertexCount(t *testing.T) {
	nan := float32(math.NaN())
	shapes := buffer(
		[]float32{float32(TagPolygon), 1, 0, 0, 1, nan},
		rect([4]float32{0, 0, 1, 1}, 0, 0, 1, 1),
	)

	prims, err := Decode(shapes)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(prims) != 2 || prims[0].Tag != TagPolygon || prims[1].Tag != TagRect {
		t.Fatalf("Decode() = %+v, want polygon then rect", prims)
	}
	if xs, ys := prims[0].Vertices(); len(xs) != 0 || len(ys) != 0 {
		t.Errorf("Vertices() = %v, %v, want none", xs, ys)
	}
	if used, _ := Used(shapes); used != PolygonLen(0)+RectLen {
		t.Errorf("Used() = %d, want %d", used, PolygonLen(0)+RectLen)
	}
}
