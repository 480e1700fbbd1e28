package scene

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/pixkernel"
)

const sample = `
width: 20
height: 10
background: [1, 1, 1]
shapes:
  - {type: circle, color: [1, 0, 0, 0.5], x: 5, y: 5, r: 3}
  - {type: rect, color: "#0000ff", x: 10, y: 0, w: 10, h: 10}
  - {type: ellipse, color: [0, 1, 0], x: 10, y: 5, rx: 4, ry: 2}
  - {type: line, color: [0, 0, 0], x1: 0, y1: 0, x2: 20, y2: 10, width: 1}
  - {type: polygon, color: [1, 1, 0, 0.7], points: [[0, 0], [6, 0], [3, 5]]}
`

func newCanvas(t *testing.T, w, h int) *pixkernel.Canvas {
	t.Helper()
	c, err := pixkernel.NewCanvas(w, h, pixkernel.WithWorkers(2))
	if err != nil {
		t.Fatalf("NewCanvas() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Width != 20 || s.Height != 10 {
		t.Errorf("size = %dx%d, want 20x10", s.Width, s.Height)
	}
	if s.Background != (Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("Background = %v", s.Background)
	}
	if len(s.Shapes) != 5 {
		t.Fatalf("len(Shapes) = %d, want 5", len(s.Shapes))
	}
	if got := s.Shapes[1].Color; got != (Color{B: 1, A: 1}) {
		t.Errorf("hex color = %v, want opaque blue", got)
	}
	if got := s.Shapes[0].Color.A; got != 0.5 {
		t.Errorf("circle alpha = %v, want 0.5", got)
	}
	if got := len(s.Shapes[4].Points); got != 3 {
		t.Errorf("polygon points = %d, want 3", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"empty", "", true},
		{"zero size", "width: 0\nheight: 5\n", true},
		{"unknown type", "width: 1\nheight: 1\nshapes: [{type: star}]\n", true},
		{"bad point", "width: 1\nheight: 1\nshapes: [{type: polygon, points: [[1, 2, 3]]}]\n", true},
		{"unknown field", "width: 1\nheight: 1\ndepth: 3\n", false},
		{"short color", "width: 1\nheight: 1\nbackground: [1, 0]\n", false},
		{"bad hex", "width: 1\nheight: 1\nbackground: '#zz'\n", false},
		{"map color", "width: 1\nheight: 1\nbackground: {r: 1}\n", false},
		{"unknown shape field", "width: 1\nheight: 1\nshapes: [{type: circle, radius: 3}]\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err = %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestRenderMatchesCanvas(t *testing.T) {
	s, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	got, err := s.Render(ctx, newCanvas(t, s.Width, s.Height))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	c := newCanvas(t, s.Width, s.Height)
	c.Begin()
	c.Background(pixkernel.White)
	c.Fill(pixkernel.RGBA{R: 1, A: 0.5})
	c.Circle(5, 5, 3)
	c.Fill(pixkernel.RGBA{B: 1, A: 1})
	c.Rect(10, 0, 10, 10)
	c.Fill(pixkernel.RGBA{G: 1, A: 1})
	c.Ellipse(10, 5, 4, 2)
	c.Fill(pixkernel.RGBA{A: 1})
	c.Line(0, 0, 20, 10, 1)
	c.Fill(pixkernel.RGBA{R: 1, G: 1, A: 0.7})
	c.Polygon([]float32{0, 6, 3}, []float32{0, 0, 5})
	if err := c.End(ctx); err != nil {
		t.Fatal(err)
	}

	want := c.Image().Pix()
	for i, v := range got.Pix() {
		if v != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, v, want[i])
		}
	}
}

func TestRoundTripThroughPrimitives(t *testing.T) {
	s, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	c := newCanvas(t, s.Width, s.Height)
	c.Begin()
	if err := s.Draw(c); err != nil {
		t.Fatal(err)
	}
	prims, err := c.Primitives()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.End(context.Background()); err != nil {
		t.Fatal(err)
	}

	back := FromPrimitives(s.Width, s.Height, s.Background.RGB(), prims)
	if len(back.Shapes) != len(s.Shapes) {
		t.Fatalf("len(Shapes) = %d, want %d", len(back.Shapes), len(s.Shapes))
	}
	for i := range s.Shapes {
		want, got := s.Shapes[i], back.Shapes[i]
		if got.Type != want.Type || got.Color != want.Color {
			t.Errorf("shape %d = %s %v, want %s %v", i, got.Type, got.Color, want.Type, want.Color)
		}
	}
	if r := back.Shapes[0].R; r != 3 {
		t.Errorf("circle radius = %v, want 3", r)
	}

	var buf bytes.Buffer
	if err := back.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load(Encode()) error = %v\n%s", err, buf.String())
	}
	if len(again.Shapes) != len(s.Shapes) || again.Background != s.Background {
		t.Errorf("re-decoded scene differs: %+v", again)
	}
}

func TestFromPrimitivesNegativeRadius(t *testing.T) {
	prims := []pixkernel.Primitive{{
		Tag:      pixkernel.TagCircle,
		Color:    [4]float32{0, 0, 0, 1},
		Geometry: []float32{1, 1, -4},
	}}
	s := FromPrimitives(4, 4, pixkernel.Black, prims)
	if got := s.Shapes[0].R; got != -2 {
		t.Errorf("R = %v, want -2", got)
	}
}

func TestDrawStopsOnCanvasError(t *testing.T) {
	c, err := pixkernel.NewCanvas(4, 4, pixkernel.WithWorkers(1), pixkernel.WithMaxCapacity(12))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	s := &Scene{Width: 4, Height: 4, Shapes: []Shape{
		{Type: TypeRect, W: 1, H: 1},
		{Type: TypeRect, W: 1, H: 1},
	}}
	if _, err := s.Render(context.Background(), c); !errors.Is(err, pixkernel.ErrCapacityExceeded) {
		t.Errorf("Render() error = %v, want ErrCapacityExceeded", err)
	}
	if c.Open() {
		t.Error("pass still open after failed Render")
	}
}

func TestShapeColorDefaultsToOpaque(t *testing.T) {
	s, err := Load(strings.NewReader("width: 4\nheight: 4\nshapes: [{type: rect, x: 0, y: 0, w: 4, h: 4}]\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := s.Shapes[0].Color, (Color{A: 1}); got != want {
		t.Errorf("Color = %v, want %v", got, want)
	}

	s.Background = Color{R: 1, G: 1, B: 1, A: 1}
	img, err := s.Render(context.Background(), newCanvas(t, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAt(1, 1); got != pixkernel.Black {
		t.Errorf("RGBAt(1, 1) = %v, want black", got)
	}
}
