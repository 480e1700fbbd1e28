// Package scene reads and writes YAML descriptions of a single render
// pass and replays them onto a pixkernel.Canvas.
//
// A scene file looks like:
//
//	width: 200
//	height: 100
//	background: [1, 1, 1]
//	shapes:
//	  - {type: circle, color: [1, 0, 0, 0.5], x: 50, y: 50, r: 20}
//	  - {type: rect, color: "#0000ff80", x: 10, y: 10, w: 30, h: 20}
//	  - {type: ellipse, color: [0, 1, 0], x: 100, y: 50, rx: 40, ry: 10}
//	  - {type: line, color: [0, 0, 0], x1: 0, y1: 0, x2: 200, y2: 100, width: 2}
//	  - {type: polygon, color: [1, 1, 0, 0.7], points: [[0, 0], [20, 0], [10, 15]]}
package scene

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixkernel"
)

// Shape types.
const (
	TypeCircle  = "circle"
	TypeRect    = "rect"
	TypeEllipse = "ellipse"
	TypeLine    = "line"
	TypePolygon = "polygon"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("scene: invalid scene")

// Scene is one render pass: canvas size, background and primitives in
// drawing order.
type Scene struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Background Color   `yaml:"background"`
	Shapes     []Shape `yaml:"shapes"`
}

// Shape is one primitive. Color defaults to opaque black. Which geometry
// fields apply depends on Type:
//
//	circle   x, y, r
//	rect     x, y, w, h
//	ellipse  x, y, rx, ry
//	line     x1, y1, x2, y2, width
//	polygon  points
type Shape struct {
	Type  string `yaml:"type"`
	Color Color  `yaml:"color"`

	X  float32 `yaml:"x,omitempty"`
	Y  float32 `yaml:"y,omitempty"`
	R  float32 `yaml:"r,omitempty"`
	W  float32 `yaml:"w,omitempty"`
	H  float32 `yaml:"h,omitempty"`
	RX float32 `yaml:"rx,omitempty"`
	RY float32 `yaml:"ry,omitempty"`

	X1    float32 `yaml:"x1,omitempty"`
	Y1    float32 `yaml:"y1,omitempty"`
	X2    float32 `yaml:"x2,omitempty"`
	Y2    float32 `yaml:"y2,omitempty"`
	Width float32 `yaml:"width,omitempty"`

	Points [][]float32 `yaml:"points,omitempty,flow"`
}

// shapeKeys lists the keys a shape mapping may contain.
var shapeKeys = map[string]struct{}{
	"type": {}, "color": {},
	"x": {}, "y": {}, "r": {}, "w": {}, "h": {}, "rx": {}, "ry": {},
	"x1": {}, "y1": {}, "x2": {}, "y2": {}, "width": {},
	"points": {},
}

// UnmarshalYAML implements yaml.Unmarshaler. A shape without a color is
// opaque black, the same default fill as a new Canvas. Unknown keys are
// errors.
func (sh *Shape) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			k := value.Content[i]
			if _, ok := shapeKeys[k.Value]; !ok {
				return fmt.Errorf("line %d: field %s not found in shape", k.Line, k.Value)
			}
		}
	}

	type plain Shape
	p := plain{Color: Color{A: 1}}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*sh = Shape(p)
	return nil
}

// Load decodes and validates a scene. Unknown fields are errors.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile loads the scene at path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the canvas size, shape types and polygon points.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, s.Width, s.Height)
	}
	for i, sh := range s.Shapes {
		switch sh.Type {
		case TypeCircle, TypeRect, TypeEllipse, TypeLine:
		case TypePolygon:
			for j, p := range sh.Points {
				if len(p) != 2 {
					return fmt.Errorf("%w: shape %d: point %d has %d coordinates", ErrInvalid, i, j, len(p))
				}
			}
		default:
			return fmt.Errorf("%w: shape %d: unknown type %q", ErrInvalid, i, sh.Type)
		}
	}
	return nil
}

// Draw sets the background and appends every shape to c, which must have
// an open pass. It returns the canvas error, if any.
func (s *Scene) Draw(c *pixkernel.Canvas) error {
	c.Background(s.Background.RGB())
	for _, sh := range s.Shapes {
		c.Fill(pixkernel.RGBA(sh.Color))
		switch sh.Type {
		case TypeCircle:
			c.Circle(sh.X, sh.Y, sh.R)
		case TypeRect:
			c.Rect(sh.X, sh.Y, sh.W, sh.H)
		case TypeEllipse:
			c.Ellipse(sh.X, sh.Y, sh.RX, sh.RY)
		case TypeLine:
			c.Line(sh.X1, sh.Y1, sh.X2, sh.Y2, sh.Width)
		case TypePolygon:
			xs, ys := sh.vertices()
			c.Polygon(xs, ys)
		}
	}
	return c.Err()
}

// Render runs one full pass of s on c.
func (s *Scene) Render(ctx context.Context, c *pixkernel.Canvas) (*pixkernel.PixelBuffer, error) {
	c.Begin()
	if err := s.Draw(c); err != nil {
		_ = c.End(ctx)
		return nil, err
	}
	if err := c.End(ctx); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

func (sh Shape) vertices() (xs, ys []float32) {
	xs = make([]float32, 0, len(sh.Points))
	ys = make([]float32, 0, len(sh.Points))
	for _, p := range sh.Points {
		if len(p) == 2 {
			xs = append(xs, p[0])
			ys = append(ys, p[1])
		}
	}
	return xs, ys
}

// FromPrimitives builds a scene from decoded shape buffer records.
// Circle radii are recovered from the stored squares, keeping the sign.
func FromPrimitives(width, height int, background pixkernel.RGB, prims []pixkernel.Primitive) *Scene {
	s := &Scene{
		Width:      width,
		Height:     height,
		Background: Color(background.WithAlpha(1)),
		Shapes:     make([]Shape, 0, len(prims)),
	}
	for _, p := range prims {
		g := p.Geometry
		sh := Shape{Color: Color{R: p.Color[0], G: p.Color[1], B: p.Color[2], A: p.Color[3]}}
		switch p.Tag {
		case pixkernel.TagCircle:
			sh.Type = TypeCircle
			sh.X, sh.Y = g[0], g[1]
			sh.R = math32.Sqrt(math32.Abs(g[2]))
			if g[2] < 0 {
				sh.R = -sh.R
			}
		case pixkernel.TagRect:
			sh.Type = TypeRect
			sh.X, sh.Y, sh.W, sh.H = g[0], g[1], g[2], g[3]
		case pixkernel.TagEllipse:
			sh.Type = TypeEllipse
			sh.X, sh.Y, sh.RX, sh.RY = g[0], g[1], g[2], g[3]
		case pixkernel.TagLine:
			sh.Type = TypeLine
			sh.X1, sh.Y1, sh.X2, sh.Y2, sh.Width = g[0], g[1], g[2], g[3], g[4]
		case pixkernel.TagPolygon:
			sh.Type = TypePolygon
			xs, ys := p.Vertices()
			sh.Points = make([][]float32, len(xs))
			for i := range xs {
				sh.Points[i] = []float32{xs[i], ys[i]}
			}
		default:
			continue
		}
		s.Shapes = append(s.Shapes, sh)
	}
	return s
}

// Encode writes s as YAML.
func (s *Scene) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	return enc.Close()
}
