package pixkernel

import (
	"fmt"
	"image/color"
	"strconv"

	pkcolor "github.com/gogpu/pixkernel/internal/color"
)

// RGB is an opaque color with channels in [0, 1].
type RGB struct {
	R, G, B float32
}

// RGBA is a straight (non-premultiplied) color with channels in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Common colors.
var (
	Black = RGB{}
	White = RGB{R: 1, G: 1, B: 1}
)

// WithAlpha returns c with the given alpha.
func (c RGB) WithAlpha(a float32) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Color converts c to a standard library color.
func (c RGB) Color() color.Color {
	return c.WithAlpha(1).Color()
}

// Color converts c to a standard library color.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: pkcolor.UnitToByte(c.R),
		G: pkcolor.UnitToByte(c.G),
		B: pkcolor.UnitToByte(c.B),
		A: pkcolor.UnitToByte(c.A),
	}
}

func (c RGB) array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// ParseHex parses a color in "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA"
// form. The leading '#' is optional and alpha defaults to 1.
func ParseHex(s string) (RGBA, error) {
	h := s
	if h != "" && h[0] == '#' {
		h = h[1:]
	}

	var digits int
	switch len(h) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	default:
		return RGBA{}, fmt.Errorf("pixkernel: invalid hex color %q", s)
	}

	ch := [4]float32{1, 1, 1, 1}
	for i := 0; i*digits < len(h); i++ {
		v, err := strconv.ParseUint(h[i*digits:(i+1)*digits], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("pixkernel: invalid hex color %q: %w", s, err)
		}
		if digits == 1 {
			v *= 17
		}
		ch[i] = pkcolor.ByteToUnit(uint8(v))
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
