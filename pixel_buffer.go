package pixkernel

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"image/png"
	"os"

	"github.com/gogpu/pixkernel/internal/color"
	"github.com/gogpu/pixkernel/internal/kernel"
)

// PixelBuffer holds the output of one render pass: three int16 samples
// (R, G, B) per pixel in row-major order. A sample v stands for the channel
// value (v+32768)/65535.
//
// PixelBuffer implements image.Image.
type PixelBuffer struct {
	width  int
	height int
	pix    []int16
}

var _ image.Image = (*PixelBuffer)(nil)

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]int16, width*height*kernel.ChannelsPerPixel),
	}, nil
}

// Width returns the width in pixels.
func (p *PixelBuffer) Width() int { return p.width }

// Height returns the height in pixels.
func (p *PixelBuffer) Height() int { return p.height }

// Pix returns the raw samples.
func (p *PixelBuffer) Pix() []int16 { return p.pix }

// Samples returns the encoded samples of pixel (x, y).
// Out-of-range coordinates return zeros.
func (p *PixelBuffer) Samples(x, y int) [3]int16 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return [3]int16{}
	}
	i := (y*p.width + x) * kernel.ChannelsPerPixel
	return [3]int16{p.pix[i], p.pix[i+1], p.pix[i+2]}
}

// RGBAt returns the decoded color of pixel (x, y).
func (p *PixelBuffer) RGBAt(x, y int) RGB {
	s := p.Samples(x, y)
	return RGB{R: color.Decode(s[0]), G: color.Decode(s[1]), B: color.Decode(s[2])}
}

// At implements image.Image.
func (p *PixelBuffer) At(x, y int) stdcolor.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return stdcolor.NRGBA{}
	}
	s := p.Samples(x, y)
	return stdcolor.NRGBA{
		R: color.SampleToByte(s[0]),
		G: color.SampleToByte(s[1]),
		B: color.SampleToByte(s[2]),
		A: 255,
	}
}

// Bounds implements image.Image.
func (p *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements image.Image.
func (p *PixelBuffer) ColorModel() stdcolor.Model {
	return stdcolor.NRGBAModel
}

// ToImage converts the buffer to an opaque 8-bit image, rounding each
// channel to the nearest byte.
func (p *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i, j := 0, 0; i < len(p.pix); i, j = i+3, j+4 {
		img.Pix[j+0] = color.SampleToByte(p.pix[i+0])
		img.Pix[j+1] = color.SampleToByte(p.pix[i+1])
		img.Pix[j+2] = color.SampleToByte(p.pix[i+2])
		img.Pix[j+3] = 255
	}
	return img
}

// PixelBufferFromImage converts img to samples. Alpha is ignored.
func PixelBufferFromImage(img image.Image) (*PixelBuffer, error) {
	b := img.Bounds()
	p, err := NewPixelBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < p.height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			out := p.pix[y*p.width*3:]
			for x := 0; x < p.width; x++ {
				out[x*3+0] = color.ByteToSample(row[x*4+0])
				out[x*3+1] = color.ByteToSample(row[x*4+1])
				out[x*3+2] = color.ByteToSample(row[x*4+2])
			}
		}
		return p, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := stdcolor.NRGBAModel.Convert(img.At(x, y)).(stdcolor.NRGBA)
			p.pix[i+0] = color.ByteToSample(c.R)
			p.pix[i+1] = color.ByteToSample(c.G)
			p.pix[i+2] = color.ByteToSample(c.B)
			i += 3
		}
	}
	return p, nil
}

// SavePNG writes the buffer to path as an 8-bit PNG.
func (p *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
