// Package imageio reads target images and writes rendered frames.
//
// Formats are chosen by file extension. Decoders are called directly
// instead of through image.Decode because the TGA decoder registers an
// empty magic string and would otherwise claim every input.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/gogpu/pixkernel"
)

// Format is an image file format.
type Format string

// Supported formats. TGA and GIF are read-only.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	TGA  Format = "tga"
	WebP Format = "webp"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 90

// ErrUnsupported is returned for an unknown extension or a format that
// cannot be written.
var ErrUnsupported = errors.New("imageio: unsupported format")

// FormatFromPath returns the format implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".gif":
		return GIF, nil
	case ".tga":
		return TGA, nil
	case ".webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, filepath.Ext(path))
}

// Decode reads one image of format f from r.
func Decode(r io.Reader, f Format) (image.Image, error) {
	switch f {
	case PNG:
		return png.Decode(r)
	case JPEG:
		return jpeg.Decode(r)
	case GIF:
		return gif.Decode(r)
	case TGA:
		return tga.Decode(r)
	case WebP:
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, f)
}

// Load reads the image at path.
func Load(path string) (image.Image, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer file.Close()

	img, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Resize scales img to width x height. An image that already has that
// size is returned as is.
func Resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	var scaler draw.Interpolator = draw.CatmullRom
	if b.Dx() < width || b.Dy() < height {
		scaler = draw.ApproxBiLinear
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// LoadTarget reads the image at path, scales it to width x height and
// converts it to samples for comparison against rendered frames.
func LoadTarget(path string, width, height int) (*pixkernel.PixelBuffer, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return pixkernel.PixelBufferFromImage(Resize(img, width, height))
}

// Encode writes img to w in format f. quality applies to JPEG only; a
// value outside 1..100 selects DefaultQuality. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case WebP:
		return nativewebp.Encode(w, img, nil)
	}
	return fmt.Errorf("%w: cannot write %q", ErrUnsupported, f)
}

// Save writes p to path in the format implied by its extension.
func Save(path string, p *pixkernel.PixelBuffer, quality int) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("imageio: %w", err)
		}
	}

	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := Encode(file, p.ToImage(), f, quality); err != nil {
		_ = file.Close()
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return file.Close()
}
