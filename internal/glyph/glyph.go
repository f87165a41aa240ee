// Package glyph loads and recolors monochrome icon glyphs.
package glyph

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
)

// Load decodes the image at path into a non-premultiplied RGBA copy.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("glyph: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("glyph: decode %s: %w", path, err)
	}
	return imaging.Clone(img), nil
}

// Recolor returns a copy of img where every pixel that is not fully
// transparent takes the RGB of c. Alpha is kept as-is, so antialiased
// edges stay smooth. Fully transparent pixels are copied unchanged.
func Recolor(img image.Image, c color.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		if out.Pix[i+3] == 0 {
			continue
		}
		out.Pix[i+0] = c.R
		out.Pix[i+1] = c.G
		out.Pix[i+2] = c.B
	}
	return out
}

// Fit scales img to size×size. Images already at that size are returned
// as a copy without resampling.
func Fit(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, size, size, imaging.Lanczos)
}
