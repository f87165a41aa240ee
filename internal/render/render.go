// Package render composes a shortcut icon: solid canvas, recolored glyph,
// and a left-aligned label near the bottom edge.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/Mavwarf/shortcut-icons/internal/config"
	"github.com/Mavwarf/shortcut-icons/internal/glyph"
)

// Layout places the glyph and label on a square canvas.
type Layout struct {
	Size              int
	Background        color.NRGBA
	GlyphSize         int
	GlyphTop          int
	LabelLeft         int
	LabelBottomOffset int
}

// LayoutFrom builds a Layout from config options.
func LayoutFrom(o config.Options) Layout {
	return Layout{
		Size:              o.Size,
		Background:        o.Background.NRGBA(),
		GlyphSize:         o.GlyphSize,
		GlyphTop:          o.GlyphTop,
		LabelLeft:         o.LabelLeft,
		LabelBottomOffset: o.LabelBottomOffset,
	}
}

// GlyphOrigin is the top-left corner of the glyph: horizontally centred
// for a glyph of GlyphSize, GlyphTop pixels from the top.
func (l Layout) GlyphOrigin() image.Point {
	return image.Pt((l.Size-l.GlyphSize)/2, l.GlyphTop)
}

// LabelOrigin is the top-left corner of the label's ascender box.
func (l Layout) LabelOrigin() image.Point {
	return image.Pt(l.LabelLeft, l.Size-l.LabelBottomOffset)
}

// LabelOverflow returns how many pixels the label extends past the right
// edge of the canvas, or 0 if it fits.
func (l Layout) LabelOverflow(label string, face font.Face) int {
	w := font.MeasureString(face, label).Ceil()
	if over := l.LabelLeft + w - l.Size; over > 0 {
		return over
	}
	return 0
}

// Icon renders one shortcut icon. The glyph is recolored to c (alpha kept)
// and composited at GlyphOrigin; the label is drawn in c with its ascender
// top at LabelOrigin. The result is fully opaque.
func Icon(g image.Image, c color.NRGBA, label string, l Layout, face font.Face) *image.NRGBA {
	canvas := imaging.New(l.Size, l.Size, l.Background)
	canvas = imaging.Overlay(canvas, glyph.Recolor(g, c), l.GlyphOrigin(), 1.0)

	o := l.LabelOrigin()
	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(o.X), Y: fixed.I(o.Y) + face.Metrics().Ascent},
	}
	d.DrawString(label)
	return canvas
}

// Encode writes img as PNG. Opaque images are stored as 8-bit RGB.
func Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
