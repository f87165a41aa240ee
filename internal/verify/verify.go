// Package verify inspects generated icon files: the equivalent of
// listing them with sizes and identifying their image format.
package verify

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
)

// File describes one file on disk.
type File struct {
	Path    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time

	MIME   string // sniffed from content; "" if unknown
	Format string // decoder name (e.g. "png"); "" if not an image
	Width  int
	Height int
	Color  string // "RGB", "RGBA", "grayscale", ...
}

// sniffLen is enough for filetype's matchers.
const sniffLen = 262

// Inspect stats path and, if it is a decodable image, reads its header.
func Inspect(path string) (File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if fi.IsDir() {
		return File{}, fmt.Errorf("%s: is a directory", path)
	}
	f := File{Path: path, Size: fi.Size(), Mode: fi.Mode(), ModTime: fi.ModTime()}

	data, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		f.MIME = kind.MIME.Value
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		f.Format = format
		f.Width = cfg.Width
		f.Height = cfg.Height
		f.Color = colorName(cfg.ColorModel)
	}
	return f, nil
}

func colorName(m color.Model) string {
	switch m {
	case color.RGBAModel, color.RGBA64Model:
		return "RGB"
	case color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	case color.GrayModel, color.Gray16Model:
		return "grayscale"
	}
	if _, ok := m.(color.Palette); ok {
		return "colormap"
	}
	return "unknown"
}

// Describe returns a one-line summary of the file's type, e.g.
// "PNG image data, 192 x 192, RGB".
func (f File) Describe() string {
	switch {
	case f.Format == "png":
		return fmt.Sprintf("PNG image data, %d x %d, %s", f.Width, f.Height, f.Color)
	case f.Format != "":
		return fmt.Sprintf("%s image data, %d x %d, %s", f.Format, f.Width, f.Height, f.Color)
	case f.MIME != "":
		return f.MIME
	case f.Size == 0:
		return "empty"
	default:
		return "data"
	}
}

// Listing returns a long-listing style line: mode, size, time, name.
func (f File) Listing() string {
	return fmt.Sprintf("%s  %8s  %s  %s",
		f.Mode, humanize.Bytes(uint64(f.Size)), f.ModTime.Format("Jan _2 15:04"), filepath.Base(f.Path))
}

// Check returns an error unless f is an opaque size×size PNG.
func Check(f File, size int) error {
	if f.Format != "png" {
		return fmt.Errorf("%s: not a PNG (%s)", f.Path, f.Describe())
	}
	if f.Width != size || f.Height != size {
		return fmt.Errorf("%s: %dx%d, want %dx%d", f.Path, f.Width, f.Height, size, size)
	}
	if f.Color != "RGB" {
		return fmt.Errorf("%s: color type %s, want RGB", f.Path, f.Color)
	}
	return nil
}
