// Package fonts resolves the label font from an ordered list of
// candidate files, falling back to the built-in Go Regular face.
package fonts

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/Mavwarf/shortcut-icons/internal/log"
	"github.com/Mavwarf/shortcut-icons/internal/paths"
)

// BuiltinSource names the fallback face in Face.Source.
const BuiltinSource = "builtin:goregular"

// DPI matches the point-to-pixel mapping of the label layout (1pt = 1px).
const DPI = 72

// Face is a sized label font and where it came from.
type Face struct {
	font.Face
	Source string
}

// Resolve returns a face of the given point size from the first candidate
// that can be read and parsed. A leading "~" in a candidate is expanded.
// TrueType/OpenType collections use their first font. Unusable candidates
// are skipped; if none work the built-in face is returned.
func Resolve(candidates []string, size float64) (*Face, error) {
	for _, c := range candidates {
		path, err := paths.Expand(c)
		if err != nil {
			log.Debug().Str("font", c).Err(err).Msg("font_skipped")
			continue
		}
		f, err := parseFile(path)
		if err != nil {
			log.Debug().Str("font", path).Err(err).Msg("font_skipped")
			continue
		}
		face, err := newFace(f, size)
		if err != nil {
			log.Debug().Str("font", path).Err(err).Msg("font_skipped")
			continue
		}
		return &Face{Face: face, Source: path}, nil
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("fonts: builtin: %w", err)
	}
	face, err := newFace(f, size)
	if err != nil {
		return nil, fmt.Errorf("fonts: builtin: %w", err)
	}
	return &Face{Face: face, Source: BuiltinSource}, nil
}

func parseFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isCollection(data) {
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		return c.Font(0)
	}
	return opentype.Parse(data)
}

// isCollection reports whether data starts with the "ttcf" collection tag.
func isCollection(data []byte) bool {
	return bytes.HasPrefix(data, []byte("ttcf"))
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
}
