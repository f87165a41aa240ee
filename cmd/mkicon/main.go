// mkicon renders a single shortcut icon with the default layout.
// Usage: go run ./cmd/mkicon <glyph.png> <color> <LABEL> <output.png>
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Mavwarf/shortcut-icons/internal/config"
	"github.com/Mavwarf/shortcut-icons/internal/fonts"
	"github.com/Mavwarf/shortcut-icons/internal/glyph"
	"github.com/Mavwarf/shortcut-icons/internal/paths"
	"github.com/Mavwarf/shortcut-icons/internal/render"
)

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: mkicon <glyph.png> <#rrggbb> <LABEL> <output.png>")
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3], os.Args[4]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(glyphPath, hex, label, out string) error {
	c, err := config.ParseHex(hex)
	if err != nil {
		return err
	}
	o := config.DefaultOptions()

	face, err := fonts.Resolve(o.Fonts, o.LabelFontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	g, err := glyph.Load(glyphPath)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, render.Icon(g, c.NRGBA(), label, render.LayoutFrom(o), face)); err != nil {
		return err
	}
	if err := paths.AtomicWrite(out, buf.Bytes()); err != nil {
		return err
	}
	fmt.Printf("%s - %s %s (%s)\n", out, label, c, face.Source)
	return nil
}
