package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Mavwarf/shortcut-icons/internal/config"
	"github.com/Mavwarf/shortcut-icons/internal/fonts"
	"github.com/Mavwarf/shortcut-icons/internal/glyph"
	"github.com/Mavwarf/shortcut-icons/internal/log"
	"github.com/Mavwarf/shortcut-icons/internal/paths"
	"github.com/Mavwarf/shortcut-icons/internal/render"
	"github.com/Mavwarf/shortcut-icons/internal/tmpl"
)

// Options selects what Execute does.
type Options struct {
	Only   []string // icon names to render; empty = whole table
	DryRun bool     // render and encode, but write nothing
}

// Result is the outcome of one icon.
type Result struct {
	Icon     config.Icon
	Output   string
	Bytes    int
	Font     string
	Overflow int // label pixels past the right edge
	Duration time.Duration
	Err      error
}

// Report collects the results of one run, in table order.
type Report struct {
	ID       string
	Started  time.Time
	Duration time.Duration
	DryRun   bool
	Results  []Result
}

// Failed returns the number of icons that could not be produced.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Err joins all per-icon errors, or returns nil if every icon succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Icon.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}

// OutputPath returns where icon ic is written for the given options.
func OutputPath(o config.Options, ic config.Icon) (string, error) {
	dir, err := paths.Expand(o.OutputDir)
	if err != nil {
		return "", err
	}
	name := tmpl.Expand(o.OutputPattern, tmpl.Vars{Name: ic.Name, Label: ic.Label})
	return filepath.Join(dir, name), nil
}

// GlyphPath returns the source glyph file for icon ic. Absolute glyph
// paths are used as-is; others are relative to GlyphDir.
func GlyphPath(o config.Options, ic config.Icon) (string, error) {
	g, err := paths.Expand(ic.Glyph)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(g) {
		return g, nil
	}
	dir, err := paths.Expand(o.GlyphDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, g), nil
}

// Execute renders the selected icons one after another. The label font is
// resolved once for the whole run. A failing icon is recorded in its
// Result and the run continues; the returned error joins all failures.
// Cancelling ctx stops the run before the next icon.
func Execute(ctx context.Context, cfg config.Config, opts Options) (*Report, error) {
	icons, err := config.Lookup(cfg, opts.Only)
	if err != nil {
		return nil, err
	}

	face, err := fonts.Resolve(cfg.Options.Fonts, cfg.Options.LabelFontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	log.Debug().Str("font", face.Source).Float64("size", cfg.Options.LabelFontSize).Msg("font_resolved")

	rep := &Report{
		ID:      uuid.NewString(),
		Started: time.Now(),
		DryRun:  opts.DryRun,
		Results: make([]Result, 0, len(icons)),
	}
	layout := render.LayoutFrom(cfg.Options)

	for _, ic := range icons {
		if err := ctx.Err(); err != nil {
			rep.Duration = time.Since(rep.Started)
			return rep, err
		}
		res := renderOne(cfg.Options, ic, layout, face, opts.DryRun)
		log.IconRendered(ic.Name, res.Output, res.Font, res.Bytes, res.Duration, res.Err)
		if res.Overflow > 0 {
			log.Warn().Str("icon", ic.Name).Str("label", ic.Label).Int("px", res.Overflow).Msg("label_clipped")
		}
		rep.Results = append(rep.Results, res)
	}

	rep.Duration = time.Since(rep.Started)
	log.RunFinished(rep.ID, len(rep.Results), rep.Failed(), rep.Duration)
	return rep, rep.Err()
}

func renderOne(o config.Options, ic config.Icon, layout render.Layout, face *fonts.Face, dryRun bool) (res Result) {
	start := time.Now()
	res = Result{Icon: ic, Font: face.Source}
	defer func() { res.Duration = time.Since(start) }()

	out, err := OutputPath(o, ic)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out

	src, err := GlyphPath(o, ic)
	if err != nil {
		res.Err = err
		return res
	}
	g, err := glyph.Load(src)
	if err != nil {
		res.Err = err
		return res
	}
	if o.FitGlyph {
		g = glyph.Fit(g, o.GlyphSize)
	}

	img := render.Icon(g, ic.Color.NRGBA(), ic.Label, layout, face)
	res.Overflow = layout.LabelOverflow(ic.Label, face)

	var buf bytes.Buffer
	if err := render.Encode(&buf, img); err != nil {
		res.Err = fmt.Errorf("encode: %w", err)
		return res
	}
	res.Bytes = buf.Len()

	if !dryRun {
		if err := paths.AtomicWrite(out, buf.Bytes()); err != nil {
			res.Err = fmt.Errorf("write: %w", err)
		}
	}
	return res
}
