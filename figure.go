// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// NewFigure returns an in-memory PNG canvas of the provided size,
// together with the drawing area covering it.
func NewFigure(w, h vg.Length) (vgimg.PngCanvas, draw.Canvas) {
	c := vgimg.PngCanvas{Canvas: vgimg.New(w, h)}
	return c, draw.New(c)
}

// Save draws a figure of the provided size with fn and writes it to fname.
// The image format follows the file extension (png, jpg, tiff, svg, pdf, eps).
func Save(fname string, w, h vg.Length, fn func(dc draw.Canvas) error) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(fname), "."))
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return errors.Wrapf(err, "pek1d: could not create %q canvas", format)
	}

	err = fn(draw.New(c))
	if err != nil {
		return err
	}

	o, err := os.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "pek1d: could not create output file")
	}
	defer o.Close()

	_, err = c.WriteTo(o)
	if err != nil {
		return errors.Wrapf(err, "pek1d: could not write figure %q", fname)
	}

	err = o.Close()
	if err != nil {
		return errors.Wrapf(err, "pek1d: could not close output file")
	}
	return nil
}

// OutputFilename returns the name of the figure file for a working
// directory and a list of parameters.
func OutputFilename(workdir string, params []string, ext string) string {
	return filepath.Base(workdir) + strings.Join(params, "_") + ext
}

// Fonts describes the text of a figure.
type Fonts struct {
	Type  string  `toml:"type"`  // serif, sans or mono
	Label float64 `toml:"label"` // tick and axis label size, in points
	Title float64 `toml:"title"` // title size, in points
}

func (f Fonts) font(size float64) font.Font {
	fnt := plot.DefaultFont
	switch f.Type {
	case "sans":
		fnt.Variant = "Sans"
	case "mono":
		fnt.Variant = "Mono"
	default:
		fnt.Variant = "Serif"
	}
	return font.From(fnt, vg.Points(size))
}

// style applies the fonts to the title and axes of p.
func (f Fonts) style(p *plot.Plot) {
	lbl := f.font(f.Label)
	p.Title.TextStyle.Font = f.font(f.Title)
	p.X.Label.TextStyle.Font = lbl
	p.Y.Label.TextStyle.Font = lbl
	p.X.Tick.Label.Font = lbl
	p.Y.Tick.Label.Font = lbl
}

// textStyle returns a left/bottom aligned text style of the given size.
func (f Fonts) textStyle(size float64) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    f.font(size),
		XAlign:  draw.XLeft,
		YAlign:  draw.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

func newPlot(f Fonts) *hplot.Plot {
	p := hplot.New()
	f.style(p.Plot)
	return p
}

// zipXYs returns the points (xs[i], ys[i]).
func zipXYs(xs, ys []float64) plotter.XYs {
	out := make(plotter.XYs, len(xs))
	for i := range out {
		out[i].X, out[i].Y = xs[i], ys[i]
	}
	return out
}

// sub returns the part of dc spanning the provided fractions of its
// width and height.
func sub(dc draw.Canvas, x0, y0, x1, y1 float64) draw.Canvas {
	var (
		pt     = dc.Size()
		width  = pt.X
		height = pt.Y
	)
	return draw.Canvas{
		Canvas: dc,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: dc.Min.X + vg.Length(x0)*width, Y: dc.Min.Y + vg.Length(y0)*height},
			Max: vg.Point{X: dc.Min.X + vg.Length(x1)*width, Y: dc.Min.Y + vg.Length(y1)*height},
		},
	}
}

// outer returns the area to draw p in so that its data area covers axes.
// Title, axes and tick labels of p end up outside of axes.
func outer(p *plot.Plot, axes draw.Canvas) draw.Canvas {
	da := p.DataCanvas(axes)
	return draw.Canvas{
		Canvas: axes.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{
				X: axes.Min.X - (da.Min.X - axes.Min.X),
				Y: axes.Min.Y - (da.Min.Y - axes.Min.Y),
			},
			Max: vg.Point{
				X: axes.Max.X + (axes.Max.X - da.Max.X),
				Y: axes.Max.Y + (axes.Max.Y - da.Max.Y),
			},
		},
	}
}

// ghost makes the title and the axes of p transparent.
// The layout of p is unchanged.
func ghost(p *plot.Plot, x, y bool) {
	if x {
		ghostAxis(&p.X)
	}
	if y {
		ghostAxis(&p.Y)
	}
	p.Title.TextStyle.Color = color.Transparent
}

func ghostAxis(a *plot.Axis) {
	a.LineStyle.Color = color.Transparent
	a.Label.TextStyle.Color = color.Transparent
	a.Tick.Label.Color = color.Transparent
	a.Tick.LineStyle.Color = color.Transparent
}

// limitTicks returns a tick marker that only labels the limits of an axis.
func limitTicks(lo, hi float64) plot.ConstantTicks {
	return plot.ConstantTicks{
		{Value: lo, Label: tickLabel(lo)},
		{Value: hi, Label: tickLabel(hi)},
	}
}

func tickLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// rotateX rotates the tick labels of the x-axis of p by 90 degrees.
func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
