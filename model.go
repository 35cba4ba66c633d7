// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Parameter is a model quantity drawn against depth.
type Parameter string

const (
	MinMax Parameter = "minmax" // minimum and maximum resistivity
	Aniso  Parameter = "aniso"  // anisotropy, resmax/resmin
	Strike Parameter = "strike" // strike of the minimum resistivity
)

// ParseParameter returns the parameter named s.
func ParseParameter(s string) (Parameter, error) {
	switch p := Parameter(s); p {
	case MinMax, Aniso, Strike:
		return p, nil
	}
	return "", errors.Wrapf(ErrParameter, "pek1d: invalid parameter %q", s)
}

// Limits holds the axis range of each parameter.
type Limits struct {
	MinMax [2]float64 `toml:"minmax"`
	Aniso  [2]float64 `toml:"aniso"`
	Strike [2]float64 `toml:"strike"`
}

func (l Limits) For(p Parameter) [2]float64 {
	switch p {
	case MinMax:
		return l.MinMax
	case Aniso:
		return l.Aniso
	default:
		return l.Strike
	}
}

// Titles holds the panel title of each parameter.
type Titles struct {
	MinMax string `toml:"minmax"`
	Aniso  string `toml:"aniso"`
	Strike string `toml:"strike"`
}

func (t Titles) For(p Parameter) string {
	switch p {
	case MinMax:
		return t.MinMax
	case Aniso:
		return t.Aniso
	default:
		return t.Strike
	}
}

var (
	defaultLimits = Limits{
		MinMax: [2]float64{0.1, 1000},
		Aniso:  [2]float64{0, 20},
		Strike: [2]float64{0, 180},
	}
	defaultFonts = Fonts{Type: "serif", Label: 8, Title: 12}
)

// ModelPlot draws the parameters of a single 1-D model, one panel per
// parameter, stacked vertically.
type ModelPlot struct {
	Parameters []string   `toml:"parameters"`
	Titles     Titles     `toml:"titles"`
	XLim       Limits     `toml:"xlim"`
	YLim       [2]float64 `toml:"ylim"` // depth range, deepest first draws inverted
	ModelNo    int        `toml:"modelno"`
	ModelType  string     `toml:"modeltype"` // model, inmodel or model+inmodel
	Output     string     `toml:"output"`
	Fonts      Fonts      `toml:"fonts"`
}

// NewModelPlot returns a ModelPlot with default settings.
func NewModelPlot() ModelPlot {
	return ModelPlot{
		Parameters: []string{string(MinMax), string(Aniso), string(Strike)},
		Titles: Titles{
			MinMax: "Minimum and maximum\nresistivity, ohm-m",
			Aniso:  "Anisotropy in resistivity",
			Strike: "Strike angle of\nminimum resistivity",
		},
		XLim:      defaultLimits,
		YLim:      [2]float64{6, 0},
		ModelType: "model",
		Fonts:     defaultFonts,
	}
}

// Datasets returns the models to draw according to ModelType.
// The inversion model comes first, then the a-priori model.
func (mp ModelPlot) Datasets(model, inmodel Model) ([]Model, error) {
	var ds []Model
	if strings.Contains(mp.ModelType, "model") && mp.ModelType != "inmodel" {
		if len(model) == 0 {
			return nil, errors.Wrap(ErrMissing, "pek1d: no model to plot")
		}
		ds = append(ds, model)
	}
	if strings.Contains(mp.ModelType, "inmodel") {
		if len(inmodel) == 0 {
			return nil, errors.Wrap(ErrMissing, "pek1d: no a-priori model to plot")
		}
		ds = append(ds, inmodel)
	}
	if len(ds) == 0 {
		return nil, errors.Wrapf(ErrParameter, "pek1d: invalid model type %q", mp.ModelType)
	}
	return ds, nil
}

// OutputFilename returns the configured output file name, or one derived
// from the working directory and the parameters.
func (mp ModelPlot) OutputFilename(workdir, ext string) string {
	if mp.Output != "" {
		return mp.Output
	}
	return OutputFilename(workdir, mp.Parameters, ext)
}

// Plot draws one panel per parameter.
// Panels with an invalid parameter are reported and left empty.
func (mp ModelPlot) Plot(dc draw.Canvas, datasets []Model) error {
	n := len(mp.Parameters)
	if n == 0 {
		return nil
	}
	tiles := draw.Tiles{
		Rows:      n,
		Cols:      1,
		PadTop:    vg.Points(5),
		PadBottom: vg.Points(5),
		PadLeft:   vg.Points(5),
		PadRight:  vg.Points(15),
		PadY:      vg.Points(10),
	}
	for i, name := range mp.Parameters {
		err := mp.PlotParameter(tiles.At(dc, 0, i), datasets, name)
		switch {
		case err == nil:
		case errors.Is(err, ErrParameter):
			log.Printf("panel %d skipped: %+v", i, err)
		default:
			return errors.Wrapf(err, "pek1d: could not plot %q panel", name)
		}
	}
	return nil
}

// PlotParameter draws a single parameter of the datasets against depth.
func (mp ModelPlot) PlotParameter(dc draw.Canvas, datasets []Model, name string) error {
	param, err := ParseParameter(name)
	if err != nil {
		return err
	}
	xlim := mp.XLim.For(param)
	if err := checkLimits(param, xlim); err != nil {
		return err
	}

	p := newPlot(mp.Fonts)
	p.Title.Text = mp.Titles.For(param)
	for i, m := range datasets {
		clr := color.Color(color.Black)
		if i > 0 {
			clr = color.RGBA{B: 255, A: 255}
		}
		lines, err := parameterLines(m, param, clr, vg.Points(1))
		if err != nil {
			return errors.Wrapf(err, "pek1d: dataset %d", i)
		}
		for _, l := range lines {
			p.Add(l)
		}
	}
	p.Add(hplot.NewGrid())

	depthAxis(p.Plot, mp.YLim)
	valueAxis(p.Plot, param, xlim)

	p.Draw(dc)
	return nil
}

// parameterLines returns the curves of one model for param.
// minmax gives the maximum resistivity as a solid line and the minimum
// resistivity as a dashed line.
func parameterLines(m Model, param Parameter, clr color.Color, width vg.Length) ([]*plotter.Line, error) {
	var (
		depth = m.Depths()
		lines []*plotter.Line
	)
	add := func(xs []float64, dashed bool) error {
		if param == MinMax {
			xs, ys := positive(xs, depth)
			if len(xs) == 0 {
				return nil
			}
			return appendLine(&lines, xs, ys, clr, width, dashed)
		}
		return appendLine(&lines, xs, depth, clr, width, dashed)
	}

	switch param {
	case MinMax:
		if err := add(m.ResMax(), false); err != nil {
			return nil, err
		}
		if err := add(m.ResMin(), true); err != nil {
			return nil, err
		}
	case Aniso:
		vs, err := m.Anisotropy()
		if err != nil {
			return nil, err
		}
		if err := add(vs, false); err != nil {
			return nil, err
		}
	case Strike:
		if err := add(m.Strikes(), false); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func appendLine(lines *[]*plotter.Line, xs, ys []float64, clr color.Color, width vg.Length, dashed bool) error {
	l, err := hplot.NewLine(hplot.ZipXY(xs, ys))
	if err != nil {
		return errors.Wrap(err, "pek1d: could not create new-line")
	}
	l.LineStyle.Color = clr
	l.LineStyle.Width = width
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	*lines = append(*lines, l)
	return nil
}

// positive returns the (x, y) pairs with a strictly positive x.
func positive(xs, ys []float64) ([]float64, []float64) {
	var ox, oy []float64
	for i, x := range xs {
		if x > 0 && !math.IsInf(x, 0) {
			ox = append(ox, x)
			oy = append(oy, ys[i])
		}
	}
	return ox, oy
}

// checkLimits reports limits a parameter axis cannot be drawn with.
func checkLimits(param Parameter, xlim [2]float64) error {
	if param == MinMax && !(xlim[0] > 0 && xlim[1] > 0) {
		return errors.Wrapf(ErrParameter, "pek1d: invalid log-scale limits %v", xlim)
	}
	return nil
}

// depthAxis sets the depth range of p. The axis is inverted when the
// first limit is the deepest one.
func depthAxis(p *plot.Plot, ylim [2]float64) {
	p.Y.Min = math.Min(ylim[0], ylim[1])
	p.Y.Max = math.Max(ylim[0], ylim[1])
	if ylim[0] > ylim[1] {
		p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	}
}

// valueAxis sets the range and the scale of the parameter axis of p.
func valueAxis(p *plot.Plot, param Parameter, xlim [2]float64) {
	p.X.Min = xlim[0]
	p.X.Max = xlim[1]
	if param == MinMax {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	}
}
