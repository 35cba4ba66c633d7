// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultMisfitThreshold is the default fraction of the minimum misfit at
// which the threshold contour is drawn.
const DefaultMisfitThreshold = 1.1

// FitPlot draws the misfit of a suite of inversion runs against their
// structure and anisotropy penalties.
type FitPlot struct {
	IMethod         string  `toml:"imethod"`
	Symbol          string  `toml:"symbol"`   // o, s, ^, +, x
	FontSize        float64 `toml:"fontsize"` // point label size, in points
	Cmap            string  `toml:"cmap"`
	NormaliseMisfit bool    `toml:"normalise_misfit"`
	NormaliseX      bool    `toml:"normalise_x"`
	LabelPoints     bool    `toml:"label_points"`
	ColorBy         string  `toml:"colorby"` // misfit, log_penalty_weight, penalty_weight or none
	Output          string  `toml:"output"`
	Fonts           Fonts   `toml:"fonts"`
}

// ContourOptions controls PlotLCurveContourMap.
type ContourOptions struct {
	DrawThreshold bool      `toml:"draw_threshold"`
	XLim          []float64 `toml:"xlim"`
	YLim          []float64 `toml:"ylim"`
	ContourStep   float64   `toml:"contour_step"` // 0 selects levels automatically
}

// NewFitPlot returns a FitPlot with default settings.
func NewFitPlot() FitPlot {
	return FitPlot{
		IMethod:     "linear",
		Symbol:      "o",
		FontSize:    8,
		Cmap:        "rainbow",
		LabelPoints: true,
		Fonts:       defaultFonts,
	}
}

// PlotLCurveContourMap grids the misfit over the (structure penalty,
// anisotropy penalty) plane and draws it as colored contour lines, with
// the runs as labelled points.
func (fp FitPlot) PlotLCurveContourMap(dc draw.Canvas, fit Fit, opts ContourOptions) error {
	if err := fit.Validate(); err != nil {
		return err
	}
	method, err := ParseMethod(fp.IMethod)
	if err != nil {
		return err
	}
	shape, err := glyphShape(fp.Symbol)
	if err != nil {
		return err
	}
	var (
		s   = fit.PenaltyStructure
		a   = fit.PenaltyAnisotropy
		mis = fit.Misfit
	)

	mesh, err := NewMesh(0, floats.Max(s), 50, 0, floats.Max(a), 50)
	if err != nil {
		return errors.Wrap(err, "pek1d: could not create penalty mesh")
	}
	raw, err := Interpolate(s, a, mis, method, mesh)
	if err != nil {
		return errors.Wrap(err, "pek1d: could not grid misfit")
	}
	g, err := raw.Filled()
	if err != nil {
		return errors.Wrap(err, "pek1d: could not fill misfit grid")
	}

	var levels []float64
	switch {
	case opts.ContourStep != 0:
		levels, err = ContourLevels(opts.ContourStep, floats.Min(mis), floats.Max(mis))
		if err != nil {
			return err
		}
	default:
		lo, hi, _ := g.Range()
		levels = AutoLevels(lo, hi)
	}
	pal, err := NewPalette(fp.Cmap, max(len(levels), 2))
	if err != nil {
		return err
	}

	p := newPlot(fp.Fonts)
	p.X.Label.Text = "structure penalty"
	p.Y.Label.Text = "anisotropy penalty"

	lines := plotter.NewContour(g, levels, pal)
	lines.LineStyles = []draw.LineStyle{{Color: color.Black, Width: vg.Points(1)}}
	p.Add(lines)

	if opts.DrawThreshold {
		thr := ContourThreshold(mis, fit.MisfitThreshold)
		c := plotter.NewContour(g, []float64{thr}, nil)
		c.LineStyles = []draw.LineStyle{{Color: color.Black, Width: vg.Points(1.5)}}
		p.Add(c)
	}

	if mask := blankMask(raw); mask != nil {
		p.Add(mask)
	}

	pts, err := plotter.NewScatter(hplot.ZipXY(s, a))
	if err != nil {
		return errors.Wrap(err, "pek1d: could not create fit points")
	}
	pts.GlyphStyle = draw.GlyphStyle{Color: color.Black, Shape: shape, Radius: vg.Points(2.5)}
	p.Add(pts)

	p.X.Min, p.X.Max = mesh.Xs[0], mesh.Xs[len(mesh.Xs)-1]
	p.Y.Min, p.Y.Max = mesh.Ys[0], mesh.Ys[len(mesh.Ys)-1]
	for _, l := range []struct {
		name string
		lim  []float64
		min  *float64
		max  *float64
	}{
		{"xlim", opts.XLim, &p.X.Min, &p.X.Max},
		{"ylim", opts.YLim, &p.Y.Min, &p.Y.Max},
	} {
		switch len(l.lim) {
		case 0:
		case 2:
			*l.min, *l.max = l.lim[0], l.lim[1]
		default:
			return errors.Wrapf(ErrParameter, "pek1d: %s needs 2 values (got %d)", l.name, len(l.lim))
		}
	}

	var (
		xys  plotter.XYs
		text []string
	)
	for i := range s {
		if len(opts.XLim) == 2 && s[i] >= opts.XLim[1] {
			continue
		}
		if len(opts.YLim) == 2 && a[i] >= opts.YLim[1] {
			continue
		}
		xys = append(xys, plotter.XY{X: s[i], Y: a[i]})
		text = append(text, fmt.Sprintf("%.1f,%.1f", fit.WeightStructure[i], fit.WeightAnisotropy[i]))
	}
	if len(xys) > 0 {
		lbls, err := fp.labels(xys, text)
		if err != nil {
			return err
		}
		p.Add(lbls)
	}

	if len(levels) < 2 {
		p.Draw(dc)
		return nil
	}
	p.Draw(sub(dc, 0, 0, 0.85, 1))
	return colorBar(sub(dc, 0.87, 0.05, 0.95, 0.95), fp.Fonts, levels, pal, "misfit", levelTicks(levels))
}

// PlotLCurve draws the misfit against one penalty, for the runs whose
// weight on the other penalty equals fixed.
// parameter is "anisotropy" or "structure".
func (fp FitPlot) PlotLCurve(dc draw.Canvas, fit Fit, parameter string, fixed float64) error {
	if err := fit.Validate(); err != nil {
		return err
	}
	shape, err := glyphShape(fp.Symbol)
	if err != nil {
		return err
	}
	idx, err := LCurveMask(fit, parameter, fixed)
	if err != nil {
		return err
	}

	penalty, weight := fit.PenaltyStructure, fit.WeightStructure
	if parameter == "anisotropy" {
		penalty, weight = fit.PenaltyAnisotropy, fit.WeightAnisotropy
	}
	var x, y, lx []float64
	for _, i := range idx {
		x = append(x, penalty[i])
		y = append(y, fit.Misfit[i])
		lx = append(lx, weight[i])
	}
	misfit := append([]float64(nil), y...)

	if fp.NormaliseMisfit {
		if y, err = normalise(y); err != nil {
			return errors.Wrap(err, "pek1d: could not normalise misfit")
		}
	}
	if fp.NormaliseX {
		if x, err = normalise(x); err != nil {
			return errors.Wrapf(err, "pek1d: could not normalise %s penalty", parameter)
		}
	}

	pts, err := plotter.NewScatter(hplot.ZipXY(x, y))
	if err != nil {
		return errors.Wrap(err, "pek1d: could not create l-curve points")
	}
	pts.GlyphStyle = draw.GlyphStyle{Color: color.Black, Shape: shape, Radius: vg.Points(2.5)}

	var cs []float64
	switch fp.ColorBy {
	case "misfit":
		cs = misfit
	case "penalty_weight":
		cs = lx
	case "log_penalty_weight":
		cs = make([]float64, len(lx))
		for i, w := range lx {
			if w <= 0 {
				return errors.Wrapf(ErrNonFinite, "pek1d: log of penalty weight %v", w)
			}
			cs[i] = math.Log10(w)
		}
	case "", "none":
	default:
		return errors.Wrapf(ErrParameter, "pek1d: invalid colorby %q", fp.ColorBy)
	}
	if cs != nil {
		pal, err := NewPalette(fp.Cmap, 256)
		if err != nil {
			return err
		}
		var (
			clrs   = pal.Colors()
			lo, hi = floats.Min(cs), floats.Max(cs)
		)
		pts.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			sty := pts.GlyphStyle
			k := 0
			if hi > lo {
				k = int((cs[i] - lo) / (hi - lo) * float64(len(clrs)-1))
			}
			sty.Color = clrs[k]
			return sty
		}
	}

	p := newPlot(fp.Fonts)
	p.X.Label.Text = parameter + " penalty"
	p.Y.Label.Text = "misfit"
	p.Add(pts)
	p.Add(hplot.NewGrid())

	if fp.LabelPoints {
		text := make([]string, len(lx))
		for i, w := range lx {
			text[i] = fmt.Sprintf("%.1f", w)
		}
		lbls, err := fp.labels(zipXYs(x, y), text)
		if err != nil {
			return err
		}
		p.Add(lbls)
	}

	p.Draw(dc)
	return nil
}

func (fp FitPlot) labels(xys plotter.XYs, text []string) (*plotter.Labels, error) {
	lbls, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not create point labels")
	}
	for i := range lbls.TextStyle {
		lbls.TextStyle[i] = fp.Fonts.textStyle(fp.FontSize)
	}
	return lbls, nil
}

// LCurveMask returns the indices of the runs whose weight on the penalty
// other than parameter is within 0.001 of fixed.
func LCurveMask(fit Fit, parameter string, fixed float64) ([]int, error) {
	var other []float64
	switch parameter {
	case "anisotropy":
		other = fit.WeightStructure
	case "structure":
		other = fit.WeightAnisotropy
	default:
		return nil, errors.Wrapf(ErrParameter, "pek1d: invalid l-curve parameter %q", parameter)
	}
	var idx []int
	for i, w := range other {
		if math.Abs(w-fixed) < 0.001 {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, errors.Wrapf(ErrMissing, "pek1d: no run with %s weight fixed at %v", parameter, fixed)
	}
	return idx, nil
}

// ContourLevels returns the levels from min to max, both rounded to the
// number of decimals of step, every step. max is excluded.
func ContourLevels(step, min, max float64) ([]float64, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, errors.Wrapf(ErrParameter, "pek1d: invalid contour step %v", step)
	}
	r := 0.0
	if step < 1 {
		r = math.Ceil(math.Abs(math.Log10(step)))
	}
	var (
		scale = math.Pow(10, r)
		lo    = math.Round(min*scale) / scale
		hi    = math.Round(max*scale) / scale
		out   []float64
	)
	for k := 0; ; k++ {
		v := lo + float64(k)*step
		if v >= hi {
			break
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(ErrDegenerate, "pek1d: no contour level in [%v, %v)", lo, hi)
	}
	return out, nil
}

// ContourThreshold returns the misfit of the threshold contour:
// the minimum misfit times threshold, rounded to 2 decimals.
func ContourThreshold(misfit []float64, threshold float64) float64 {
	return math.Round(floats.Min(misfit)*threshold*100) / 100
}

// blankMask returns a heat map painting the missing nodes of g with the
// background color, or nil when g has no missing node.
func blankMask(g *Grid) *plotter.HeatMap {
	mask := &Grid{Mesh: g.Mesh, Zs: make([]float64, len(g.Zs))}
	missing := false
	for i, v := range g.Zs {
		if math.IsNaN(v) {
			mask.Zs[i] = 1
			missing = true
		}
	}
	if !missing {
		return nil
	}
	hm := plotter.NewHeatMap(mask, colors{color.Transparent, color.White})
	hm.Min, hm.Max = 0, 1
	return hm
}

func normalise(vs []float64) ([]float64, error) {
	lo := floats.Min(vs)
	if lo == 0 {
		return nil, errors.Wrap(ErrNonFinite, "pek1d: zero minimum")
	}
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v / lo
	}
	return out, nil
}

func glyphShape(symbol string) (draw.GlyphDrawer, error) {
	switch symbol {
	case "o", "":
		return draw.CircleGlyph{}, nil
	case "s":
		return draw.BoxGlyph{}, nil
	case "^":
		return draw.TriangleGlyph{}, nil
	case "+":
		return draw.PlusGlyph{}, nil
	case "x":
		return draw.CrossGlyph{}, nil
	}
	return nil, errors.Wrapf(ErrParameter, "pek1d: invalid symbol %q", symbol)
}
