// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Tensor is a 2×2 impedance tensor component table, indexed [i][j]
// with 0 standing for x and 1 for y.
type Tensor [2][2]float64

// Response holds apparent resistivity and phase tensors, with their
// uncertainties, at a set of frequencies.
type Response struct {
	Freq     []float64
	Res      []Tensor
	ResErr   []Tensor
	Phase    []Tensor
	PhaseErr []Tensor
}

// Validate checks that the response is not empty and that every array
// has one value per frequency.
func (r Response) Validate() error {
	n := len(r.Freq)
	if n == 0 {
		return errors.Wrap(ErrMissing, "pek1d: empty response")
	}
	for _, c := range []struct {
		name string
		n    int
	}{
		{"res", len(r.Res)},
		{"res_err", len(r.ResErr)},
		{"phase", len(r.Phase)},
		{"phase_err", len(r.PhaseErr)},
	} {
		if c.n != n {
			return errors.Wrapf(ErrLength, "pek1d: %s=%d, freq=%d", c.name, c.n, n)
		}
	}
	return nil
}

// Periods returns 1/f for every frequency.
func (r Response) Periods() []float64 {
	out := make([]float64, len(r.Freq))
	for i, f := range r.Freq {
		out[i] = 1 / f
	}
	return out
}

// AdjustPhase returns a copy of phases where negative values are shifted
// by 180 degrees.
func AdjustPhase(phases []Tensor) []Tensor {
	out := make([]Tensor, len(phases))
	for k, t := range phases {
		for i := range t {
			for j := range t[i] {
				if t[i][j] < 0 {
					t[i][j] += 180
				}
			}
		}
		out[k] = t
	}
	return out
}

// ResponsePlot draws the apparent resistivity and phase of measured data
// and of a model response against period.
type ResponsePlot struct {
	AdjustPhase bool   `toml:"adjust_phase"`
	Title       string `toml:"title"`
	Output      string `toml:"output"`
	Fonts       Fonts  `toml:"fonts"`
}

// NewResponsePlot returns a ResponsePlot with default settings.
func NewResponsePlot() ResponsePlot {
	return ResponsePlot{
		AdjustPhase: true,
		Fonts:       defaultFonts,
	}
}

var (
	offDiagonal = [2][2]int{{0, 1}, {1, 0}}
	diagonal    = [2][2]int{{0, 0}, {1, 1}}
)

// Plot draws four panels: apparent resistivity on the top row, phase on
// the bottom row, off-diagonal components on the left column and
// diagonal ones on the right column. Data are drawn with error bars,
// blue for the first component and red for the second; the model
// response is drawn as black dashed lines.
func (rp ResponsePlot) Plot(dc draw.Canvas, data, model Response) error {
	if err := data.Validate(); err != nil {
		return errors.Wrap(err, "pek1d: invalid data")
	}
	if err := model.Validate(); err != nil {
		return errors.Wrap(err, "pek1d: invalid model response")
	}
	if len(model.Freq) != len(data.Freq) {
		return errors.Wrapf(ErrLength, "pek1d: data=%d, model=%d frequencies", len(data.Freq), len(model.Freq))
	}

	dpha, mpha := data.Phase, model.Phase
	if rp.AdjustPhase {
		dpha, mpha = AdjustPhase(dpha), AdjustPhase(mpha)
	}

	area := dc
	if rp.Title != "" {
		area = sub(dc, 0, 0, 1, 0.93)
		sty := rp.Fonts.textStyle(rp.Fonts.Title)
		sty.XAlign = draw.XCenter
		dc.FillText(sty, vg.Point{
			X: (dc.Min.X + dc.Max.X) / 2,
			Y: dc.Max.Y - vg.Points(rp.Fonts.Title) - vg.Points(2),
		}, rp.Title)
	}

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadTop:    vg.Points(5),
		PadBottom: vg.Points(5),
		PadLeft:   vg.Points(5),
		PadRight:  vg.Points(10),
		PadX:      vg.Points(15),
		PadY:      vg.Points(10),
	}
	period := data.Periods()
	for row, q := range []struct {
		val, err, mod []Tensor
		log           bool
		label         string
	}{
		{data.Res, data.ResErr, model.Res, true, "apparent resistivity, ohm-m"},
		{dpha, data.PhaseErr, mpha, false, "phase, degrees"},
	} {
		for col, seq := range [][2][2]int{offDiagonal, diagonal} {
			p, err := rp.panel(period, q.val, q.err, q.mod, seq, q.log)
			if err != nil {
				return errors.Wrapf(err, "pek1d: could not plot response panel (%d, %d)", row, col)
			}
			if col == 0 {
				p.Y.Label.Text = q.label
			}
			if row == 1 {
				p.X.Label.Text = "period, s"
			}
			p.Draw(tiles.At(area, col, row))
		}
	}
	return nil
}

func (rp ResponsePlot) panel(period []float64, val, errs, mod []Tensor, seq [2][2]int, logy bool) (*hplot.Plot, error) {
	p := newPlot(rp.Fonts)
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	if logy {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	colors := []color.Color{
		color.RGBA{B: 255, A: 255},
		color.RGBA{R: 255, A: 255},
	}
	for k, ij := range seq {
		i, j := ij[0], ij[1]
		var xs, ys, es, ms, mx []float64
		for n := range period {
			x, y, e, m := period[n], val[n][i][j], errs[n][i][j], mod[n][i][j]
			if !(x > 0) || math.IsInf(x, 0) {
				continue
			}
			if isFinite(m) && (!logy || m > 0) {
				mx = append(mx, x)
				ms = append(ms, m)
			}
			if !isFinite(y) || !isFinite(e) || (logy && y <= 0) {
				continue
			}
			xs = append(xs, x)
			ys = append(ys, y)
			es = append(es, e)
		}

		if len(xs) > 0 {
			pts := errorPoints{XYs: zipXYs(xs, ys), YErrors: make(plotter.YErrors, len(es))}
			for n, e := range es {
				e = math.Abs(e)
				lo := e
				if logy && lo >= ys[n] {
					lo = ys[n] * (1 - 1e-3)
				}
				pts.YErrors[n].Low, pts.YErrors[n].High = lo, e
			}
			bars, err := plotter.NewYErrorBars(pts)
			if err != nil {
				return nil, errors.Wrap(err, "pek1d: could not create error bars")
			}
			bars.LineStyle.Color = colors[k]
			p.Add(bars)

			line, err := hplot.NewLine(pts.XYs)
			if err != nil {
				return nil, errors.Wrap(err, "pek1d: could not create data line")
			}
			line.LineStyle.Color = colors[k]
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(line)
		}

		if len(mx) > 0 {
			line, err := hplot.NewLine(hplot.ZipXY(mx, ms))
			if err != nil {
				return nil, errors.Wrap(err, "pek1d: could not create model line")
			}
			line.LineStyle.Color = color.Black
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(line)
		}
	}
	p.Add(hplot.NewGrid())
	logRange(&p.X)
	if logy {
		logRange(&p.Y)
	}
	return p, nil
}

// errorPoints are data points with vertical error bars.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// logRange makes the range of a log-scaled axis drawable when it holds
// no data or a single value.
func logRange(a *plot.Axis) {
	switch {
	case a.Min > a.Max:
		a.Min, a.Max = 1, 10
	case a.Min == a.Max:
		a.Min, a.Max = a.Min/10, a.Max*10
	}
}
