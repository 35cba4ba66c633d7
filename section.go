// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"image/color"
	"log"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Site holds the inversion results of one station of a profile.
type Site struct {
	Station
	Models  []Model // inversion iterations
	InModel Model   // a-priori model, optional
	Aux     *Trace  // auxiliary data, optional
}

// Trace is an auxiliary (depth, value) curve, such as a resistivity log.
type Trace struct {
	Depth []float64
	Value []float64
}

// SectionResult reports the stations left out of a section.
type SectionResult struct {
	Skipped []int
}

// SectionPlot draws the models of a profile as a row of narrow panels,
// one per station, evenly spaced across the figure.
// Layout values are fractions of the figure size.
type SectionPlot struct {
	Parameters    []string   `toml:"parameters"`
	Titles        Titles     `toml:"titles"`
	TitleType     string     `toml:"title_type"`     // single or multiple
	StationTitles []string   `toml:"station_titles"` // used by the multiple title type
	XLim          Limits     `toml:"xlim"`
	YLim          [2]float64 `toml:"ylim"`
	DepthLabel    string     `toml:"depth_label"`
	ModelNo       int        `toml:"modelno"`
	PlotInModel   bool       `toml:"plot_inmodel"`
	AxWidth       float64    `toml:"ax_width"`
	AxHeight      float64    `toml:"ax_height"`
	AxBottom      float64    `toml:"ax_bottom"`
	PlotSpacing   float64    `toml:"plot_spacing"`
	TwinOffset    float64    `toml:"twin_offset"` // distance between stacked x-axes
	Horizons      []string   `toml:"horizons"`
	HorizonZScale string     `toml:"horizon_zscale"`
	Output        string     `toml:"output"`
	Fonts         Fonts      `toml:"fonts"`
}

// NewSectionPlot returns a SectionPlot with default settings.
func NewSectionPlot() SectionPlot {
	return SectionPlot{
		Parameters: []string{string(MinMax)},
		Titles: Titles{
			MinMax: "Minimum and maximum resistivity, ohm-m",
			Aniso:  "Anisotropy in resistivity",
			Strike: "Strike angle of minimum resistivity",
		},
		TitleType:     "single",
		XLim:          defaultLimits,
		YLim:          [2]float64{6, 0},
		DepthLabel:    "Depth, km",
		PlotInModel:   true,
		AxWidth:       0.03,
		AxHeight:      0.65,
		AxBottom:      0.25,
		PlotSpacing:   0.02,
		TwinOffset:    0.1,
		HorizonZScale: "km",
		Fonts:         defaultFonts,
	}
}

// OutputFilename returns the configured output file name, or one derived
// from the working directory and the parameters.
func (sp SectionPlot) OutputFilename(workdir, ext string) string {
	if sp.Output != "" {
		return sp.Output
	}
	return OutputFilename(workdir, sp.Parameters, ext)
}

// Slots returns the left edge of every station panel, as a fraction of
// the figure width.
func (sp SectionPlot) Slots(n int) []float64 {
	if n <= 0 {
		return nil
	}
	xs := make([]float64, n)
	if n > 1 {
		floats.Span(xs, 0, 1-2.5*sp.AxWidth-sp.PlotSpacing)
	}
	floats.AddConst(sp.AxWidth+sp.PlotSpacing, xs)
	return xs
}

// Plot draws one panel per site. Sites whose model cannot be drawn are
// reported, left out and listed in the result.
// elev is only used when horizons are configured.
func (sp SectionPlot) Plot(dc draw.Canvas, sites []Site, elev Elevator) (SectionResult, error) {
	var res SectionResult

	params := sp.parameters()
	if len(params) == 0 {
		return res, errors.Wrap(ErrParameter, "pek1d: no valid parameter to plot")
	}
	if len(sp.Horizons) > 0 && elev == nil {
		return res, errors.Wrap(ErrMissing, "pek1d: horizons requested without elevation data")
	}

	slots := sp.Slots(len(sites))
	leftmost := true
	for i, site := range sites {
		pp, err := sp.panel(site, params, leftmost, elev)
		if err != nil {
			log.Printf("station %d (%s) omitted: %v", i, site.Name, err)
			res.Skipped = append(res.Skipped, i)
			continue
		}
		x := slots[i]
		pp.draw(dc, sp, x)
		sp.title(dc, i, site, params, x, leftmost)
		leftmost = false
	}
	return res, nil
}

func (sp SectionPlot) parameters() []Parameter {
	var ps []Parameter
	for _, name := range sp.Parameters {
		p, err := ParseParameter(name)
		if err != nil {
			log.Printf("%v", err)
			continue
		}
		ps = append(ps, p)
	}
	return ps
}

// panelPlots holds the plots making up one station panel.
// The first parameter owns the panel. Every other parameter has a plot
// with its traces over the same data area and a plot carrying its own
// x-axis, further down.
type panelPlots struct {
	main  *hplot.Plot
	twins []*hplot.Plot
	axes  []*hplot.Plot
}

func (pp panelPlots) draw(dc draw.Canvas, sp SectionPlot, x float64) {
	rect := sub(dc, x, sp.AxBottom, x+sp.AxWidth, sp.AxBottom+sp.AxHeight)
	pp.main.Draw(outer(pp.main.Plot, rect))
	for k, tw := range pp.twins {
		tw.Draw(outer(tw.Plot, rect))
		off := float64(k+1) * sp.TwinOffset
		shifted := sub(dc, x, sp.AxBottom-off, x+sp.AxWidth, sp.AxBottom+sp.AxHeight-off)
		ax := pp.axes[k]
		ax.Draw(outer(ax.Plot, shifted))
	}
}

func (sp SectionPlot) panel(site Site, params []Parameter, leftmost bool, elev Elevator) (panelPlots, error) {
	var pp panelPlots

	m, err := SelectModel(site.Models, sp.ModelNo)
	if err != nil {
		return pp, err
	}
	datasets := []Model{m}
	if sp.PlotInModel && len(site.InModel) > 0 {
		datasets = append(datasets, site.InModel)
	}

	for k, param := range params {
		clr, width := color.Color(color.Black), vg.Points(1)
		if k > 0 {
			clr, width = color.RGBA{B: 255, A: 255}, vg.Points(0.5)
		}
		p, err := sp.panelPlot(param, datasets, clr, width, leftmost)
		if err != nil {
			return pp, errors.Wrapf(err, "pek1d: parameter %q", param)
		}
		if k == 0 {
			p.Add(hplot.NewGrid())
			pp.main = p
			continue
		}
		ghost(p.Plot, true, true)
		pp.twins = append(pp.twins, p)

		ax, err := sp.panelPlot(param, nil, clr, width, leftmost)
		if err != nil {
			return pp, errors.Wrapf(err, "pek1d: parameter %q", param)
		}
		ghost(ax.Plot, false, true)
		pp.axes = append(pp.axes, ax)
	}

	xlim := sp.XLim.For(params[0])
	for j, h := range sp.Horizons {
		z, err := elev.Elevation(site.X, site.Y, h)
		if err != nil {
			return pp, errors.Wrapf(err, "pek1d: horizon %q", h)
		}
		z = updateScale(z, sp.HorizonZScale)
		l, err := hplot.NewLine(plotter.XYs{{X: xlim[0], Y: z}, {X: xlim[1], Y: z}})
		if err != nil {
			return pp, errors.Wrapf(err, "pek1d: horizon %q", h)
		}
		l.LineStyle.Color = plotutil.Color(j)
		pp.main.Add(l)
	}

	if site.Aux != nil {
		xs, ys := site.Aux.Value, site.Aux.Depth
		if len(xs) != len(ys) {
			return pp, errors.Wrapf(ErrLength, "pek1d: auxiliary trace value=%d, depth=%d", len(xs), len(ys))
		}
		if params[0] == MinMax {
			xs, ys = positive(xs, ys)
		}
		if len(xs) > 0 {
			l, err := hplot.NewLine(hplot.ZipXY(xs, ys))
			if err != nil {
				return pp, errors.Wrap(err, "pek1d: auxiliary trace")
			}
			l.LineStyle.Color = plotutil.Color(len(sp.Horizons))
			l.LineStyle.Width = vg.Points(0.5)
			pp.main.Add(l)
		}
	}

	// data ranges grow with each added plotter.
	depthAxis(pp.main.Plot, sp.YLim)
	valueAxis(pp.main.Plot, params[0], xlim)
	pp.main.X.Tick.Marker = limitTicks(xlim[0], xlim[1])

	return pp, nil
}

// panelPlot returns the plot of one parameter of a station panel, with
// its x-axis drawn in clr.
func (sp SectionPlot) panelPlot(param Parameter, datasets []Model, clr color.Color, width vg.Length, leftmost bool) (*hplot.Plot, error) {
	xlim := sp.XLim.For(param)
	if err := checkLimits(param, xlim); err != nil {
		return nil, err
	}

	p := newPlot(sp.Fonts)
	for k, m := range datasets {
		lines, err := parameterLines(m, param, clr, width/vg.Length(int(1)<<k))
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			p.Add(l)
		}
	}

	depthAxis(p.Plot, sp.YLim)
	valueAxis(p.Plot, param, xlim)
	p.X.Tick.Marker = limitTicks(xlim[0], xlim[1])
	p.X.Tick.Length = vg.Points(4)
	rotateX(p.Plot)

	p.X.LineStyle.Color = clr
	p.X.Tick.LineStyle.Color = clr
	p.X.Tick.Label.Color = clr

	if leftmost {
		p.Y.Label.Text = sp.DepthLabel
	} else {
		p.Y.Tick.Label.Color = color.Transparent
	}
	return p, nil
}

func (sp SectionPlot) title(dc draw.Canvas, i int, site Site, params []Parameter, x float64, leftmost bool) {
	var (
		sty  = sp.Fonts.textStyle(sp.Fonts.Title)
		rect = sub(dc, x, sp.AxBottom, x+sp.AxWidth, sp.AxBottom+sp.AxHeight)
		pt   = vg.Point{X: rect.Min.X, Y: rect.Max.Y + vg.Points(4)}
		txt  string
	)
	switch sp.TitleType {
	case "multiple":
		txt = site.Name
		if i < len(sp.StationTitles) {
			txt = sp.StationTitles[i]
		}
		sty.XAlign = draw.XCenter
		pt.X = rect.Center().X
	default:
		if !leftmost {
			return
		}
		titles := make([]string, len(params))
		for j, p := range params {
			titles[j] = sp.Titles.For(p)
		}
		txt = strings.Join(titles, " and ")
	}
	if txt == "" {
		return
	}
	dc.FillText(sty, pt, txt)
}

// LocationMap draws all stations in grey, the profile fitted through
// the profile stations, and the profile stations in black.
func (sp SectionPlot) LocationMap(dc draw.Canvas, all, profile []Station) error {
	if len(profile) == 0 {
		return errors.Wrap(ErrMissing, "pek1d: no profile station locations")
	}
	line, origin, _, err := Geometry(profile)
	if err != nil {
		return errors.Wrap(err, "pek1d: could not compute profile")
	}

	p := newPlot(sp.Fonts)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if len(all) > 0 {
		s, err := stationScatter(all, color.Gray{Y: 128})
		if err != nil {
			return err
		}
		p.Add(s)
	}

	xs, ys := stationXY(profile)
	x1, y1 := ProfileEnd(line, xs, ys)
	l, err := hplot.NewLine(plotter.XYs{{X: origin[0], Y: origin[1]}, {X: x1, Y: y1}})
	if err != nil {
		return errors.Wrap(err, "pek1d: could not create profile line")
	}
	l.LineStyle.Color = color.Black
	p.Add(l)

	s, err := stationScatter(profile, color.Black)
	if err != nil {
		return err
	}
	p.Add(s)

	p.Draw(dc)
	return nil
}

func stationScatter(stations []Station, clr color.Color) (*plotter.Scatter, error) {
	xs, ys := stationXY(stations)
	s, err := plotter.NewScatter(hplot.ZipXY(xs, ys))
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not create station scatter")
	}
	s.GlyphStyle.Color = clr
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(1.5)
	return s, nil
}
