// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MaxInterfaces is the largest number of interface surfaces
// PlotAnisoAndInterfaces can lay out.
const MaxInterfaces = 3

// MapPlot draws interpolated surfaces in map view, with optional
// anisotropy glyphs.
//
// Contour levels computed on first use are kept in Levels and reused by
// later calls until ClearLevels is called.
type MapPlot struct {
	Levels                  []float64  `toml:"levels"`
	NLevels                 int        `toml:"n_levels"`
	EScale                  float64    `toml:"escale"` // glyph size, in map units
	AnisotropyThreshold     [2]float64 `toml:"anisotropy_threshold"`
	Cmap                    string     `toml:"cmap"`
	ScaleBy                 string     `toml:"scaleby"` // resmin or anisotropy
	AnisotropyDisplayFactor float64    `toml:"anisotropy_display_factor"`
	XLim                    []float64  `toml:"xlim"`
	YLim                    []float64  `toml:"ylim"`
	ColorBar                bool       `toml:"cbar"`
	IMethod                 string     `toml:"imethod"`
	ScaleBar                bool       `toml:"scalebar"`
	NX                      int        `toml:"nx"`
	NY                      int        `toml:"ny"`
	Output                  string     `toml:"output"`
	Fonts                   Fonts      `toml:"fonts"`
}

// NewMapPlot returns a MapPlot with default settings.
func NewMapPlot() MapPlot {
	return MapPlot{
		NLevels:                 10,
		EScale:                  0.001,
		AnisotropyThreshold:     [2]float64{1, 100},
		Cmap:                    "jet_r",
		ScaleBy:                 "resmin",
		AnisotropyDisplayFactor: 0.75,
		ColorBar:                true,
		IMethod:                 "linear",
		ScaleBar:                true,
		NX:                      20,
		NY:                      50,
		Fonts:                   defaultFonts,
	}
}

// ClearLevels drops the cached contour levels.
func (mp *MapPlot) ClearLevels() { mp.Levels = nil }

// PlotInterface grids the (x, y, z) samples and draws them as filled
// contours. z is converted with UpdateScale.
func (mp *MapPlot) PlotInterface(dc draw.Canvas, x, y, z []float64, scale string) error {
	p, err := mp.interfacePlot(x, y, z, scale)
	if err != nil {
		return err
	}
	return mp.draw(dc, p, mp.ColorBar, "", levelTicks(mp.Levels))
}

// PlotAnisoDepthMap draws the depth surface of an anisotropy file with
// one glyph per sample. Samples with an anisotropy at or below the low
// threshold are dropped; anisotropy above the high threshold is clamped.
func (mp *MapPlot) PlotAnisoDepthMap(dc draw.Canvas, s Surface, scale string) error {
	p, err := mp.anisoPlot(s, scale)
	if err != nil {
		return err
	}
	return mp.draw(dc, p, mp.ColorBar, "", levelTicks(mp.Levels))
}

// PlotAnisoAndInterfaces draws an anisotropy depth map and up to three
// interface surfaces side by side, on a shared depth color scale.
// scales holds the z scales of the anisotropy and of the interface files.
func (mp *MapPlot) PlotAnisoAndInterfaces(dc draw.Canvas, aniso Surface, interfaces []Surface, scales [2]string) error {
	switch n := len(interfaces); {
	case n == 0:
		return errors.Wrap(ErrMissing, "pek1d: no interface surface")
	case n > MaxInterfaces:
		return errors.Wrapf(ErrTooManyInterfaces, "pek1d: got %d interfaces, max is %d", n, MaxInterfaces)
	}

	levels, err := sharedLevels(aniso, interfaces, scales, mp.NLevels)
	if err != nil {
		return err
	}
	mp.Levels = levels

	var (
		area  = sub(dc, 0, 0, 0.86, 1)
		tiles = draw.Tiles{Rows: 2, Cols: 1, PadX: vg.Points(5), PadY: vg.Points(5)}
		pos   [][2]int // tile of each interface
		xlbl  []bool
		ylbl  []bool
	)
	switch len(interfaces) {
	case 1:
		pos = [][2]int{{0, 1}}
		xlbl, ylbl = []bool{true}, []bool{true}
	case 2:
		tiles.Rows = 3
		pos = [][2]int{{0, 1}, {0, 2}}
		xlbl, ylbl = []bool{false, true}, []bool{true, true}
	case 3:
		tiles.Cols = 2
		pos = [][2]int{{1, 0}, {0, 1}, {1, 1}}
		xlbl, ylbl = []bool{false, true, true}, []bool{false, true, false}
	}

	p, err := mp.anisoPlot(aniso, scales[0])
	if err != nil {
		return errors.Wrap(err, "pek1d: anisotropy map")
	}
	p.X.Tick.Label.Color = color.Transparent
	if err := mp.draw(tiles.At(area, 0, 0), p, false, "", nil); err != nil {
		return err
	}

	for i, s := range interfaces {
		p, err := mp.interfacePlot(s.X, s.Y, s.Z, scales[1])
		if err != nil {
			return errors.Wrapf(err, "pek1d: interface %d", i)
		}
		if !xlbl[i] {
			p.X.Tick.Label.Color = color.Transparent
		}
		if !ylbl[i] {
			p.Y.Tick.Label.Color = color.Transparent
		}
		if err := mp.draw(tiles.At(area, pos[i][0], pos[i][1]), p, false, "", nil); err != nil {
			return err
		}
	}

	if mp.ColorBar {
		lo, hi := levels[0], levels[len(levels)-1]
		var ticks plot.ConstantTicks
		for v := math.Trunc(lo); v <= math.Trunc(hi); v++ {
			ticks = append(ticks, plot.Tick{Value: v, Label: tickLabel(v)})
		}
		err = mp.colorBar(sub(dc, 0.88, 0.1, 0.96, 0.9), "Depth, km", ticks)
		if err != nil {
			return err
		}
	}
	return nil
}

// FigureAspect returns the height/width ratio of the figure drawn by
// PlotAnisoAndInterfaces for the given surface and number of interfaces.
func FigureAspect(aniso Surface, n int) (float64, error) {
	if aniso.Len() == 0 {
		return 0, errors.Wrap(ErrMissing, "pek1d: empty anisotropy surface")
	}
	rows, cols := 2.0, 1.0
	switch {
	case n == 2:
		rows = 3
	case n >= 3:
		cols = 2
	}
	dx := floats.Max(aniso.X) - floats.Min(aniso.X)
	dy := floats.Max(aniso.Y) - floats.Min(aniso.Y)
	if dx == 0 {
		return 0, errors.Wrap(ErrDegenerate, "pek1d: surface has no x extent")
	}
	return math.Pow(rows/cols*dy/dx, 0.9), nil
}

func (mp *MapPlot) interfacePlot(x, y, z []float64, scale string) (*hplot.Plot, error) {
	if len(x) != len(y) || len(x) != len(z) {
		return nil, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d, z=%d", len(x), len(y), len(z))
	}
	if len(x) == 0 {
		return nil, errors.Wrap(ErrMissing, "pek1d: no location data")
	}
	method, err := ParseMethod(mp.IMethod)
	if err != nil {
		return nil, err
	}
	mesh, err := surfaceMesh(x, y, mp.NX, mp.NY, method)
	if err != nil {
		return nil, err
	}
	g, err := Interpolate(x, y, UpdateScale(z, scale), method, mesh)
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not grid surface")
	}

	if mp.Levels == nil {
		lo, hi, ok := g.Range()
		if !ok {
			return nil, errors.Wrap(ErrMissing, "pek1d: no finite grid value")
		}
		mp.Levels = AutoLevels(lo, hi)
	}
	if len(mp.Levels) < 2 {
		return nil, errors.Wrapf(ErrParameter, "pek1d: need at least 2 contour levels (got %d)", len(mp.Levels))
	}

	pal, err := NewPalette(mp.Cmap, len(mp.Levels)-1)
	if err != nil {
		return nil, err
	}

	p := newPlot(mp.Fonts)
	hm := newBandMap(g, mp.Levels, pal)
	p.Add(hm)

	// cells are centred on the nodes.
	p.X.Min, p.X.Max, p.Y.Min, p.Y.Max = hm.DataRange()
	if err := mp.limits(p.Plot); err != nil {
		return nil, err
	}
	return p, nil
}

func (mp *MapPlot) anisoPlot(s Surface, scale string) (*hplot.Plot, error) {
	if !s.HasAnisotropy() {
		return nil, errors.Wrap(ErrMissing, "pek1d: surface has no anisotropy columns")
	}
	aniso, err := Anisotropy(s.ResMin, s.ResMax)
	if err != nil {
		return nil, err
	}

	var keep Surface
	var kaniso []float64
	for i, a := range aniso {
		if a <= mp.AnisotropyThreshold[0] {
			continue
		}
		keep.X = append(keep.X, s.X[i])
		keep.Y = append(keep.Y, s.Y[i])
		keep.Z = append(keep.Z, s.Z[i])
		keep.ResMin = append(keep.ResMin, s.ResMin[i])
		keep.ResMax = append(keep.ResMax, s.ResMax[i])
		keep.Strike = append(keep.Strike, s.Strike[i])
		kaniso = append(kaniso, a)
	}
	if keep.Len() == 0 {
		return nil, errors.Wrapf(ErrMissing, "pek1d: no sample above anisotropy threshold %v", mp.AnisotropyThreshold[0])
	}
	kaniso = ClampAnisotropy(kaniso, mp.AnisotropyThreshold[1])

	p, err := mp.interfacePlot(keep.X, keep.Y, keep.Z, scale)
	if err != nil {
		return nil, err
	}
	xmin, xmax := p.X.Min, p.X.Max
	ymin, ymax := p.Y.Min, p.Y.Max

	sizes, err := GlyphSizes(keep.ResMin, kaniso, mp.ScaleBy, mp.AnisotropyDisplayFactor)
	if err != nil {
		return nil, err
	}
	glyphs, err := AnisotropyGlyphs(keep.X, keep.Y, sizes, keep.Strike, mp.EScale)
	if err != nil {
		return nil, err
	}
	for _, g := range glyphs {
		p.Add(g)
	}

	stations, err := plotter.NewScatter(hplot.ZipXY(keep.X, keep.Y))
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not create station markers")
	}
	stations.GlyphStyle.Shape = draw.CircleGlyph{}
	stations.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	stations.GlyphStyle.Radius = vg.Points(2)
	p.Add(stations)

	// the glyphs and markers extend the data range.
	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min, p.Y.Max = ymin, ymax

	if mp.ScaleBar {
		size := math.Round(floats.Max(sizes))
		sx := p.X.Min + 0.02*(p.X.Max-p.X.Min)
		sy := p.Y.Max - 0.02*(p.Y.Max-p.Y.Min)
		bar, err := filledRectangle(Rectangle(sx, sy, mp.EScale*size, mp.EScale, 0))
		if err != nil {
			return nil, err
		}
		bar.LineStyle = draw.LineStyle{Color: color.Black, Width: vg.Points(1)}
		p.Add(bar)

		lbl, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: sx, Y: sy + 0.005*(p.Y.Max-p.Y.Min) + mp.EScale}},
			Labels: []string{fmt.Sprintf("anisotropy = %d", int(size))},
		})
		if err != nil {
			return nil, errors.Wrap(err, "pek1d: could not create scale bar label")
		}
		lbl.TextStyle[0] = mp.Fonts.textStyle(8)
		p.Add(lbl)

		p.X.Min, p.X.Max = xmin, xmax
		p.Y.Min, p.Y.Max = ymin, ymax
	}
	return p, nil
}

// limits applies the configured x and y limits to p.
func (mp *MapPlot) limits(p *plot.Plot) error {
	for _, l := range []struct {
		name string
		lim  []float64
		ax   *plot.Axis
	}{
		{"xlim", mp.XLim, &p.X},
		{"ylim", mp.YLim, &p.Y},
	} {
		switch len(l.lim) {
		case 0:
		case 2:
			l.ax.Min, l.ax.Max = l.lim[0], l.lim[1]
		default:
			return errors.Wrapf(ErrParameter, "pek1d: %s needs 2 values (got %d)", l.name, len(l.lim))
		}
	}
	return nil
}

// draw draws p in dc with equal x and y scales, and the color bar on
// the right when cbar is set.
func (mp *MapPlot) draw(dc draw.Canvas, p *hplot.Plot, cbar bool, label string, ticks plot.Ticker) error {
	area := dc
	if cbar {
		area = sub(dc, 0, 0, 0.85, 1)
		err := mp.colorBar(sub(dc, 0.87, 0.05, 0.97, 0.95), label, ticks)
		if err != nil {
			return err
		}
	}
	equalAspect(p.Plot, area)
	p.Draw(area)
	return nil
}

func (mp *MapPlot) colorBar(dc draw.Canvas, label string, ticks plot.Ticker) error {
	pal, err := NewPalette(mp.Cmap, len(mp.Levels)-1)
	if err != nil {
		return err
	}
	return colorBar(dc, mp.Fonts, mp.Levels, pal, label, ticks)
}

// colorBar draws one colored band per pair of consecutive levels, using
// the first len(levels)-1 colors of pal.
func colorBar(dc draw.Canvas, f Fonts, levels []float64, pal palette.Palette, label string, ticks plot.Ticker) error {
	cs := pal.Colors()
	if len(levels) < 2 || len(cs) < len(levels)-1 {
		return errors.Wrapf(ErrParameter, "pek1d: %d colors for %d levels", len(cs), len(levels))
	}
	p := newPlot(f)
	for k := range levels[:len(levels)-1] {
		band, err := plotter.NewPolygon(plotter.XYs{
			{X: 0, Y: levels[k]}, {X: 1, Y: levels[k]},
			{X: 1, Y: levels[k+1]}, {X: 0, Y: levels[k+1]},
		})
		if err != nil {
			return errors.Wrap(err, "pek1d: could not create color bar")
		}
		band.Color = cs[k]
		band.LineStyle.Width = 0
		p.Add(band)
	}
	p.HideX()
	p.X.Padding = 0
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = levels[0], levels[len(levels)-1]
	p.Y.Label.Text = label
	if ticks != nil {
		p.Y.Tick.Marker = ticks
	}
	p.Draw(dc)
	return nil
}

// AutoLevels returns evenly spaced round contour levels covering [lo, hi].
func AutoLevels(lo, hi float64) []float64 {
	if !(hi > lo) {
		return []float64{lo - 0.5, lo + 0.5}
	}
	var major []float64
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if !t.IsMinor() {
			major = append(major, t.Value)
		}
	}
	if len(major) < 2 {
		return floats.Span(make([]float64, 2), lo, hi)
	}
	step := major[1] - major[0]
	for major[0] > lo {
		major = append([]float64{major[0] - step}, major...)
	}
	for major[len(major)-1] < hi {
		major = append(major, major[len(major)-1]+step)
	}
	return major
}

// sharedLevels returns n levels spanning the scaled depths of all surfaces.
func sharedLevels(aniso Surface, interfaces []Surface, scales [2]string, n int) ([]float64, error) {
	if n < 2 {
		return nil, errors.Wrapf(ErrParameter, "pek1d: need at least 2 contour levels (got %d)", n)
	}
	if aniso.Len() == 0 {
		return nil, errors.Wrap(ErrMissing, "pek1d: empty anisotropy surface")
	}
	z := UpdateScale(aniso.Z, scales[0])
	lo, hi := floats.Min(z), floats.Max(z)
	for i, s := range interfaces {
		if s.Len() == 0 {
			return nil, errors.Wrapf(ErrMissing, "pek1d: empty interface %d", i)
		}
		z := UpdateScale(s.Z, scales[1])
		lo = math.Min(lo, floats.Min(z))
		hi = math.Max(hi, floats.Max(z))
	}
	if !(hi > lo) {
		return nil, errors.Wrapf(ErrDegenerate, "pek1d: flat depth range [%v, %v]", lo, hi)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

func levelTicks(levels []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(levels))
	for i, v := range levels {
		ticks[i] = plot.Tick{Value: v, Label: tickLabel(v)}
	}
	return ticks
}

// equalAspect widens the x or y range of p so that one unit has the same
// length on both axes when p is drawn in c.
func equalAspect(p *plot.Plot, c draw.Canvas) {
	da := p.DataCanvas(c)
	var (
		w  = float64(da.Max.X - da.Min.X)
		h  = float64(da.Max.Y - da.Min.Y)
		dx = p.X.Max - p.X.Min
		dy = p.Y.Max - p.Y.Min
	)
	if w <= 0 || h <= 0 || dx <= 0 || dy <= 0 {
		return
	}
	ux, uy := dx/w, dy/h
	switch {
	case ux > uy:
		pad := (ux*h - dy) / 2
		p.Y.Min -= pad
		p.Y.Max += pad
	case uy > ux:
		pad := (uy*w - dx) / 2
		p.X.Min -= pad
		p.X.Max += pad
	}
}

// bandMap is a heat map of the contour band each grid node falls in.
type bandMap struct {
	g      *Grid
	levels []float64
}

func newBandMap(g *Grid, levels []float64, pal palette.Palette) *plotter.HeatMap {
	bands := len(levels) - 1
	hm := plotter.NewHeatMap(bandMap{g: g, levels: levels}, pal)
	hm.Min = 0
	hm.Max = float64(bands - 1)
	if bands == 1 {
		c := pal.Colors()[0]
		hm.Palette = colors{c, c}
		hm.Max = 1
	}
	hm.Underflow = nil
	hm.Overflow = nil
	hm.NaN = nil
	return hm
}

func (b bandMap) Dims() (c, r int) { return b.g.Dims() }
func (b bandMap) X(c int) float64  { return b.g.X(c) }
func (b bandMap) Y(r int) float64  { return b.g.Y(r) }

// Z returns the band index of the node, -1 below the first level, the
// number of bands above the last level and NaN for missing nodes.
func (b bandMap) Z(c, r int) float64 {
	v := b.g.Z(c, r)
	if math.IsNaN(v) {
		return v
	}
	return float64(Band(b.levels, v))
}

// Band returns the index k of the band levels[k] <= v < levels[k+1].
// The last level belongs to the last band. Values below the first level
// give -1, values above the last one give len(levels)-1.
func Band(levels []float64, v float64) int {
	n := len(levels)
	switch {
	case v < levels[0]:
		return -1
	case v > levels[n-1]:
		return n - 1
	case v == levels[n-1]:
		return n - 2
	}
	i := sort.SearchFloat64s(levels, v)
	if levels[i] == v {
		return i
	}
	return i - 1
}

var (
	_ plotter.GridXYZ = bandMap{}
)
