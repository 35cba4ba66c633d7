// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/plotter"
)

// Rectangle returns the corners of a w×h rectangle anchored at (x, y)
// and rotated by angle degrees, counter-clockwise, around the anchor.
func Rectangle(x, y, w, h, angle float64) plotter.XYs {
	var (
		rad    = angle * math.Pi / 180
		sin    = math.Sin(rad)
		cos    = math.Cos(rad)
		corner = [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}}
		xys    = make(plotter.XYs, len(corner))
	)
	for i, c := range corner {
		xys[i].X = x + c[0]*cos - c[1]*sin
		xys[i].Y = y + c[0]*sin + c[1]*cos
	}
	return xys
}

// GlyphSizes returns the glyph length factor of every sample.
// scaleBy "resmin" gives 1/resmin, any other value gives
// aniso^factor.
func GlyphSizes(resmin, aniso []float64, scaleBy string, factor float64) ([]float64, error) {
	if len(resmin) != len(aniso) {
		return nil, errors.Wrapf(ErrLength, "pek1d: resmin=%d, aniso=%d", len(resmin), len(aniso))
	}
	out := make([]float64, len(aniso))
	for i := range out {
		switch scaleBy {
		case "resmin":
			if resmin[i] == 0 {
				return nil, errors.Wrapf(ErrNonFinite, "pek1d: zero minimum resistivity at row %d", i)
			}
			out[i] = 1 / resmin[i]
		default:
			out[i] = math.Pow(aniso[i], factor)
		}
		if !isFinite(out[i]) {
			return nil, errors.Wrapf(ErrNonFinite, "pek1d: glyph size at row %d", i)
		}
	}
	return out, nil
}

// AnisotropyGlyphs returns one filled rectangle per sample: escale*size
// long, escale wide, rotated so that it points along the strike.
func AnisotropyGlyphs(xs, ys, sizes, strikes []float64, escale float64) ([]*plotter.Polygon, error) {
	n := len(xs)
	if len(ys) != n || len(sizes) != n || len(strikes) != n {
		return nil, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d, size=%d, strike=%d", n, len(ys), len(sizes), len(strikes))
	}
	glyphs := make([]*plotter.Polygon, 0, n)
	for i := range xs {
		g, err := filledRectangle(Rectangle(xs[i], ys[i], escale*sizes[i], escale, 90-strikes[i]))
		if err != nil {
			return nil, errors.Wrapf(err, "pek1d: glyph %d", i)
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

func filledRectangle(xys plotter.XYs) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(xys)
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not create polygon")
	}
	poly.Color = color.Black
	poly.LineStyle.Width = 0
	return poly, nil
}
