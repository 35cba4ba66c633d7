// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

// testFit returns a 3x3 suite of runs over the penalty plane.
func testFit() Fit {
	fit := Fit{MisfitThreshold: DefaultMisfitThreshold}
	for i, ws := range []float64{1, 10, 100} {
		for j, wa := range []float64{1, 10, 100} {
			s := 1 - 0.4*float64(i)
			a := 1 - 0.4*float64(j)
			fit.PenaltyStructure = append(fit.PenaltyStructure, s)
			fit.PenaltyAnisotropy = append(fit.PenaltyAnisotropy, a)
			fit.Misfit = append(fit.Misfit, 1+float64(i)+0.5*float64(j))
			fit.WeightStructure = append(fit.WeightStructure, ws)
			fit.WeightAnisotropy = append(fit.WeightAnisotropy, wa)
		}
	}
	return fit
}

func TestContourLevels(t *testing.T) {
	levels, err := ContourLevels(0.5, 1.04, 3.2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 2, 2.5, 3}, levels)

	levels, err = ContourLevels(2, 0.4, 9.6)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, levels)

	_, err = ContourLevels(0, 1, 2)
	assert.True(t, errors.Is(err, ErrParameter))

	_, err = ContourLevels(1, 5, 5)
	assert.True(t, errors.Is(err, ErrDegenerate))
}

func TestContourThreshold(t *testing.T) {
	assert.Equal(t, 1.36, ContourThreshold([]float64{2, 1.234, 3}, 1.1))
	assert.Equal(t, 2.0, ContourThreshold([]float64{2}, 1))
}

func TestLCurveMask(t *testing.T) {
	fit := Fit{
		WeightStructure:  []float64{1, 1, 2, 1.0005},
		WeightAnisotropy: []float64{1, 5, 1, 7},
	}

	idx, err := LCurveMask(fit, "anisotropy", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, idx)

	idx, err = LCurveMask(fit, "structure", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, idx)

	_, err = LCurveMask(fit, "misfit", 1)
	assert.True(t, errors.Is(err, ErrParameter))

	_, err = LCurveMask(fit, "structure", 3)
	assert.True(t, errors.Is(err, ErrMissing))
}

func TestPlotLCurveContourMap(t *testing.T) {
	_, dc := NewFigure(15*vg.Centimeter, 12*vg.Centimeter)
	fp := NewFitPlot()
	fit := testFit()

	require.NoError(t, fp.PlotLCurveContourMap(dc, fit, ContourOptions{}))
	require.NoError(t, fp.PlotLCurveContourMap(dc, fit, ContourOptions{
		DrawThreshold: true,
		XLim:          []float64{0, 0.8},
		YLim:          []float64{0, 0.8},
		ContourStep:   0.5,
	}))

	fp.IMethod = "nearest"
	fp.Symbol = "s"
	require.NoError(t, fp.PlotLCurveContourMap(dc, fit, ContourOptions{ContourStep: 1}))

	err := fp.PlotLCurveContourMap(dc, fit, ContourOptions{XLim: []float64{1, 2, 3}})
	assert.True(t, errors.Is(err, ErrParameter), "got %v", err)

	fp.Symbol = "?"
	err = fp.PlotLCurveContourMap(dc, fit, ContourOptions{})
	assert.True(t, errors.Is(err, ErrParameter), "got %v", err)

	fit.Misfit = fit.Misfit[1:]
	err = NewFitPlot().PlotLCurveContourMap(dc, fit, ContourOptions{})
	assert.True(t, errors.Is(err, ErrLength), "got %v", err)
}

func TestPlotLCurve(t *testing.T) {
	_, dc := NewFigure(12*vg.Centimeter, 10*vg.Centimeter)
	fit := testFit()

	for _, colorby := range []string{"", "misfit", "penalty_weight", "log_penalty_weight"} {
		fp := NewFitPlot()
		fp.ColorBy = colorby
		fp.NormaliseMisfit = true
		assert.NoError(t, fp.PlotLCurve(dc, fit, "structure", 10), "colorby=%q", colorby)
		assert.NoError(t, fp.PlotLCurve(dc, fit, "anisotropy", 100), "colorby=%q", colorby)
	}

	fp := NewFitPlot()
	fp.ColorBy = "depth"
	err := fp.PlotLCurve(dc, fit, "structure", 10)
	assert.True(t, errors.Is(err, ErrParameter), "got %v", err)

	fp = NewFitPlot()
	fp.NormaliseX = true
	assert.NoError(t, fp.PlotLCurve(dc, fit, "structure", 1))

	fit.PenaltyStructure[0] = 0
	err = fp.PlotLCurve(dc, fit, "structure", 1)
	assert.True(t, errors.Is(err, ErrNonFinite), "got %v", err)

	_, err = normalise([]float64{0, 1})
	assert.True(t, errors.Is(err, ErrNonFinite))
}

func TestBlankMask(t *testing.T) {
	mesh, err := NewMesh(0, 1, 2, 0, 1, 2)
	require.NoError(t, err)

	assert.Nil(t, blankMask(&Grid{Mesh: mesh, Zs: []float64{1, 2, 3, 4}}))

	g := &Grid{Mesh: mesh, Zs: []float64{1, math.NaN(), 3, 4}}
	hm := blankMask(g)
	require.NotNil(t, hm)
	assert.Equal(t, 0.0, hm.GridXYZ.Z(0, 0))
	assert.Equal(t, 1.0, hm.GridXYZ.Z(1, 0))
	assert.Equal(t, 0.0, hm.GridXYZ.Z(0, 1))
	assert.True(t, math.IsNaN(g.Z(1, 0)), "grid must not be modified")
}
