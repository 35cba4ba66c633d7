// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func testSites() []Site {
	return []Site{
		{Station: Station{Name: "s1", X: 0, Y: 0}, Models: []Model{testModel()}, InModel: testModel()[:3]},
		{Station: Station{Name: "s2", X: 1, Y: 1}},
		{
			Station: Station{Name: "s3", X: 2, Y: 2},
			Models:  []Model{testModel(), testModel()},
			Aux:     &Trace{Depth: []float64{0, 1, 3}, Value: []float64{10, 50, 200}},
		},
	}
}

func TestSectionSlots(t *testing.T) {
	sp := NewSectionPlot()
	assert.Nil(t, sp.Slots(0))
	assert.InDeltaSlice(t, []float64{0.05}, sp.Slots(1), 1e-12)

	xs := sp.Slots(4)
	require.Len(t, xs, 4)
	assert.InDelta(t, sp.AxWidth+sp.PlotSpacing, xs[0], 1e-12)
	step := xs[1] - xs[0]
	for i := 2; i < len(xs); i++ {
		assert.InDelta(t, step, xs[i]-xs[i-1], 1e-12, "even spacing")
	}
	assert.True(t, xs[3]+sp.AxWidth <= 1)
}

func TestSectionPlot(t *testing.T) {
	sp := NewSectionPlot()
	sp.Parameters = []string{"minmax", "aniso", "strike"}
	_, dc := NewFigure(30*vg.Centimeter, 15*vg.Centimeter)

	res, err := sp.Plot(dc, testSites(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Skipped)

	sp.PlotInModel = true
	res, err = sp.Plot(dc, testSites(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Skipped)

	sp.TitleType = "multiple"
	sp.StationTitles = []string{"first"}
	res, err = sp.Plot(dc, testSites(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Skipped)
}

func TestSectionPlotErrors(t *testing.T) {
	_, dc := NewFigure(30*vg.Centimeter, 15*vg.Centimeter)

	sp := NewSectionPlot()
	sp.Parameters = []string{"bogus"}
	_, err := sp.Plot(dc, testSites(), nil)
	assert.True(t, errors.Is(err, ErrParameter), "got %v", err)

	sp = NewSectionPlot()
	sp.Horizons = []string{"basement"}
	_, err = sp.Plot(dc, testSites(), nil)
	assert.True(t, errors.Is(err, ErrMissing), "got %v", err)
}

func TestSectionPlotHorizons(t *testing.T) {
	elev, err := NewSurfaceElevator(map[string]Surface{
		"basement": {X: []float64{0, 2}, Y: []float64{0, 2}, Z: []float64{1500, 2500}},
	})
	require.NoError(t, err)

	sp := NewSectionPlot()
	sp.Horizons = []string{"basement"}
	sp.HorizonZScale = "m"
	_, dc := NewFigure(30*vg.Centimeter, 15*vg.Centimeter)

	res, err := sp.Plot(dc, testSites(), elev)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Skipped)

	sp.Horizons = []string{"unknown"}
	res, err = sp.Plot(dc, testSites(), elev)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Skipped)
}

func TestLocationMap(t *testing.T) {
	sp := NewSectionPlot()
	_, dc := NewFigure(10*vg.Centimeter, 10*vg.Centimeter)

	all := []Station{{Name: "a", X: 0, Y: 0}, {Name: "b", X: 1, Y: 1.2}, {Name: "c", X: 2, Y: 1.9}, {Name: "d", X: 5, Y: 0}}
	assert.NoError(t, sp.LocationMap(dc, all, all[:3]))

	err := sp.LocationMap(dc, all, nil)
	assert.True(t, errors.Is(err, ErrMissing))

	err = sp.LocationMap(dc, all, []Station{{X: 1, Y: 0}, {X: 1, Y: 2}})
	assert.True(t, errors.Is(err, ErrDegenerate))
}

func TestSurfaceElevator(t *testing.T) {
	elev, err := NewSurfaceElevator(map[string]Surface{
		"top":  {X: []float64{0, 10}, Y: []float64{0, 0}, Z: []float64{-100, -200}},
		"base": {X: []float64{0}, Y: []float64{0}, Z: []float64{-3000}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "top"}, elev.Horizons())

	z, err := elev.Elevation(8, 1, "top")
	require.NoError(t, err)
	assert.Equal(t, -200.0, z)

	_, err = elev.Elevation(0, 0, "other")
	assert.True(t, errors.Is(err, ErrMissing))

	_, err = NewSurfaceElevator(map[string]Surface{"empty": {}})
	assert.True(t, errors.Is(err, ErrMissing))
}
