// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable(t *testing.T) {
	const data = `x y z comment
# a comment line
1 2 3 extra

4	5	6
`
	rows, err := LoadTable(strings.NewReader(data), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, rows)

	_, err = LoadTable(strings.NewReader("1 2\n"), 0, 3)
	assert.True(t, errors.Is(err, ErrLength), "got %v", err)

	_, err = LoadTable(strings.NewReader("1 2 x\n"), 0, 3)
	assert.Error(t, err)
}

func TestLoadModels(t *testing.T) {
	const data = `1 0.0 10 100 30
1 0.5 20 40 -10
1 1.0 5 50 200
2 0.0 11 110 31
2 1.0 6 60 32
`
	ms, err := LoadModels(strings.NewReader(data), 0)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Len(t, ms[0], 3)
	assert.Len(t, ms[1], 2)
	assert.Equal(t, []float64{0, 0.5, 1}, ms[0].Depths())
	assert.Equal(t, []float64{30, 170, 20}, ms[0].Strikes())

	last, err := SelectModel(ms, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, last[0].Index)

	_, err = LoadModels(strings.NewReader("1 1.0 1 1 0\n1 0.5 1 1 0\n"), 0)
	assert.Error(t, err, "depths must increase")
}

func TestLoadFit(t *testing.T) {
	const data = `pa ps misfit wa ws
0.1 0.2 1.5 1 10
0.3 0.1 1.2 2 10
`
	fit, err := LoadFit(strings.NewReader(data), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.3}, fit.PenaltyAnisotropy)
	assert.Equal(t, []float64{0.2, 0.1}, fit.PenaltyStructure)
	assert.Equal(t, []float64{1.5, 1.2}, fit.Misfit)
	assert.Equal(t, []float64{1, 2}, fit.WeightAnisotropy)
	assert.Equal(t, []float64{10, 10}, fit.WeightStructure)
	assert.Equal(t, DefaultMisfitThreshold, fit.MisfitThreshold)
}

func TestLoadSurface(t *testing.T) {
	const data = `x y z resmin resmax strike
0 0 -1000 10 100 45
1 0 -1500 20 40 90
`
	s, err := LoadSurface(strings.NewReader(data), 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.HasAnisotropy())
	assert.Equal(t, []float64{45, 90}, s.Strike)

	s, err = LoadSurface(strings.NewReader(data), 1, false)
	require.NoError(t, err)
	assert.False(t, s.HasAnisotropy())
	assert.Equal(t, []float64{-1000, -1500}, s.Z)

	_, err = LoadSurface(strings.NewReader("0 0 1\n"), 0, true)
	assert.True(t, errors.Is(err, ErrLength), "got %v", err)
}

func TestLoadResponse(t *testing.T) {
	const data = `1 ` +
		`1 0.1 10 1 ` +
		`2 0.2 20 2 ` +
		`3 0.3 -30 3 ` +
		`4 0.4 40 4
0.1 5 0.5 50 5 6 0.6 60 6 7 0.7 70 7 8 0.8 80 8
`
	resp, err := LoadResponse(strings.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.1}, resp.Freq)
	assert.Equal(t, Tensor{{1, 2}, {3, 4}}, resp.Res[0])
	assert.Equal(t, Tensor{{0.1, 0.2}, {0.3, 0.4}}, resp.ResErr[0])
	assert.Equal(t, Tensor{{10, 20}, {-30, 40}}, resp.Phase[0])
	assert.Equal(t, Tensor{{1, 2}, {3, 4}}, resp.PhaseErr[0])
	assert.Equal(t, Tensor{{5, 6}, {7, 8}}, resp.Res[1])
	assert.InDeltaSlice(t, []float64{1, 10}, resp.Periods(), 1e-12)

	adj := AdjustPhase(resp.Phase)
	assert.Equal(t, Tensor{{10, 20}, {150, 40}}, adj[0])
	assert.Equal(t, -30.0, resp.Phase[0][1][0], "input must not be modified")
}

func TestWriteGrid(t *testing.T) {
	mesh, err := NewMesh(0, 1, 2, 10, 20, 3)
	require.NoError(t, err)
	g := &Grid{Mesh: mesh, Zs: []float64{1, 2, 3, 4, 5, 6}}

	fname := filepath.Join(t.TempDir(), "grid.txt")
	require.NoError(t, WriteGrid(fname, g))

	f, err := os.Open(fname)
	require.NoError(t, err)
	defer f.Close()

	rows, err := LoadTable(f, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{0, 10, 1},
		{0, 15, 3},
		{0, 20, 5},
		{1, 10, 2},
		{1, 15, 4},
		{1, 20, 6},
	}, rows)
}
