// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStrike(t *testing.T) {
	for _, tc := range []struct {
		in, want float64
	}{
		{0, 0},
		{45, 45},
		{180, 0},
		{190, 10},
		{-10, 170},
		{-180, 0},
		{540.5, 0.5},
	} {
		got := NormalizeStrike(tc.in)
		assert.InDelta(t, tc.want, got, 1e-12, "strike=%v", tc.in)
		assert.True(t, got >= 0 && got < 180, "strike=%v gave %v", tc.in, got)
	}
}

func TestNormalizeStrikeModulo(t *testing.T) {
	for _, v := range []float64{-725, -90, 0, 12.5, 179.9, 360, 1000} {
		assert.InDelta(t, NormalizeStrike(v), NormalizeStrike(v+180), 1e-9, "strike=%v", v)
	}
}

func TestAnisotropy(t *testing.T) {
	got, err := Anisotropy([]float64{1, 10, 4}, []float64{1, 100, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 10, 0.5}, got)

	_, err = Anisotropy([]float64{1, 0}, []float64{1, 1})
	assert.True(t, errors.Is(err, ErrNonFinite), "got %v", err)

	_, err = Anisotropy([]float64{1}, []float64{1, 1})
	assert.True(t, errors.Is(err, ErrLength), "got %v", err)
}

func TestAnisotropyReciprocal(t *testing.T) {
	var (
		resmin = []float64{1e-3, 0.5, 1, 3, 7.25, 100, 1e4}
		resmax = []float64{2, 0.5, 1e5, 0.1, 11, 100.5, 3}
	)
	got, err := Anisotropy(resmin, resmax)
	require.NoError(t, err)
	for i := range got {
		want := 1 / (resmin[i] / resmax[i])
		assert.InEpsilon(t, want, got[i], 1e-12, "resmin=%v resmax=%v", resmin[i], resmax[i])
		assert.True(t, got[i] > 0, "sign flip for resmin=%v resmax=%v", resmin[i], resmax[i])
	}
}

func TestModelAnisotropy(t *testing.T) {
	m := Model{
		{Depth: 0, ResMin: 10, ResMax: 100, Strike: 200},
		{Depth: 1, ResMin: 5, ResMax: 5, Strike: -30},
	}
	require.NoError(t, m.Validate())

	got, err := m.Anisotropy()
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 1}, got)
	assert.InDeltaSlice(t, []float64{20, 150}, m.Strikes(), 1e-12)
	assert.Equal(t, []float64{0, 1}, m.Depths())
}

func TestModelValidate(t *testing.T) {
	m := Model{{Depth: 0}, {Depth: 2}, {Depth: 2}}
	assert.Error(t, m.Validate())
	assert.NoError(t, Model{}.Validate())
}

func TestClampAnisotropy(t *testing.T) {
	in := []float64{0.5, 1, 100, 250, 99.9}
	got := ClampAnisotropy(in, 100)
	assert.Equal(t, []float64{0.5, 1, 100, 100, 99.9}, got)
	assert.Equal(t, 250.0, in[3], "input must not be modified")
}

func TestSelectModel(t *testing.T) {
	ms := []Model{
		{{Index: 1}},
		{{Index: 2}},
		{{Index: 3}},
	}
	for _, tc := range []struct {
		no   int
		want float64
	}{
		{0, 3},
		{1, 1},
		{3, 3},
		{-1, 2},
	} {
		m, err := SelectModel(ms, tc.no)
		require.NoError(t, err, "no=%d", tc.no)
		assert.Equal(t, tc.want, m[0].Index, "no=%d", tc.no)
	}

	for _, no := range []int{4, -3} {
		_, err := SelectModel(ms, no)
		assert.True(t, errors.Is(err, ErrMissing), "no=%d: got %v", no, err)
	}
}

func TestUpdateScale(t *testing.T) {
	z := []float64{1000, -2500}
	assert.Equal(t, []float64{1, -2.5}, UpdateScale(z, "m"))
	assert.Equal(t, []float64{1000, -2500}, UpdateScale(z, "km"))
	assert.Equal(t, []float64{-1, 2.5}, UpdateScale(z, "-m"))
	assert.Equal(t, []float64{-1000, 2500}, UpdateScale(z, "-km"))
	assert.Equal(t, []float64{1000, -2500}, z, "input must not be modified")
}

func TestFitValidate(t *testing.T) {
	fit := Fit{
		PenaltyAnisotropy: []float64{1, 2},
		PenaltyStructure:  []float64{1, 2},
		Misfit:            []float64{1, 2},
		WeightAnisotropy:  []float64{1, 2},
		WeightStructure:   []float64{1, 2},
	}
	assert.NoError(t, fit.Validate())

	fit.WeightStructure = fit.WeightStructure[:1]
	assert.True(t, errors.Is(fit.Validate(), ErrLength))

	assert.True(t, errors.Is(Fit{}.Validate(), ErrMissing))
}

func TestSurface(t *testing.T) {
	s := Surface{X: []float64{0, 1}, Y: []float64{0, 1}, Z: []float64{0, 1}}
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.HasAnisotropy())

	s.ResMin = []float64{1, 1}
	s.ResMax = []float64{2, 2}
	s.Strike = []float64{0, 0}
	assert.True(t, s.HasAnisotropy())
}
