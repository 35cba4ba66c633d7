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

func testResponse(shift float64) Response {
	var r Response
	for i, f := range []float64{100, 10, 1, 0.1, 0.01} {
		v := float64(i + 1)
		r.Freq = append(r.Freq, f)
		r.Res = append(r.Res, Tensor{{v, 100 * v}, {-120 * v, 2 * v}})
		r.ResErr = append(r.ResErr, Tensor{{0.1, 5}, {6, 0.2}})
		r.Phase = append(r.Phase, Tensor{{10 + shift, 45 + shift}, {-135 + shift, 20}})
		r.PhaseErr = append(r.PhaseErr, Tensor{{1, 2}, {2, 1}})
	}
	return r
}

func TestResponseValidate(t *testing.T) {
	r := testResponse(0)
	require.NoError(t, r.Validate())
	assert.Equal(t, []float64{0.01, 0.1, 1, 10, 100}, r.Periods())

	r.PhaseErr = r.PhaseErr[1:]
	assert.True(t, errors.Is(r.Validate(), ErrLength))
	assert.True(t, errors.Is(Response{}.Validate(), ErrMissing))
}

func TestAdjustPhase(t *testing.T) {
	in := []Tensor{{{-10, 45}, {-135, 0}}}
	out := AdjustPhase(in)
	assert.Equal(t, []Tensor{{{170, 45}, {45, 0}}}, out)
	assert.Equal(t, -10.0, in[0][0][0], "input modified")
}

func TestResponsePlot(t *testing.T) {
	_, dc := NewFigure(20*vg.Centimeter, 15*vg.Centimeter)
	data, model := testResponse(0), testResponse(2)

	rp := NewResponsePlot()
	require.NoError(t, rp.Plot(dc, data, model))

	rp.Title = "S01"
	rp.AdjustPhase = false
	require.NoError(t, rp.Plot(dc, data, model))

	// a single period still gets a drawable log axis.
	one := Response{
		Freq:     data.Freq[:1],
		Res:      data.Res[:1],
		ResErr:   data.ResErr[:1],
		Phase:    data.Phase[:1],
		PhaseErr: data.PhaseErr[:1],
	}
	require.NoError(t, rp.Plot(dc, one, one))

	model.Freq = model.Freq[1:]
	model.Res = model.Res[1:]
	model.ResErr = model.ResErr[1:]
	model.Phase = model.Phase[1:]
	model.PhaseErr = model.PhaseErr[1:]
	err := rp.Plot(dc, data, model)
	assert.True(t, errors.Is(err, ErrLength), "got %v", err)

	err = rp.Plot(dc, Response{}, model)
	assert.True(t, errors.Is(err, ErrMissing), "got %v", err)
}
