// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pek1d renders 1-D anisotropic resistivity inversion results:
// model panels, station profiles, interpolated maps, misfit landscapes
// and MT responses.
package pek1d

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrParameter         = errors.New("pek1d: invalid parameter")
	ErrDegenerate        = errors.New("pek1d: degenerate geometry")
	ErrNonFinite         = errors.New("pek1d: non-finite value")
	ErrMissing           = errors.New("pek1d: missing data")
	ErrLength            = errors.New("pek1d: array length mismatch")
	ErrTooManyInterfaces = errors.New("pek1d: too many interfaces")
)

// Row is one depth sample of a 1-D anisotropic model.
type Row struct {
	Index  float64 // station or model index
	Depth  float64
	ResMin float64 // minimum resistivity, ohm-m
	ResMax float64 // maximum resistivity, ohm-m
	Strike float64 // strike of the minimum resistivity direction, degrees
}

// Model is a 1-D model ordered by increasing depth.
type Model []Row

// Validate checks that depths are strictly increasing.
func (m Model) Validate() error {
	for i := 1; i < len(m); i++ {
		if !(m[i].Depth > m[i-1].Depth) {
			return errors.Errorf("pek1d: depth not increasing at row %d (%v <= %v)", i, m[i].Depth, m[i-1].Depth)
		}
	}
	return nil
}

func (m Model) Depths() []float64 {
	vs := make([]float64, len(m))
	for i, r := range m {
		vs[i] = r.Depth
	}
	return vs
}

func (m Model) ResMin() []float64 {
	vs := make([]float64, len(m))
	for i, r := range m {
		vs[i] = r.ResMin
	}
	return vs
}

func (m Model) ResMax() []float64 {
	vs := make([]float64, len(m))
	for i, r := range m {
		vs[i] = r.ResMax
	}
	return vs
}

// Strikes returns the strike angles reduced to [0,180).
func (m Model) Strikes() []float64 {
	vs := make([]float64, len(m))
	for i, r := range m {
		vs[i] = NormalizeStrike(r.Strike)
	}
	return vs
}

// Anisotropy returns ResMax/ResMin for every row.
func (m Model) Anisotropy() ([]float64, error) {
	return Anisotropy(m.ResMin(), m.ResMax())
}

// Anisotropy returns the element-wise ratio resmax/resmin.
// A zero minimum resistivity or a non-finite ratio is an error.
func Anisotropy(resmin, resmax []float64) ([]float64, error) {
	if len(resmin) != len(resmax) {
		return nil, errors.Wrapf(ErrLength, "pek1d: resmin=%d, resmax=%d", len(resmin), len(resmax))
	}
	vs := make([]float64, len(resmin))
	for i := range resmin {
		if resmin[i] == 0 {
			return nil, errors.Wrapf(ErrNonFinite, "pek1d: zero minimum resistivity at row %d", i)
		}
		v := resmax[i] / resmin[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrNonFinite, "pek1d: anisotropy at row %d", i)
		}
		vs[i] = v
	}
	return vs, nil
}

// NormalizeStrike reduces a strike angle to [0,180).
func NormalizeStrike(v float64) float64 {
	v = math.Mod(v, 180)
	if v < 0 {
		v += 180
	}
	if v >= 180 {
		v = 0
	}
	return v
}

// ClampAnisotropy returns a copy of vs where values above hi are set to hi.
func ClampAnisotropy(vs []float64, hi float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		if v > hi {
			v = hi
		}
		out[i] = v
	}
	return out
}

// SelectModel returns the model numbered no (1-based) from ms.
// Zero selects the last model and negative values count from the end.
func SelectModel(ms []Model, no int) (Model, error) {
	i := no - 1
	if i < 0 {
		i += len(ms)
	}
	if i < 0 || i >= len(ms) {
		return nil, errors.Wrapf(ErrMissing, "pek1d: model %d out of range (n=%d)", no, len(ms))
	}
	return ms[i], nil
}

// Fit holds the penalty and misfit values of a suite of inversion runs.
// Row i of every array describes run i.
type Fit struct {
	PenaltyAnisotropy []float64
	PenaltyStructure  []float64
	Misfit            []float64
	WeightAnisotropy  []float64
	WeightStructure   []float64

	// MisfitThreshold is the fraction of the minimum misfit at which
	// the threshold contour is drawn.
	MisfitThreshold float64
}

// Validate checks that all arrays share the same length.
func (f Fit) Validate() error {
	n := len(f.Misfit)
	if n == 0 {
		return errors.Wrap(ErrMissing, "pek1d: empty fit table")
	}
	for _, c := range []struct {
		name string
		vs   []float64
	}{
		{"penalty_anisotropy", f.PenaltyAnisotropy},
		{"penalty_structure", f.PenaltyStructure},
		{"weight_anisotropy", f.WeightAnisotropy},
		{"weight_structure", f.WeightStructure},
	} {
		if len(c.vs) != n {
			return errors.Wrapf(ErrLength, "pek1d: %s=%d, misfit=%d", c.name, len(c.vs), n)
		}
	}
	return nil
}

// Station is a measurement site in real-world coordinates.
type Station struct {
	Name string
	X, Y float64
}

// Surface holds scattered map-view samples. The resistivity columns
// are only set for anisotropy surfaces.
type Surface struct {
	X, Y, Z []float64

	ResMin []float64
	ResMax []float64
	Strike []float64
}

func (s Surface) Len() int { return len(s.X) }

// HasAnisotropy reports whether the resistivity columns are populated.
func (s Surface) HasAnisotropy() bool {
	n := len(s.X)
	return n > 0 && len(s.ResMin) == n && len(s.ResMax) == n && len(s.Strike) == n
}

// UpdateScale converts depths in metres to kilometres unless scale
// contains "k", and flips the sign if scale contains "-".
func UpdateScale(z []float64, scale string) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = updateScale(v, scale)
	}
	return out
}

func updateScale(v float64, scale string) float64 {
	if !strings.ContainsRune(scale, 'k') {
		v /= 1000
	}
	if strings.ContainsRune(scale, '-') {
		v = -v
	}
	return v
}
