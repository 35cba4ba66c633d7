// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile is the straight line y = Slope*x + Intercept fitted
// through a set of stations.
type Profile struct {
	Slope     float64
	Intercept float64
}

// FitProfile fits a least-squares line through the station coordinates.
func FitProfile(xs, ys []float64) (Profile, error) {
	if len(xs) != len(ys) {
		return Profile{}, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d", len(xs), len(ys))
	}
	if !hasDistinct(xs, ys) {
		return Profile{}, errors.Wrap(ErrDegenerate, "pek1d: profile needs at least 2 distinct stations")
	}
	if floats.Max(xs) == floats.Min(xs) {
		return Profile{}, errors.Wrap(ErrDegenerate, "pek1d: vertical profile, slope undefined")
	}

	c, m := stat.LinearRegression(xs, ys, nil, false)
	if !isFinite(m) || !isFinite(c) {
		return Profile{}, errors.Wrapf(ErrDegenerate, "pek1d: profile fit (slope=%v, intercept=%v)", m, c)
	}
	return Profile{Slope: m, Intercept: c}, nil
}

// Project returns the foot of the perpendicular from (x, y) onto the profile.
func (p Profile) Project(x, y float64) (xp, yp float64) {
	m, c := p.Slope, p.Intercept
	if m == 0 {
		return x, c
	}
	xp = (y + x/m - c) / (m + 1/m)
	yp = m*xp + c
	return xp, yp
}

// ProfileOrigin returns the projection of the first station (x1, y1)
// onto the profile.
func ProfileOrigin(p Profile, x1, y1 float64) (x0, y0 float64, err error) {
	x0, y0 = p.Project(x1, y1)
	if !isFinite(x0) || !isFinite(y0) {
		return x0, y0, errors.Wrapf(ErrNonFinite, "pek1d: profile origin (%v, %v)", x0, y0)
	}
	return x0, y0, nil
}

// StationDistances projects every station onto the profile and returns
// its distance from the origin (x0, y0). Distances are unsigned.
func StationDistances(xs, ys []float64, p Profile, x0, y0 float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d", len(xs), len(ys))
	}
	ds := make([]float64, len(xs))
	for i := range xs {
		xp, yp := p.Project(xs[i], ys[i])
		d := math.Hypot(xp-x0, yp-y0)
		if !isFinite(d) {
			return nil, errors.Wrapf(ErrNonFinite, "pek1d: distance of station %d", i)
		}
		ds[i] = d
	}
	return ds, nil
}

// ProfileEnd returns the far end of the profile drawn on a location map.
func ProfileEnd(p Profile, xs, ys []float64) (x1, y1 float64) {
	m, c := p.Slope, p.Intercept
	if m > 1 {
		y1 = floats.Max(ys)
		return (y1 - c) / m, y1
	}
	x1 = floats.Max(xs)
	return x1, m*x1 + c
}

// Geometry runs the full profile computation on a set of stations:
// line fit, origin at the first station and distances along the line.
func Geometry(stations []Station) (Profile, [2]float64, []float64, error) {
	var origin [2]float64
	if len(stations) == 0 {
		return Profile{}, origin, nil, errors.Wrap(ErrMissing, "pek1d: no station locations")
	}
	xs, ys := stationXY(stations)
	p, err := FitProfile(xs, ys)
	if err != nil {
		return p, origin, nil, err
	}
	origin[0], origin[1], err = ProfileOrigin(p, xs[0], ys[0])
	if err != nil {
		return p, origin, nil, err
	}
	ds, err := StationDistances(xs, ys, p, origin[0], origin[1])
	if err != nil {
		return p, origin, nil, err
	}
	return p, origin, ds, nil
}

func stationXY(stations []Station) (xs, ys []float64) {
	xs = make([]float64, len(stations))
	ys = make([]float64, len(stations))
	for i, s := range stations {
		xs[i] = s.X
		ys[i] = s.Y
	}
	return xs, ys
}

func hasDistinct(xs, ys []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[0] || ys[i] != ys[0] {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
