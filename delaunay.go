// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"math"

	"github.com/fogleman/delaunay"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// triangulation is a Delaunay triangulation of scattered samples.
// Points are stored in a frame normalised to the unit square.
type triangulation struct {
	x0, y0 float64 // frame origin
	scale  float64 // frame scale

	px, py []float64 // unique normalised points
	src    []int     // index of each unique point in the input
	tris   []triangle
}

type triangle struct{ a, b, c int }

const baryEps = 1e-9

func triangulate(xs, ys []float64) (*triangulation, error) {
	if len(xs) < 3 {
		return nil, errors.Wrapf(ErrDegenerate, "pek1d: triangulation needs 3 points (got %d)", len(xs))
	}
	tri := &triangulation{
		x0: floats.Min(xs),
		y0: floats.Min(ys),
	}
	tri.scale = math.Max(floats.Max(xs)-tri.x0, floats.Max(ys)-tri.y0)
	if !(tri.scale > 0) {
		return nil, errors.Wrap(ErrDegenerate, "pek1d: all samples share the same location")
	}

	var (
		seen = make(map[[2]float64]bool, len(xs))
		pts  = make([]delaunay.Point, 0, len(xs))
	)
	for i := range xs {
		x, y := tri.normalize(xs[i], ys[i])
		k := [2]float64{x, y}
		if seen[k] {
			continue
		}
		seen[k] = true
		tri.px = append(tri.px, x)
		tri.py = append(tri.py, y)
		tri.src = append(tri.src, i)
		pts = append(pts, delaunay.Point{X: x, Y: y})
	}
	if len(pts) < 3 {
		return nil, errors.Wrapf(ErrDegenerate, "pek1d: triangulation needs 3 distinct points (got %d)", len(pts))
	}

	dt, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, errors.Wrapf(ErrDegenerate, "pek1d: samples are collinear: %v", err)
	}
	for i := 0; i+2 < len(dt.Triangles); i += 3 {
		t := triangle{a: dt.Triangles[i], b: dt.Triangles[i+1], c: dt.Triangles[i+2]}
		if math.Abs(area2(tri.px, tri.py, t.a, t.b, t.c)) < baryEps {
			continue
		}
		tri.tris = append(tri.tris, t)
	}
	if len(tri.tris) == 0 {
		return nil, errors.Wrap(ErrDegenerate, "pek1d: samples are collinear, no triangle")
	}
	return tri, nil
}

func area2(xs, ys []float64, a, b, c int) float64 {
	return (xs[b]-xs[a])*(ys[c]-ys[a]) - (xs[c]-xs[a])*(ys[b]-ys[a])
}

func (tri *triangulation) normalize(x, y float64) (float64, float64) {
	return (x - tri.x0) / tri.scale, (y - tri.y0) / tri.scale
}

// locate returns the triangle containing (x, y) and the barycentric
// coordinates of the point. ok is false outside the convex hull.
func (tri *triangulation) locate(x, y float64) (t triangle, l [3]float64, ok bool) {
	px, py := tri.normalize(x, y)
	for _, t := range tri.tris {
		var (
			ax, ay = tri.px[t.a], tri.py[t.a]
			bx, by = tri.px[t.b], tri.py[t.b]
			cx, cy = tri.px[t.c], tri.py[t.c]
			det    = (by-cy)*(ax-cx) + (cx-bx)*(ay-cy)
		)
		l1 := ((by-cy)*(px-cx) + (cx-bx)*(py-cy)) / det
		l2 := ((cy-ay)*(px-cx) + (ax-cx)*(py-cy)) / det
		l3 := 1 - l1 - l2
		if l1 < -baryEps || l2 < -baryEps || l3 < -baryEps {
			continue
		}
		return t, [3]float64{l1, l2, l3}, true
	}
	return t, l, false
}

func (tri *triangulation) contains(x, y float64) bool {
	_, _, ok := tri.locate(x, y)
	return ok
}

// interpolate returns the barycentric interpolation of zs at (x, y),
// or NaN outside the convex hull.
func (tri *triangulation) interpolate(x, y float64, zs []float64) float64 {
	t, l, ok := tri.locate(x, y)
	if !ok {
		return math.NaN()
	}
	return l[0]*zs[tri.src[t.a]] + l[1]*zs[tri.src[t.b]] + l[2]*zs[tri.src[t.c]]
}
