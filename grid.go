// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/plot/plotter"
)

// Method is a scattered-data interpolation method.
type Method int

const (
	Nearest Method = iota
	Linear
	Cubic
)

func (m Method) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	}
	return "unknown"
}

// ParseMethod returns the interpolation method named s.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "nearest":
		return Nearest, nil
	case "linear":
		return Linear, nil
	case "cubic":
		return Cubic, nil
	}
	return Nearest, errors.Wrapf(ErrParameter, "pek1d: unknown interpolation method %q", s)
}

// Mesh is a regular rectangular mesh.
type Mesh struct {
	Xs []float64 // node abscissae, increasing
	Ys []float64 // node ordinates, increasing
}

// NewMesh returns a mesh of nx×ny nodes spanning [xmin,xmax]×[ymin,ymax].
func NewMesh(xmin, xmax float64, nx int, ymin, ymax float64, ny int) (Mesh, error) {
	if nx < 2 || ny < 2 {
		return Mesh{}, errors.Wrapf(ErrParameter, "pek1d: mesh needs at least 2x2 nodes (got %dx%d)", nx, ny)
	}
	if !(xmax > xmin) || !(ymax > ymin) {
		return Mesh{}, errors.Wrapf(ErrDegenerate, "pek1d: empty mesh extent x=[%v,%v] y=[%v,%v]", xmin, xmax, ymin, ymax)
	}
	return Mesh{
		Xs: floats.Span(make([]float64, nx), xmin, xmax),
		Ys: floats.Span(make([]float64, ny), ymin, ymax),
	}, nil
}

// BoundsMesh returns a mesh of nx×ny nodes spanning the bounding box of
// the provided points.
func BoundsMesh(xs, ys []float64, nx, ny int) (Mesh, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return Mesh{}, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d", len(xs), len(ys))
	}
	return NewMesh(floats.Min(xs), floats.Max(xs), nx, floats.Min(ys), floats.Max(ys), ny)
}

// surfaceMesh returns the mesh of a map-view surface. Nearest gridding
// accepts samples lined up along an axis: the empty extent is widened
// to half the other one, or to 1 for a single location.
func surfaceMesh(xs, ys []float64, nx, ny int, method Method) (Mesh, error) {
	if method != Nearest {
		return BoundsMesh(xs, ys, nx, ny)
	}
	if len(xs) == 0 || len(xs) != len(ys) {
		return Mesh{}, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d", len(xs), len(ys))
	}
	var (
		xmin, xmax = floats.Min(xs), floats.Max(xs)
		ymin, ymax = floats.Min(ys), floats.Max(ys)
		pad        = 0.5 * math.Max(xmax-xmin, ymax-ymin)
	)
	if pad == 0 {
		pad = 0.5
	}
	if xmax == xmin {
		xmin, xmax = xmin-pad, xmax+pad
	}
	if ymax == ymin {
		ymin, ymax = ymin-pad, ymax+pad
	}
	return NewMesh(xmin, xmax, nx, ymin, ymax, ny)
}

// Grid holds values on the nodes of a Mesh.
// Z values of nodes that could not be interpolated are NaN.
type Grid struct {
	Mesh
	Zs []float64 // Zs[r*len(Xs)+c]
}

func (g *Grid) Dims() (c, r int)   { return len(g.Xs), len(g.Ys) }
func (g *Grid) Z(c, r int) float64 { return g.Zs[r*len(g.Xs)+c] }
func (g *Grid) X(c int) float64    { return g.Xs[c] }
func (g *Grid) Y(r int) float64    { return g.Ys[r] }

// Range returns the minimum and maximum of the finite values of the grid.
// ok is false when the grid has no finite value.
func (g *Grid) Range() (min, max float64, ok bool) {
	min, max = math.Inf(+1), math.Inf(-1)
	for _, v := range g.Zs {
		if !isFinite(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
		ok = true
	}
	return min, max, ok
}

// Filled returns a copy of g where every NaN node takes the value of
// its nearest finite node.
func (g *Grid) Filled() (*Grid, error) {
	var (
		nx  = len(g.Xs)
		pts samples
	)
	for i, v := range g.Zs {
		if isFinite(v) {
			pts = append(pts, sample{x: g.Xs[i%nx], y: g.Ys[i/nx], z: v})
		}
	}
	if len(pts) == 0 {
		return nil, errors.Wrap(ErrMissing, "pek1d: grid has no finite node")
	}
	out := &Grid{Mesh: g.Mesh, Zs: make([]float64, len(g.Zs))}
	copy(out.Zs, g.Zs)
	if len(pts) == len(g.Zs) {
		return out, nil
	}

	tree := kdtree.New(pts, false)
	for i, v := range out.Zs {
		if isFinite(v) {
			continue
		}
		q := sample{x: g.Xs[i%nx], y: g.Ys[i/nx]}
		nn, _ := tree.Nearest(q)
		out.Zs[i] = nn.(sample).z
	}
	return out, nil
}

// Interpolate grids the scattered samples (xs, ys, zs) onto mesh.
//
// Nearest assigns every node the value of its closest sample.
// Linear interpolates over a Delaunay triangulation of the samples.
// Cubic evaluates a cubic radial basis function interpolant.
// Linear and Cubic leave the nodes outside the convex hull of the
// samples as NaN.
func Interpolate(xs, ys, zs []float64, method Method, mesh Mesh) (*Grid, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, errors.Wrapf(ErrLength, "pek1d: x=%d, y=%d, z=%d", len(xs), len(ys), len(zs))
	}
	if len(xs) == 0 {
		return nil, errors.Wrap(ErrMissing, "pek1d: no samples to interpolate")
	}
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) || !isFinite(zs[i]) {
			return nil, errors.Wrapf(ErrNonFinite, "pek1d: sample %d (%v, %v, %v)", i, xs[i], ys[i], zs[i])
		}
	}

	var (
		nx = len(mesh.Xs)
		ny = len(mesh.Ys)
		g  = &Grid{Mesh: mesh, Zs: make([]float64, nx*ny)}
	)

	switch method {
	case Nearest:
		pts := make(samples, len(xs))
		for i := range xs {
			pts[i] = sample{x: xs[i], y: ys[i], z: zs[i]}
		}
		tree := kdtree.New(pts, false)
		for r, y := range mesh.Ys {
			for c, x := range mesh.Xs {
				nn, _ := tree.Nearest(sample{x: x, y: y})
				g.Zs[r*nx+c] = nn.(sample).z
			}
		}

	case Linear:
		tri, err := triangulate(xs, ys)
		if err != nil {
			return nil, err
		}
		for r, y := range mesh.Ys {
			for c, x := range mesh.Xs {
				g.Zs[r*nx+c] = tri.interpolate(x, y, zs)
			}
		}

	case Cubic:
		tri, err := triangulate(xs, ys)
		if err != nil {
			return nil, err
		}
		rbf, err := newCubicRBF(tri, zs)
		if err != nil {
			return nil, err
		}
		for r, y := range mesh.Ys {
			for c, x := range mesh.Xs {
				v := math.NaN()
				if tri.contains(x, y) {
					v = rbf.at(x, y)
				}
				g.Zs[r*nx+c] = v
			}
		}

	default:
		return nil, errors.Wrapf(ErrParameter, "pek1d: unknown interpolation method %d", int(method))
	}

	return g, nil
}

// cubicRBF is a φ(r) = r³ radial basis function interpolant with a
// linear polynomial tail, in the normalised frame of a triangulation.
type cubicRBF struct {
	tri *triangulation
	w   []float64 // one weight per unique sample
	c   [3]float64
}

func newCubicRBF(tri *triangulation, zs []float64) (*cubicRBF, error) {
	var (
		n = len(tri.px)
		m = n + 3
		a = mat.NewDense(m, m, nil)
		b = mat.NewVecDense(m, nil)
	)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r := math.Hypot(tri.px[i]-tri.px[j], tri.py[i]-tri.py[j])
			a.Set(i, j, r*r*r)
		}
		a.Set(i, n, 1)
		a.Set(i, n+1, tri.px[i])
		a.Set(i, n+2, tri.py[i])
		a.Set(n, i, 1)
		a.Set(n+1, i, tri.px[i])
		a.Set(n+2, i, tri.py[i])
		b.SetVec(i, zs[tri.src[i]])
	}

	var sol mat.VecDense
	err := sol.SolveVec(a, b)
	if err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, errors.Wrap(ErrDegenerate, "pek1d: singular cubic interpolation system")
		}
	}

	rbf := &cubicRBF{tri: tri, w: make([]float64, n)}
	for i := 0; i < n; i++ {
		rbf.w[i] = sol.AtVec(i)
	}
	for i := range rbf.c {
		rbf.c[i] = sol.AtVec(n + i)
	}
	for _, v := range rbf.w {
		if !isFinite(v) {
			return nil, errors.Wrap(ErrDegenerate, "pek1d: singular cubic interpolation system")
		}
	}
	return rbf, nil
}

func (rbf *cubicRBF) at(x, y float64) float64 {
	px, py := rbf.tri.normalize(x, y)
	v := rbf.c[0] + rbf.c[1]*px + rbf.c[2]*py
	for i, w := range rbf.w {
		r := math.Hypot(px-rbf.tri.px[i], py-rbf.tri.py[i])
		v += w * r * r * r
	}
	return v
}

// sample is a scattered value, comparable on its (x, y) location.
type sample struct {
	x, y, z float64
}

func (p sample) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(sample)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		panic("illegal dimension")
	}
}

func (p sample) Dims() int { return 2 }

func (p sample) Distance(c kdtree.Comparable) float64 {
	q := c.(sample)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

type samples []sample

func (p samples) Index(i int) kdtree.Comparable         { return p[i] }
func (p samples) Len() int                              { return len(p) }
func (p samples) Pivot(d kdtree.Dim) int                { return samplePlane{samples: p, Dim: d}.Pivot() }
func (p samples) Slice(start, end int) kdtree.Interface { return p[start:end] }

type samplePlane struct {
	kdtree.Dim
	samples
}

func (p samplePlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.samples[i].x < p.samples[j].x
	case 1:
		return p.samples[i].y < p.samples[j].y
	default:
		panic("illegal dimension")
	}
}
func (p samplePlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p samplePlane) Slice(start, end int) kdtree.SortSlicer {
	p.samples = p.samples[start:end]
	return p
}
func (p samplePlane) Swap(i, j int) {
	p.samples[i], p.samples[j] = p.samples[j], p.samples[i]
}

var (
	_ plotter.GridXYZ   = (*Grid)(nil)
	_ kdtree.Interface  = samples(nil)
	_ kdtree.Comparable = sample{}
)
