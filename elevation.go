// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Elevator looks up the elevation of a named horizon at a location.
type Elevator interface {
	Elevation(x, y float64, horizon string) (float64, error)
}

// SurfaceElevator is an Elevator backed by scattered (x, y, z) horizon
// surfaces. The elevation at a location is the z value of the closest
// surface sample.
type SurfaceElevator struct {
	trees map[string]*kdtree.Tree
}

// NewSurfaceElevator indexes the provided horizon surfaces by name.
func NewSurfaceElevator(horizons map[string]Surface) (*SurfaceElevator, error) {
	e := &SurfaceElevator{trees: make(map[string]*kdtree.Tree, len(horizons))}
	for name, s := range horizons {
		if s.Len() == 0 {
			return nil, errors.Wrapf(ErrMissing, "pek1d: empty horizon %q", name)
		}
		if len(s.Y) != s.Len() || len(s.Z) != s.Len() {
			return nil, errors.Wrapf(ErrLength, "pek1d: horizon %q x=%d, y=%d, z=%d", name, len(s.X), len(s.Y), len(s.Z))
		}
		pts := make(samples, s.Len())
		for i := range pts {
			pts[i] = sample{x: s.X[i], y: s.Y[i], z: s.Z[i]}
		}
		e.trees[name] = kdtree.New(pts, false)
	}
	return e, nil
}

// LoadSurfaceElevator reads horizon surfaces from xyz files, keyed by
// horizon name.
func LoadSurfaceElevator(files map[string]string, skip int) (*SurfaceElevator, error) {
	horizons := make(map[string]Surface, len(files))
	for name, fname := range files {
		f, err := os.Open(fname)
		if err != nil {
			return nil, errors.Wrapf(err, "pek1d: could not open horizon %q", name)
		}
		s, err := LoadSurface(f, skip, false)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "pek1d: could not load horizon %q", name)
		}
		horizons[name] = s
	}
	return NewSurfaceElevator(horizons)
}

// Horizons returns the sorted names of the known horizons.
func (e *SurfaceElevator) Horizons() []string {
	names := make([]string, 0, len(e.trees))
	for name := range e.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *SurfaceElevator) Elevation(x, y float64, horizon string) (float64, error) {
	tree, ok := e.trees[horizon]
	if !ok {
		return 0, errors.Wrapf(ErrMissing, "pek1d: unknown horizon %q", horizon)
	}
	nn, _ := tree.Nearest(sample{x: x, y: y})
	return nn.(sample).z, nil
}

var _ Elevator = (*SurfaceElevator)(nil)
