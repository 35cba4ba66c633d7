// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func TestSave(t *testing.T) {
	dir := t.TempDir()
	line := func(dc draw.Canvas) error {
		p := newPlot(defaultFonts)
		l, err := plotter.NewLine(hplot.ZipXY([]float64{0, 1, 2}, []float64{1, 0, 1}))
		if err != nil {
			return err
		}
		p.Add(l)
		p.Draw(dc)
		return nil
	}

	for _, ext := range []string{".png", ".svg", ".pdf"} {
		t.Run(ext, func(t *testing.T) {
			fname := filepath.Join(dir, "fig"+ext)
			require.NoError(t, Save(fname, 10*vg.Centimeter, 8*vg.Centimeter, line))
			fi, err := os.Stat(fname)
			require.NoError(t, err)
			assert.NotZero(t, fi.Size())
		})
	}

	fname := filepath.Join(dir, "fig.xyz")
	assert.Error(t, Save(fname, 10*vg.Centimeter, 8*vg.Centimeter, line))

	fname = filepath.Join(dir, "fail.png")
	err := Save(fname, 10*vg.Centimeter, 8*vg.Centimeter, func(draw.Canvas) error {
		return ErrMissing
	})
	assert.True(t, errors.Is(err, ErrMissing))
	_, err = os.Stat(fname)
	assert.True(t, os.IsNotExist(err), "figure written on error")
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "run1minmax_aniso.png", OutputFilename("/data/run1", []string{"minmax", "aniso"}, ".png"))
	assert.Equal(t, "run1strike.pdf", OutputFilename("run1/", []string{"strike"}, ".pdf"))
}

func TestZipXYs(t *testing.T) {
	got := zipXYs([]float64{1, 2, 3}, []float64{4, 5, 6})
	assert.Equal(t, plotter.XYs{{X: 1, Y: 4}, {X: 2, Y: 5}, {X: 3, Y: 6}}, got)
	assert.Empty(t, zipXYs(nil, nil))
}

func TestSub(t *testing.T) {
	_, dc := NewFigure(100, 50)
	c := sub(dc, 0.1, 0.2, 0.5, 1)
	assert.InDelta(t, 10, float64(c.Min.X), 1e-9)
	assert.InDelta(t, 10, float64(c.Min.Y), 1e-9)
	assert.InDelta(t, 50, float64(c.Max.X), 1e-9)
	assert.InDelta(t, 50, float64(c.Max.Y), 1e-9)
}

func TestLimitTicks(t *testing.T) {
	ticks := limitTicks(0.5, 1000).Ticks(0, 2000)
	require.Len(t, ticks, 2)
	assert.Equal(t, "0.5", ticks[0].Label)
	assert.Equal(t, "1000", ticks[1].Label)
}
