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
	"gonum.org/v1/plot/vg"
)

func TestLoadConfig(t *testing.T) {
	const src = `
[figure]
width = 30
format = "svg"

[inputs]
header_rows = 1
interfaces = ["iface1.dat", "iface2.dat"]
scales = ["m", "km"]

[[inputs.sites]]
name = "S01"
model = "s01/outputs.dat"

[[inputs.sites]]
name = "S02"
model = "s02/outputs.dat"
inmodel = "s02/inmodel.dat"

[inputs.horizons]
basement = "basement.dat"

[map]
n_levels = 12
xlim = [0, 10]
cmap = "rainbow"

[fit.plot]
colorby = "misfit"

[fit.lcurve]
parameter = "anisotropy"
fixed = 10
`
	cfg, err := LoadConfig(strings.NewReader(src))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, 30.0, cfg.Figure.Width)
	assert.Equal(t, def.Figure.Height, cfg.Figure.Height)
	assert.Equal(t, "svg", cfg.Figure.Format)
	assert.Equal(t, 1, cfg.Inputs.HeaderRows)
	assert.Equal(t, []string{"iface1.dat", "iface2.dat"}, cfg.Inputs.Interfaces)
	assert.Equal(t, [2]string{"m", "km"}, cfg.Inputs.Scales)
	assert.Equal(t, []SiteFiles{
		{Name: "S01", Model: "s01/outputs.dat"},
		{Name: "S02", Model: "s02/outputs.dat", InModel: "s02/inmodel.dat"},
	}, cfg.Inputs.Sites)
	assert.Equal(t, map[string]string{"basement": "basement.dat"}, cfg.Inputs.Horizons)

	assert.Equal(t, 12, cfg.Map.NLevels)
	assert.Equal(t, []float64{0, 10}, cfg.Map.XLim)
	assert.Equal(t, "rainbow", cfg.Map.Cmap)
	assert.Equal(t, def.Map.EScale, cfg.Map.EScale)
	assert.Equal(t, def.Map.Fonts, cfg.Map.Fonts)

	assert.Equal(t, "misfit", cfg.Fit.Plot.ColorBy)
	assert.Equal(t, def.Fit.Plot.Cmap, cfg.Fit.Plot.Cmap)
	assert.Equal(t, LCurveOptions{Parameter: "anisotropy", Fixed: 10}, cfg.Fit.LCurve)
	assert.Equal(t, def.Model, cfg.Model)

	w, h := cfg.Figure.Size()
	assert.Equal(t, 30*vg.Centimeter, w)
	assert.Equal(t, 15*vg.Centimeter, h)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("[map]\ncolour = 1\n"))
	assert.True(t, errors.Is(err, ErrParameter), "got %v", err)

	_, err = LoadConfig(strings.NewReader("[figure]\nheight = 0\n"))
	assert.True(t, errors.Is(err, ErrParameter), "got %v", err)

	_, err = LoadConfig(strings.NewReader("[figure\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrParameter))

	_, err = LoadConfig(strings.NewReader("[figure]\nwidth = \"wide\"\n"))
	assert.Error(t, err)
}

func TestReadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "pek1d.toml")
	require.NoError(t, os.WriteFile(fname, []byte("[figure]\nworkdir = \"run1\"\n"), 0o644))

	cfg, err := ReadConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, "run1", cfg.Figure.Workdir)

	_, err = ReadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
