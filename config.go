// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg"
)

// Config is the configuration of a plotting session.
type Config struct {
	Figure   Figure       `toml:"figure"`
	Inputs   Inputs       `toml:"inputs"`
	Model    ModelPlot    `toml:"model"`
	Section  SectionPlot  `toml:"section"`
	Map      MapPlot      `toml:"map"`
	Fit      FitConfig    `toml:"fit"`
	Response ResponsePlot `toml:"response"`
}

// Figure describes the output figures.
type Figure struct {
	Width   float64 `toml:"width"`  // in cm
	Height  float64 `toml:"height"` // in cm
	Workdir string  `toml:"workdir"`
	Format  string  `toml:"format"` // file extension of derived output names
}

// Size returns the figure width and height.
func (f Figure) Size() (w, h vg.Length) {
	return vg.Length(f.Width) * vg.Centimeter, vg.Length(f.Height) * vg.Centimeter
}

// Inputs lists the data files of a session.
type Inputs struct {
	HeaderRows  int `toml:"header_rows"`  // header lines of model, fit and response tables
	SurfaceRows int `toml:"surface_rows"` // header lines of surface files

	Model    string `toml:"model"`
	InModel  string `toml:"inmodel"`
	Fit      string `toml:"fit"`
	Stations string `toml:"stations"`

	// Sites are the stations of the profile, in drawing order.
	Sites []SiteFiles `toml:"sites"`

	AnisoSurface string            `toml:"aniso_surface"`
	Interfaces   []string          `toml:"interfaces"`
	Scales       [2]string         `toml:"scales"` // z scale of the anisotropy and interface files
	Horizons     map[string]string `toml:"horizons"`

	ResponseData  string `toml:"response_data"`
	ResponseModel string `toml:"response_model"`
}

// SiteFiles names the model files of a profile station.
type SiteFiles struct {
	Name    string `toml:"name"`
	Model   string `toml:"model"`
	InModel string `toml:"inmodel"`
}

// FitConfig configures the misfit figures.
type FitConfig struct {
	Plot    FitPlot        `toml:"plot"`
	Contour ContourOptions `toml:"contour"`
	LCurve  LCurveOptions  `toml:"lcurve"`
}

// LCurveOptions selects the runs of an l-curve.
type LCurveOptions struct {
	Parameter string  `toml:"parameter"` // anisotropy or structure
	Fixed     float64 `toml:"fixed"`     // weight of the other penalty
	Output    string  `toml:"output"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Figure: Figure{
			Width:   20,
			Height:  15,
			Workdir: ".",
			Format:  "png",
		},
		Inputs: Inputs{
			SurfaceRows: 1,
			Scales:      [2]string{"km", "km"},
		},
		Model:    NewModelPlot(),
		Section:  NewSectionPlot(),
		Map:      NewMapPlot(),
		Fit:      FitConfig{Plot: NewFitPlot(), LCurve: LCurveOptions{Parameter: "structure", Fixed: 1}},
		Response: NewResponsePlot(),
	}
}

// LoadConfig decodes a TOML configuration on top of DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return cfg, errors.Wrapf(ErrParameter, "pek1d: invalid configuration:\n%s", serr.String())
		}
		return cfg, errors.Wrap(err, "pek1d: could not decode configuration")
	}
	if cfg.Figure.Width <= 0 || cfg.Figure.Height <= 0 {
		return cfg, errors.Wrapf(ErrParameter, "pek1d: invalid figure size %vx%v cm", cfg.Figure.Width, cfg.Figure.Height)
	}
	return cfg, nil
}

// ReadConfig reads the TOML configuration file fname.
func ReadConfig(fname string) (Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return Config{}, errors.Wrapf(err, "pek1d: could not open configuration %q", fname)
	}
	defer f.Close()
	return LoadConfig(f)
}
