// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pek1d-plot renders figures of 1-D anisotropic inversion results.
//
// Usage:
//
//	pek1d-plot [options] figure...
//
// where figure is one of model, section, location, interface, aniso-map,
// aniso-interfaces, lcurve-contour, lcurve and response.
// Figures are rendered concurrently, each into its own file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/geoviz/pek1d"
	"github.com/geoviz/pek1d/station"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func main() {
	log.SetPrefix("pek1d-plot: ")
	log.SetFlags(0)

	var (
		cfgname = flag.String("config", "", "path to a TOML configuration file")
		workdir = flag.String("dir", "", "working directory (overrides the configuration)")
		format  = flag.String("format", "", "output format: png, jpg, tiff, svg, pdf or eps")
		grid    = flag.String("grid", "", "write the gridded interface surface to this file")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pek1d-plot [options] figure...\n\nfigures: %s\n\noptions:\n",
			strings.Join(figureNames(), ", "),
		)
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg := pek1d.DefaultConfig()
	if *cfgname != "" {
		var err error
		cfg, err = pek1d.ReadConfig(*cfgname)
		if err != nil {
			log.Fatalf("could not read configuration: %+v", err)
		}
	}
	if *workdir != "" {
		cfg.Figure.Workdir = *workdir
	}
	if *format != "" {
		cfg.Figure.Format = *format
	}

	names := flag.Args()
	if len(names) == 0 {
		names = []string{"model"}
	}

	log.Printf("workdir: %v", cfg.Figure.Workdir)
	log.Printf("figures: %v", names)

	var grp errgroup.Group
	for _, name := range names {
		fig, ok := figures[name]
		if !ok {
			flag.Usage()
			log.Fatalf("unknown figure %q", name)
		}
		grp.Go(func() error {
			err := render(cfg, name, fig)
			if err != nil {
				return errors.Wrapf(err, "could not render figure %q", name)
			}
			return nil
		})
	}

	if *grid != "" {
		grp.Go(func() error {
			return dumpGrid(cfg, *grid)
		})
	}

	err := grp.Wait()
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

// figure prepares the inputs of a figure and returns its output name
// and its drawing function.
type figure func(cfg pek1d.Config) (string, func(dc draw.Canvas) error, error)

var figures = map[string]figure{
	"model":            modelFigure,
	"section":          sectionFigure,
	"location":         locationFigure,
	"interface":        interfaceFigure,
	"aniso-map":        anisoMapFigure,
	"aniso-interfaces": anisoInterfacesFigure,
	"lcurve-contour":   lcurveContourFigure,
	"lcurve":           lcurveFigure,
	"response":         responseFigure,
}

func figureNames() []string {
	names := make([]string, 0, len(figures))
	for name := range figures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func render(cfg pek1d.Config, name string, fig figure) error {
	oname, fn, err := fig(cfg)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(oname) {
		oname = filepath.Join(cfg.Figure.Workdir, oname)
	}

	w, h := cfg.Figure.Size()
	if name == "aniso-interfaces" {
		aspect, err := anisoAspect(cfg)
		if err != nil {
			return err
		}
		h = w * vg.Length(aspect)
	}

	err = pek1d.Save(oname, w, h, fn)
	if err != nil {
		return err
	}
	log.Printf("figure %q saved to %s", name, oname)
	return nil
}

// outputName returns the explicit output name or one derived from the
// working directory and the provided parameters.
func outputName(cfg pek1d.Config, output string, params ...string) string {
	if output != "" {
		return output
	}
	return pek1d.OutputFilename(cfg.Figure.Workdir, params, "."+cfg.Figure.Format)
}

func modelFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	mp := cfg.Model
	var model, inmodel pek1d.Model
	if cfg.Inputs.Model != "" {
		ms, err := loadModels(cfg.Inputs.Model, cfg.Inputs.HeaderRows)
		if err != nil {
			return "", nil, err
		}
		model, err = pek1d.SelectModel(ms, mp.ModelNo)
		if err != nil {
			return "", nil, err
		}
	}
	if cfg.Inputs.InModel != "" {
		ms, err := loadModels(cfg.Inputs.InModel, cfg.Inputs.HeaderRows)
		if err != nil {
			return "", nil, err
		}
		inmodel = ms[0]
	}
	ds, err := mp.Datasets(model, inmodel)
	if err != nil {
		return "", nil, err
	}
	return mp.OutputFilename(cfg.Figure.Workdir, "."+cfg.Figure.Format), func(dc draw.Canvas) error {
		return mp.Plot(dc, ds)
	}, nil
}

func sectionFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	sp := cfg.Section
	all, err := loadStations(cfg.Inputs.Stations)
	if err != nil {
		return "", nil, err
	}

	sites := make([]pek1d.Site, len(cfg.Inputs.Sites))
	for i, sf := range cfg.Inputs.Sites {
		sta, err := station.Select(all, []string{sf.Name})
		if err != nil {
			return "", nil, err
		}
		sites[i].Station = sta[0]
		if sf.Model != "" {
			ms, err := loadModels(sf.Model, cfg.Inputs.HeaderRows)
			if err != nil {
				// reported and left out of the section by SectionPlot.
				log.Printf("station %q: %v", sf.Name, err)
			}
			sites[i].Models = ms
		}
		if sf.InModel != "" && sp.PlotInModel {
			ms, err := loadModels(sf.InModel, cfg.Inputs.HeaderRows)
			if err != nil {
				return "", nil, err
			}
			sites[i].InModel = ms[0]
		}
	}

	var elev pek1d.Elevator
	if len(sp.Horizons) > 0 {
		e, err := pek1d.LoadSurfaceElevator(cfg.Inputs.Horizons, cfg.Inputs.SurfaceRows)
		if err != nil {
			return "", nil, err
		}
		elev = e
	}

	return sp.OutputFilename(cfg.Figure.Workdir, "."+cfg.Figure.Format), func(dc draw.Canvas) error {
		res, err := sp.Plot(dc, sites, elev)
		if err != nil {
			return err
		}
		if n := len(res.Skipped); n > 0 {
			log.Printf("section: %d station(s) omitted", n)
		}
		return nil
	}, nil
}

func locationFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	all, err := loadStations(cfg.Inputs.Stations)
	if err != nil {
		return "", nil, err
	}
	names := make([]string, len(cfg.Inputs.Sites))
	for i, sf := range cfg.Inputs.Sites {
		names[i] = sf.Name
	}
	profile, err := station.Select(all, names)
	if err != nil {
		return "", nil, err
	}
	sp := cfg.Section
	return outputName(cfg, "", "location"), func(dc draw.Canvas) error {
		return sp.LocationMap(dc, all, profile)
	}, nil
}

func interfaceFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	if len(cfg.Inputs.Interfaces) == 0 {
		return "", nil, errors.Wrap(pek1d.ErrMissing, "no interface file")
	}
	s, err := loadSurface(cfg.Inputs.Interfaces[0], cfg.Inputs.SurfaceRows, false)
	if err != nil {
		return "", nil, err
	}
	mp := cfg.Map
	return outputName(cfg, mp.Output, "interface"), func(dc draw.Canvas) error {
		return mp.PlotInterface(dc, s.X, s.Y, s.Z, cfg.Inputs.Scales[1])
	}, nil
}

func anisoMapFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	s, err := loadSurface(cfg.Inputs.AnisoSurface, cfg.Inputs.SurfaceRows, true)
	if err != nil {
		return "", nil, err
	}
	mp := cfg.Map
	return outputName(cfg, mp.Output, "aniso", "map"), func(dc draw.Canvas) error {
		return mp.PlotAnisoDepthMap(dc, s, cfg.Inputs.Scales[0])
	}, nil
}

func anisoInterfacesFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	aniso, err := loadSurface(cfg.Inputs.AnisoSurface, cfg.Inputs.SurfaceRows, true)
	if err != nil {
		return "", nil, err
	}
	var ifaces []pek1d.Surface
	for _, fname := range cfg.Inputs.Interfaces {
		s, err := loadSurface(fname, cfg.Inputs.SurfaceRows, false)
		if err != nil {
			return "", nil, err
		}
		ifaces = append(ifaces, s)
	}
	mp := cfg.Map
	return outputName(cfg, mp.Output, "aniso", "interfaces"), func(dc draw.Canvas) error {
		return mp.PlotAnisoAndInterfaces(dc, aniso, ifaces, cfg.Inputs.Scales)
	}, nil
}

func anisoAspect(cfg pek1d.Config) (float64, error) {
	aniso, err := loadSurface(cfg.Inputs.AnisoSurface, cfg.Inputs.SurfaceRows, true)
	if err != nil {
		return 0, err
	}
	return pek1d.FigureAspect(aniso, len(cfg.Inputs.Interfaces))
}

func lcurveContourFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	fit, err := loadFit(cfg.Inputs.Fit, cfg.Inputs.HeaderRows)
	if err != nil {
		return "", nil, err
	}
	fp := cfg.Fit.Plot
	return outputName(cfg, fp.Output, "lcurve", "contour"), func(dc draw.Canvas) error {
		return fp.PlotLCurveContourMap(dc, fit, cfg.Fit.Contour)
	}, nil
}

func lcurveFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	fit, err := loadFit(cfg.Inputs.Fit, cfg.Inputs.HeaderRows)
	if err != nil {
		return "", nil, err
	}
	var (
		fp = cfg.Fit.Plot
		lc = cfg.Fit.LCurve
	)
	return outputName(cfg, lc.Output, "lcurve", lc.Parameter), func(dc draw.Canvas) error {
		return fp.PlotLCurve(dc, fit, lc.Parameter, lc.Fixed)
	}, nil
}

func responseFigure(cfg pek1d.Config) (string, func(draw.Canvas) error, error) {
	data, err := loadResponse(cfg.Inputs.ResponseData, cfg.Inputs.HeaderRows)
	if err != nil {
		return "", nil, err
	}
	model, err := loadResponse(cfg.Inputs.ResponseModel, cfg.Inputs.HeaderRows)
	if err != nil {
		return "", nil, err
	}
	rp := cfg.Response
	if rp.Title == "" {
		rp.Title = strings.TrimSuffix(filepath.Base(cfg.Inputs.ResponseData), filepath.Ext(cfg.Inputs.ResponseData))
	}
	return outputName(cfg, rp.Output, "response"), func(dc draw.Canvas) error {
		return rp.Plot(dc, data, model)
	}, nil
}

func dumpGrid(cfg pek1d.Config, oname string) error {
	if len(cfg.Inputs.Interfaces) == 0 {
		return errors.Wrap(pek1d.ErrMissing, "no interface file to grid")
	}
	s, err := loadSurface(cfg.Inputs.Interfaces[0], cfg.Inputs.SurfaceRows, false)
	if err != nil {
		return err
	}
	method, err := pek1d.ParseMethod(cfg.Map.IMethod)
	if err != nil {
		return err
	}
	mesh, err := pek1d.BoundsMesh(s.X, s.Y, cfg.Map.NX, cfg.Map.NY)
	if err != nil {
		return err
	}
	g, err := pek1d.Interpolate(s.X, s.Y, pek1d.UpdateScale(s.Z, cfg.Inputs.Scales[1]), method, mesh)
	if err != nil {
		return errors.Wrap(err, "could not grid interface")
	}
	err = pek1d.WriteGrid(oname, g)
	if err != nil {
		return err
	}
	log.Printf("grid (%s, %dx%d) saved to %s", method, cfg.Map.NX, cfg.Map.NY, oname)
	return nil
}

func open(fname, what string, fn func(r io.Reader) error) error {
	if fname == "" {
		return errors.Wrapf(pek1d.ErrMissing, "no %s file", what)
	}
	f, err := os.Open(fname)
	if err != nil {
		return errors.Wrapf(err, "could not open %s file", what)
	}
	defer f.Close()
	err = fn(f)
	if err != nil {
		return errors.Wrapf(err, "could not load %s file %q", what, fname)
	}
	return nil
}

func loadModels(fname string, skip int) ([]pek1d.Model, error) {
	var ms []pek1d.Model
	err := open(fname, "model", func(r io.Reader) error {
		var err error
		ms, err = pek1d.LoadModels(r, skip)
		return err
	})
	return ms, err
}

func loadFit(fname string, skip int) (pek1d.Fit, error) {
	var fit pek1d.Fit
	err := open(fname, "fit", func(r io.Reader) error {
		var err error
		fit, err = pek1d.LoadFit(r, skip)
		return err
	})
	return fit, err
}

func loadSurface(fname string, skip int, aniso bool) (pek1d.Surface, error) {
	var s pek1d.Surface
	err := open(fname, "surface", func(r io.Reader) error {
		var err error
		s, err = pek1d.LoadSurface(r, skip, aniso)
		return err
	})
	return s, err
}

func loadResponse(fname string, skip int) (pek1d.Response, error) {
	var resp pek1d.Response
	err := open(fname, "response", func(r io.Reader) error {
		var err error
		resp, err = pek1d.LoadResponse(r, skip)
		return err
	})
	return resp, err
}

func loadStations(fname string) ([]pek1d.Station, error) {
	var all []pek1d.Station
	err := open(fname, "station", func(r io.Reader) error {
		var err error
		all, err = station.Parse(r)
		return err
	})
	return all, err
}
