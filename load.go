// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/csvutil"
)

// LoadTable reads a whitespace-delimited numeric table from r.
// The first skip lines are header lines. Blank lines and lines starting
// with '#' are ignored. Only the first ncols columns of each row are
// kept; a row with fewer columns is an error.
func LoadTable(r io.Reader, skip, ncols int) ([][]float64, error) {
	var (
		buf  = new(bytes.Buffer)
		sc   = bufio.NewScanner(r)
		line = 0
	)
	for sc.Scan() {
		line++
		if line <= skip {
			continue
		}
		txt := strings.TrimSpace(sc.Text())
		if len(txt) == 0 || txt[0] == '#' {
			continue
		}
		toks := strings.Fields(txt)
		if len(toks) < ncols {
			return nil, errors.Wrapf(ErrLength, "pek1d: line %d has %d columns, want %d", line, len(toks), ncols)
		}
		buf.WriteString(strings.Join(toks[:ncols], ","))
		buf.WriteString("\n")
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "pek1d: could not scan table")
	}

	tbl := &csvutil.Table{
		Reader: csv.NewReader(buf),
	}
	defer tbl.Close()

	rows, err := tbl.ReadRows(0, -1)
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not read rows")
	}
	defer rows.Close()

	var out [][]float64
	for rows.Next() {
		row := make([]float64, ncols)
		dst := make([]interface{}, ncols)
		for i := range row {
			dst[i] = &row[i]
		}
		err = rows.Scan(dst...)
		if err != nil {
			return nil, errors.Wrapf(err, "pek1d: could not scan row %d", len(out))
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		if err != io.EOF {
			return nil, errors.Wrap(err, "pek1d: error while processing rows")
		}
	}

	return out, nil
}

// LoadModels reads a model file with columns
// (index, depth, resmin, resmax, strike). Contiguous rows sharing the
// same index form one model.
func LoadModels(r io.Reader, skip int) ([]Model, error) {
	rows, err := LoadTable(r, skip, 5)
	if err != nil {
		return nil, errors.Wrap(err, "pek1d: could not load model")
	}

	var (
		ms  []Model
		cur Model
	)
	for i, row := range rows {
		if i > 0 && row[0] != rows[i-1][0] {
			ms = append(ms, cur)
			cur = nil
		}
		cur = append(cur, Row{
			Index:  row[0],
			Depth:  row[1],
			ResMin: row[2],
			ResMax: row[3],
			Strike: row[4],
		})
	}
	if len(cur) == 0 {
		return nil, errors.Wrap(ErrMissing, "pek1d: empty model file")
	}
	ms = append(ms, cur)
	for i, m := range ms {
		if err := m.Validate(); err != nil {
			return nil, errors.Wrapf(err, "pek1d: invalid model %d", i+1)
		}
	}
	return ms, nil
}

// LoadFit reads a fit table with columns
// (penalty_anisotropy, penalty_structure, misfit, weight_anisotropy, weight_structure).
func LoadFit(r io.Reader, skip int) (Fit, error) {
	rows, err := LoadTable(r, skip, 5)
	if err != nil {
		return Fit{}, errors.Wrap(err, "pek1d: could not load fit")
	}
	fit := Fit{MisfitThreshold: DefaultMisfitThreshold}
	for _, row := range rows {
		fit.PenaltyAnisotropy = append(fit.PenaltyAnisotropy, row[0])
		fit.PenaltyStructure = append(fit.PenaltyStructure, row[1])
		fit.Misfit = append(fit.Misfit, row[2])
		fit.WeightAnisotropy = append(fit.WeightAnisotropy, row[3])
		fit.WeightStructure = append(fit.WeightStructure, row[4])
	}
	return fit, fit.Validate()
}

// LoadSurface reads an (x, y, z) surface. When aniso is true the table
// must also carry (resmin, resmax, strike) columns.
func LoadSurface(r io.Reader, skip int, aniso bool) (Surface, error) {
	ncols := 3
	if aniso {
		ncols = 6
	}
	rows, err := LoadTable(r, skip, ncols)
	if err != nil {
		return Surface{}, errors.Wrap(err, "pek1d: could not load surface")
	}
	var s Surface
	for _, row := range rows {
		s.X = append(s.X, row[0])
		s.Y = append(s.Y, row[1])
		s.Z = append(s.Z, row[2])
		if aniso {
			s.ResMin = append(s.ResMin, row[3])
			s.ResMax = append(s.ResMax, row[4])
			s.Strike = append(s.Strike, row[5])
		}
	}
	if s.Len() == 0 {
		return s, errors.Wrap(ErrMissing, "pek1d: empty surface")
	}
	return s, nil
}

// LoadResponse reads a response table: frequency followed by
// (res, res_err, phase, phase_err) for each of the xx, xy, yx and yy
// components.
func LoadResponse(r io.Reader, skip int) (Response, error) {
	rows, err := LoadTable(r, skip, 17)
	if err != nil {
		return Response{}, errors.Wrap(err, "pek1d: could not load response")
	}
	var resp Response
	for _, row := range rows {
		var res, rerr, pha, perr Tensor
		for k := 0; k < 4; k++ {
			i, j := k/2, k%2
			base := 1 + 4*k
			res[i][j] = row[base]
			rerr[i][j] = row[base+1]
			pha[i][j] = row[base+2]
			perr[i][j] = row[base+3]
		}
		resp.Freq = append(resp.Freq, row[0])
		resp.Res = append(resp.Res, res)
		resp.ResErr = append(resp.ResErr, rerr)
		resp.Phase = append(resp.Phase, pha)
		resp.PhaseErr = append(resp.PhaseErr, perr)
	}
	return resp, resp.Validate()
}

// WriteGrid writes the nodes of g as tab-separated (x, y, z) rows,
// column by column.
func WriteGrid(fname string, g *Grid) error {
	tbl, err := csvutil.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "pek1d: could not create grid file %q", fname)
	}
	defer tbl.Close()

	tbl.Writer.Comma = '\t'

	cols, rows := g.Dims()
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			err = tbl.WriteRow(g.X(c), g.Y(r), g.Z(c, r))
			if err != nil {
				return errors.Wrapf(err, "pek1d: could not write grid node (%d, %d)", c, r)
			}
		}
	}

	err = tbl.Close()
	if err != nil {
		return errors.Wrapf(err, "pek1d: could not close grid file %q", fname)
	}
	return nil
}
