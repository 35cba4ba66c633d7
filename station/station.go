// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package station parses station location files.
//
// A station file holds one station per line: a name followed by its x and
// y coordinates, separated by blanks or commas. Blank lines and lines
// starting with '#' are ignored. A first line whose coordinates are not
// numbers is taken as a header.
package station

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/geoviz/pek1d"
	"github.com/pkg/errors"
)

// Parse parses a station stream.
func Parse(r io.Reader) ([]pek1d.Station, error) {
	var (
		stations []pek1d.Station
		seen     = make(map[string]int)
		line     = 0
		data     = 0
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		txt := strings.TrimSpace(sc.Text())
		if len(txt) == 0 || txt[0] == '#' {
			continue
		}
		data++

		tokens := strings.FieldsFunc(txt, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})
		if len(tokens) < 3 {
			return nil, errors.Wrapf(pek1d.ErrLength, "station: line %d: need name, x and y (got %q)", line, txt)
		}

		var (
			sta = pek1d.Station{Name: tokens[0]}
			err error
		)
		sta.X, err = strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			if data == 1 {
				continue
			}
			return nil, errors.Wrapf(err, "station: could not parse x %q at line %d", tokens[1], line)
		}
		sta.Y, err = strconv.ParseFloat(tokens[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "station: could not parse y %q at line %d", tokens[2], line)
		}

		if prev, dup := seen[sta.Name]; dup {
			return nil, errors.Errorf("station: duplicate station %q at lines %d and %d", sta.Name, prev, line)
		}
		seen[sta.Name] = line
		stations = append(stations, sta)
	}

	err := sc.Err()
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "station: could not scan station file")
	}
	if len(stations) == 0 {
		return nil, errors.Wrap(pek1d.ErrMissing, "station: no station")
	}
	return stations, nil
}

// Select returns the stations named in names, in that order.
func Select(all []pek1d.Station, names []string) ([]pek1d.Station, error) {
	idx := make(map[string]int, len(all))
	for i, s := range all {
		idx[s.Name] = i
	}
	out := make([]pek1d.Station, len(names))
	for i, name := range names {
		j, ok := idx[name]
		if !ok {
			return nil, errors.Wrapf(pek1d.ErrMissing, "station: unknown station %q", name)
		}
		out[i] = all[j]
	}
	return out, nil
}
