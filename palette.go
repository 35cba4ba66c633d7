// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"image/color"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// colors is a palette.Palette backed by a plain list of colors.
type colors []color.Color

func (c colors) Colors() []color.Color { return c }

// NewPalette returns the n-color palette named name.
// Known names are rainbow, jet, heat, blue-red, black-body and
// kindlmann. A "_r" suffix reverses the palette.
func NewPalette(name string, n int) (palette.Palette, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrParameter, "pek1d: invalid palette size %d", n)
	}

	const size = 256
	var (
		base = strings.TrimSuffix(name, "_r")
		rev  = base != name
		pal  palette.Palette
	)
	switch base {
	case "rainbow":
		pal = palette.Rainbow(size, palette.Red, palette.Magenta, 1, 1, 1)
	case "jet":
		pal = palette.Rainbow(size, palette.Blue, palette.Red, 1, 1, 1)
	case "heat":
		pal = palette.Heat(size, 1)
	case "blue-red":
		pal = moreland.SmoothBlueRed().Palette(size)
	case "black-body":
		pal = moreland.BlackBody().Palette(size)
	case "kindlmann":
		pal = moreland.Kindlmann().Palette(size)
	default:
		return nil, errors.Wrapf(ErrParameter, "pek1d: unknown color map %q", name)
	}

	src := pal.Colors()
	out := make(colors, n)
	for i := range out {
		k := i
		if rev {
			k = n - 1 - i
		}
		j := 0
		switch {
		case n > 1:
			j = k * (len(src) - 1) / (n - 1)
		case rev:
			j = len(src) - 1
		}
		out[i] = src[j]
	}
	return out, nil
}
