// Copyright 2026 The pek1d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pek1d

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPalette(t *testing.T) {
	for _, name := range []string{"rainbow", "jet", "heat", "blue-red", "black-body", "kindlmann", "jet_r"} {
		t.Run(name, func(t *testing.T) {
			pal, err := NewPalette(name, 7)
			require.NoError(t, err)
			assert.Len(t, pal.Colors(), 7)
		})
	}

	fwd, err := NewPalette("rainbow", 5)
	require.NoError(t, err)
	rev, err := NewPalette("rainbow_r", 5)
	require.NoError(t, err)
	for i, c := range fwd.Colors() {
		assert.Equal(t, c, rev.Colors()[4-i], "color %d", i)
	}

	one, err := NewPalette("heat", 1)
	require.NoError(t, err)
	assert.Len(t, one.Colors(), 1)

	_, err = NewPalette("viridis", 5)
	assert.True(t, errors.Is(err, ErrParameter))
	_, err = NewPalette("jet", 0)
	assert.True(t, errors.Is(err, ErrParameter))
}
