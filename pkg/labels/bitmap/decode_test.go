// Labelprint
// Copyright (c) 2026 The Labelprint Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Labelprint.
//
// Labelprint is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Labelprint is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Labelprint.  If not, see <http://www.gnu.org/licenses/>.

package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func checker(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestDecodeFormats(t *testing.T) {
	t.Parallel()

	src := checker(8, 4)

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, src))
	var bmpBuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpBuf, src))

	tests := []struct {
		name   string
		format string
		data   []byte
	}{
		{name: "png", data: pngBuf.Bytes(), format: "png"},
		{name: "bmp", data: bmpBuf.Bytes(), format: "bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			img, format, err := Decode(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)
}

func TestParseModeAndStyle(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("Dither")
	require.NoError(t, err)
	assert.Equal(t, ModeDither, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeThreshold, m)

	_, err = ParseMode("halftone")
	require.Error(t, err)

	s, err := ParseStyle("hex")
	require.NoError(t, err)
	assert.Equal(t, StyleHex, s)

	_, err = ParseStyle("raw")
	require.Error(t, err)
}
