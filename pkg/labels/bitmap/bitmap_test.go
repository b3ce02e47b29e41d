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
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/ZaparooProject/labelprint/pkg/labels/instructions"
	"github.com/ZaparooProject/labelprint/pkg/labels/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestRasterisePacksBits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		img    image.Image
		opts   Options
		want   []byte
		widthB int
	}{
		{
			name:   "black is clear bits",
			img:    solid(8, 1, color.Black),
			opts:   Options{WidthDots: 8},
			want:   []byte{0x00},
			widthB: 1,
		},
		{
			name:   "white is set bits",
			img:    solid(8, 1, color.White),
			opts:   Options{WidthDots: 8},
			want:   []byte{0xFF},
			widthB: 1,
		},
		{
			name:   "padding is white",
			img:    solid(10, 1, color.Black),
			opts:   Options{WidthDots: 10},
			want:   []byte{0x00, 0x3F},
			widthB: 2,
		},
		{
			name:   "invert",
			img:    solid(8, 1, color.Black),
			opts:   Options{WidthDots: 8, Invert: true},
			want:   []byte{0xFF},
			widthB: 1,
		},
		{
			name:   "dither black",
			img:    solid(8, 1, color.Black),
			opts:   Options{WidthDots: 8, Mode: ModeDither},
			want:   []byte{0x00},
			widthB: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := Rasterise(tt.img, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.widthB, r.WidthBytes)
			assert.Equal(t, 1, r.Height)
			assert.Equal(t, tt.want, r.Data)
		})
	}
}

func TestRasteriseKeepsAspect(t *testing.T) {
	t.Parallel()

	r, err := Rasterise(solid(100, 50, color.Black), Options{WidthDots: 40})
	require.NoError(t, err)
	assert.Equal(t, 5, r.WidthBytes)
	assert.Equal(t, 20, r.Height)
	assert.Len(t, r.Data, 100)
}

func TestRasteriseDefaultWidth(t *testing.T) {
	t.Parallel()

	r, err := Rasterise(solid(32, 32, color.White), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWidthDots/8, r.WidthBytes)
	assert.Equal(t, DefaultWidthDots, r.Height)
}

func TestRasteriseEmpty(t *testing.T) {
	t.Parallel()

	_, err := Rasterise(image.NewGray(image.Rect(0, 0, 0, 0)), Options{})
	require.ErrorIs(t, err, ErrEmptyImage)
}

func TestDitherHalfGrey(t *testing.T) {
	t.Parallel()

	gray := image.NewGray(image.Rect(0, 0, 16, 16))
	draw.Draw(gray, gray.Bounds(), image.NewUniform(color.Gray{Y: 128}), image.Point{}, draw.Src)

	black := 0
	for _, b := range ditherFloydSteinberg(gray) {
		if b {
			black++
		}
	}
	// roughly half the dots end up black
	assert.InDelta(t, 128, black, 32)
}

func TestCommandStyles(t *testing.T) {
	t.Parallel()

	r := Raster{Data: []byte{0x00, 0xAB}, WidthBytes: 1, Height: 2}

	assert.Equal(t, "BITMAP 4,8,1,2,0,00AB", r.Command(4, 8, StyleHex))
	assert.Equal(t,
		"BITMAP 0,0,1,2,0,"+payload.Base64Start+base64.StdEncoding.EncodeToString(r.Data)+payload.Base64End,
		r.Command(0, 0, StyleBase64))
}

func TestEncodeFeedsAssembler(t *testing.T) {
	t.Parallel()

	for _, style := range []Style{StyleBase64, StyleHex} {
		line, err := Encode(solid(16, 2, color.Black), Options{WidthDots: 16, Style: style, X: 8, Y: 8})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(line, "BITMAP 8,8,2,2,0,"))

		doc, ok := instructions.Normalize("CLS\n" + line + "\nPRINT 1")
		require.True(t, ok)

		p := payload.NewAssembler(payload.EncodingGBK).Assemble(doc)
		var binary [][]byte
		for _, s := range p.Segments() {
			if s.Kind == payload.SegmentBinary {
				binary = append(binary, s.Data)
			}
		}
		require.Len(t, binary, 1)
		assert.Equal(t, []byte{0, 0, 0, 0}, binary[0])
	}
}
