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

// Package bitmap rasterises images into TSPL BITMAP commands.
package bitmap

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/ZaparooProject/labelprint/pkg/labels/payload"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// Style selects how bitmap data is embedded in the command text.
type Style int

const (
	// StyleBase64 wraps the data in the binary sentinels.
	StyleBase64 Style = iota
	// StyleHex writes the data inline as a continuous hex string.
	StyleHex
)

// Mode is the 1-bit conversion applied after scaling.
type Mode int

const (
	ModeThreshold Mode = iota
	ModeDither
)

// DefaultWidthDots spans a 40 mm label at 8 dots/mm.
const DefaultWidthDots = 320

var ErrEmptyImage = errors.New("image has no pixels")

type Options struct {
	X         int
	Y         int
	WidthDots int
	Mode      Mode
	Style     Style
	// Invert swaps black and white in the packed data.
	Invert bool
}

// Raster is a packed 1-bit image, row-major, MSB first. A set bit is a
// white dot, which is what TSPL's overwrite mode expects.
type Raster struct {
	Data       []byte
	WidthBytes int
	Height     int
}

// Rasterise scales img to opts.WidthDots (keeping aspect ratio), converts
// it to grayscale and packs it to one bit per dot.
func Rasterise(img image.Image, opts Options) (Raster, error) {
	src := img.Bounds()
	if src.Dx() <= 0 || src.Dy() <= 0 {
		return Raster{}, ErrEmptyImage
	}

	width := opts.WidthDots
	if width <= 0 {
		width = DefaultWidthDots
	}
	height := src.Dy() * width / src.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)

	gray := image.NewGray(dst.Bounds())
	draw.Draw(gray, gray.Bounds(), dst, image.Point{}, draw.Src)

	var black []bool
	switch opts.Mode {
	case ModeDither:
		black = ditherFloydSteinberg(gray)
	default:
		black = thresholdAverage(gray)
	}

	r := pack(black, width, height, opts.Invert)
	log.Debug().
		Int("width_dots", width).
		Int("height_dots", height).
		Int("bytes", len(r.Data)).
		Msg("rasterised image")
	return r, nil
}

func pack(black []bool, width, height int, invert bool) Raster {
	widthBytes := (width + 7) / 8
	data := make([]byte, widthBytes*height)
	for y := range height {
		for bx := range widthBytes {
			var b byte
			for bit := range 8 {
				x := bx*8 + bit
				white := x >= width || !black[y*width+x]
				if white != invert {
					b |= 1 << (7 - bit)
				}
			}
			data[y*widthBytes+bx] = b
		}
	}
	return Raster{Data: data, WidthBytes: widthBytes, Height: height}
}

// Command renders r as a single BITMAP command line without terminator.
func (r Raster) Command(x, y int, style Style) string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "BITMAP %d,%d,%d,%d,0,", x, y, r.WidthBytes, r.Height)
	switch style {
	case StyleHex:
		sb.WriteString(strings.ToUpper(hex.EncodeToString(r.Data)))
	default:
		sb.WriteString(payload.Base64Start)
		sb.WriteString(base64.StdEncoding.EncodeToString(r.Data))
		sb.WriteString(payload.Base64End)
	}
	return sb.String()
}

// Encode rasterises img and returns the BITMAP command line for it.
func Encode(img image.Image, opts Options) (string, error) {
	r, err := Rasterise(img, opts)
	if err != nil {
		return "", err
	}
	return r.Command(opts.X, opts.Y, opts.Style), nil
}

// thresholdAverage marks every dot at or below the image's mean brightness
// as black.
func thresholdAverage(gray *image.Gray) []bool {
	b := gray.Bounds()
	total := b.Dx() * b.Dy()
	sum := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sum += int(gray.GrayAt(x, y).Y)
		}
	}
	average := sum / total

	out := make([]bool, total)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// a uniformly white image stays white
			v := int(gray.GrayAt(x, y).Y)
			out[i] = v <= average && v < 255
			i++
		}
	}
	return out
}

func ditherFloydSteinberg(gray *image.Gray) []bool {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	vals := make([]int, width*height)
	for y := range height {
		for x := range width {
			vals[y*width+x] = int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}

	out := make([]bool, width*height)
	for y := range height {
		for x := range width {
			i := y*width + x
			old := vals[i]
			level := 255
			if old < 128 {
				level = 0
				out[i] = true
			}
			e := old - level
			if x+1 < width {
				vals[i+1] += e * 7 / 16
			}
			if y+1 < height {
				if x > 0 {
					vals[i+width-1] += e * 3 / 16
				}
				vals[i+width] += e * 5 / 16
				if x+1 < width {
					vals[i+width+1] += e / 16
				}
			}
		}
	}
	return out
}
