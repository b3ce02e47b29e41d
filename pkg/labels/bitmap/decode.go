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
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// MaxDecodePixels bounds the source image before it is decoded.
const MaxDecodePixels = 4096 * 4096

// Decode reads a PNG, JPEG, GIF, BMP, TIFF or WebP image. The header is
// checked first so oversized images are rejected without decoding them.
func Decode(r io.ReadSeeker) (image.Image, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading image header: %w", err)
	}
	if cfg.Width*cfg.Height > MaxDecodePixels {
		return nil, format, fmt.Errorf("image is %dx%d, larger than %d pixels", cfg.Width, cfg.Height, MaxDecodePixels)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, format, fmt.Errorf("rewinding image: %w", err)
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, format, fmt.Errorf("decoding %s image: %w", format, err)
	}
	return img, format, nil
}

// ParseMode maps "threshold" or "dither" to a Mode. Empty means threshold.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "threshold":
		return ModeThreshold, nil
	case "dither":
		return ModeDither, nil
	default:
		return ModeThreshold, fmt.Errorf("unknown bitmap mode: %s", name)
	}
}

// ParseStyle maps "base64" or "hex" to a Style. Empty means base64.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "base64":
		return StyleBase64, nil
	case "hex":
		return StyleHex, nil
	default:
		return StyleBase64, fmt.Errorf("unknown bitmap style: %s", name)
	}
}
