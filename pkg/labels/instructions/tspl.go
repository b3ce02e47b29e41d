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

package instructions

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	// DotsPerMM is the device resolution (203 dpi).
	DotsPerMM = 8

	CanonicalSize = "40 mm,30 mm"
	DefaultFont   = `"TSS24.BF2"`
)

// setupCommands must each appear exactly once, in this order, right after
// SIZE.
var setupCommands = []Command{
	NewCommand("GAP", "2 mm,0 mm"),
	NewCommand("CODEPAGE", "936"),
	NewCommand("CHARSET", "GB18030"),
	NewCommand("REFERENCE", "0,0"),
	NewCommand("DIRECTION", "1"),
	NewCommand("DENSITY", "12"),
}

var (
	unitKeywords = []string{"TEXT", "BARCODE", "QRCODE", "LINE", "BOX"}
	drawKeywords = []string{"TEXT", "BARCODE", "QRCODE", "LINE", "BOX", "BAR", "BITMAP"}

	placeholder = NewCommand("TEXT", `16,16,"3",0,1,1,"-"`)
)

type tspl struct{}

func (tspl) Name() string { return "tspl" }

func (tspl) Detect(cmds []Command) bool {
	return hasKeyword(cmds, "SIZE", "CLS", "PRINT", "BARCODE")
}

// Normalize hoists SIZE and the setup commands into one block at the head,
// in canonical order, so that CLS and drawing always follow the page
// geometry. The first occurrence of each setup command wins; duplicates,
// extra CLS lines and every PRINT are dropped.
func (tspl) Normalize(cmds []Command, opts Options) []Command {
	setup := make(map[string]Command, len(setupCommands))
	body := make([]Command, 0, len(cmds)+3)
	hasCLS := false
	for _, c := range cmds {
		switch {
		case c.Keyword == "SIZE", c.Keyword == "PRINT":
			continue
		case isSetup(c.Keyword):
			if _, ok := setup[c.Keyword]; !ok {
				setup[c.Keyword] = c
			}
			continue
		case c.Keyword == "CLS":
			if hasCLS {
				continue
			}
			hasCLS = true
		case slices.Contains(unitKeywords, c.Keyword):
			c = convertCoordinates(c)
		}
		body = append(body, c)
	}

	out := make([]Command, 0, len(body)+len(setupCommands)+5)
	out = append(out, NewCommand("SIZE", opts.size()))
	for _, def := range setupCommands {
		if c, ok := setup[def.Keyword]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, def)
	}
	if !hasCLS {
		out = append(out, NewCommand("CLS", ""))
	}
	out = append(out, body...)

	cls := indexKeyword(out, "CLS")
	if indexKeyword(out, "FONT") < 0 {
		out = insertAt(out, cls+1, NewCommand("FONT", DefaultFont))
	}

	if !hasKeyword(out, drawKeywords...) {
		at := cls + 1
		if at < len(out) && out[at].Keyword == "FONT" {
			at++
		}
		out = insertAt(out, at, placeholder)
	}

	return append(out, NewCommand("PRINT", strconv.Itoa(opts.copies())))
}

func isSetup(keyword string) bool {
	for _, c := range setupCommands {
		if c.Keyword == keyword {
			return true
		}
	}
	return false
}

// convertCoordinates rewrites the first two arguments from millimetres to
// dots. Later arguments are never touched.
func convertCoordinates(c Command) Command {
	fields := c.Fields()
	changed := false
	for i := 0; i < 2 && i < len(fields); i++ {
		if conv := ConvertUnit(fields[i]); conv != fields[i] {
			fields[i] = conv
			changed = true
		}
	}
	if !changed {
		return c
	}
	return c.WithFields(fields)
}

var mmRe = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*mm\s*$`)

// ConvertUnit turns "<n>mm" into a whole number of dots at 8 dots/mm,
// rounding to nearest. Anything else is returned unchanged.
func ConvertUnit(arg string) string {
	m := mmRe.FindStringSubmatch(arg)
	if m == nil {
		return arg
	}
	mm, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return arg
	}
	return strconv.Itoa(int(math.Round(mm * DotsPerMM)))
}

// IsDrawCommand reports whether keyword puts marks on the label.
func IsDrawCommand(keyword string) bool {
	return slices.Contains(drawKeywords, strings.ToUpper(keyword))
}
