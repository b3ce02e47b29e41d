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
	"regexp"
	"slices"
)

// Dialect is a printer instruction language the normalizer understands.
type Dialect interface {
	// Name is a short lowercase identifier such as "tspl".
	Name() string
	// Detect reports whether the parsed lines look like this dialect.
	Detect(cmds []Command) bool
	// Normalize rewrites the parsed lines into the form sent to devices.
	Normalize(cmds []Command, opts Options) []Command
}

var (
	TSPL Dialect = tspl{}
	CPCL Dialect = cpcl{}
)

// detectOrder matters: CPCL documents also end in PRINT, so CPCL is tried
// before TSPL.
var detectOrder = []Dialect{CPCL, TSPL}

// Detect identifies the dialect of raw instruction text. It returns false
// for anything that is not printer instructions, such as an HTML page.
func Detect(raw string) (Dialect, bool) {
	return detect(parseLines(raw))
}

func detect(cmds []Command) (Dialect, bool) {
	if len(cmds) == 0 {
		return nil, false
	}
	for _, d := range detectOrder {
		if d.Detect(cmds) {
			return d, true
		}
	}
	return nil, false
}

// ByName looks up a dialect by its Name.
func ByName(name string) (Dialect, bool) {
	for _, d := range detectOrder {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

func hasKeyword(cmds []Command, keywords ...string) bool {
	for _, c := range cmds {
		if slices.Contains(keywords, c.Keyword) {
			return true
		}
	}
	return false
}

var cpclHeaderRe = regexp.MustCompile(`^!\s*\d`)

type cpcl struct{}

func (cpcl) Name() string { return "cpcl" }

func (cpcl) Detect(cmds []Command) bool {
	if cpclHeaderRe.MatchString(cmds[0].String()) {
		return true
	}
	return hasKeyword(cmds, "PAGE-WIDTH", "EG", "FORM", "LABEL")
}

// Normalize leaves CPCL as received; only comments were stripped.
func (cpcl) Normalize(cmds []Command, _ Options) []Command {
	return slices.Clone(cmds)
}
