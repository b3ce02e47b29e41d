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

import "fmt"

// Options tunes normalization.
type Options struct {
	// Size replaces every SIZE argument. Empty means CanonicalSize.
	Size string
	// Copies is the count written into the single trailing PRINT command.
	// Zero or negative means 1.
	Copies int
}

// SizeMM formats a label size as a SIZE argument.
func SizeMM(widthMM, heightMM int) string {
	return fmt.Sprintf("%d mm,%d mm", widthMM, heightMM)
}

func (o Options) size() string {
	if o.Size == "" {
		return CanonicalSize
	}
	return o.Size
}

func (o Options) copies() int {
	if o.Copies <= 0 {
		return 1
	}
	return o.Copies
}

// Normalizer rewrites raw instruction text into a device-safe Document.
type Normalizer struct {
	Options Options
}

// Normalize parses raw, detects its dialect and applies that dialect's
// rewrite rules. ok is false when raw is not recognizable printer
// instructions; nothing is produced in that case.
func (n Normalizer) Normalize(raw string) (doc Document, ok bool) {
	cmds := parseLines(raw)
	d, ok := detect(cmds)
	if !ok {
		return Document{}, false
	}
	return Document{
		Dialect:  d,
		Commands: d.Normalize(cmds, n.Options),
	}, true
}

// Normalize uses default options, ending TSPL documents with PRINT 1.
func Normalize(raw string) (Document, bool) {
	return Normalizer{}.Normalize(raw)
}
