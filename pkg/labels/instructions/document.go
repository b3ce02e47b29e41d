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

import "strings"

// LineTerminator ends every serialized command.
const LineTerminator = "\r\n"

// Document is a normalized instruction stream in a known dialect.
type Document struct {
	Dialect  Dialect
	Commands []Command
}

// String serializes the document with CRLF line endings, including a
// trailing terminator after the last command.
func (d Document) String() string {
	var sb strings.Builder
	for _, c := range d.Commands {
		sb.WriteString(c.String())
		sb.WriteString(LineTerminator)
	}
	return sb.String()
}

// Count returns how many commands use keyword.
func (d Document) Count(keyword string) int {
	return countKeyword(d.Commands, keyword)
}

// DialectName is the dialect's name, or "" for a zero Document.
func (d Document) DialectName() string {
	if d.Dialect == nil {
		return ""
	}
	return d.Dialect.Name()
}

func countKeyword(cmds []Command, keyword string) int {
	n := 0
	for _, c := range cmds {
		if c.Keyword == keyword {
			n++
		}
	}
	return n
}

func indexKeyword(cmds []Command, keyword string) int {
	for i, c := range cmds {
		if c.Keyword == keyword {
			return i
		}
	}
	return -1
}

func insertAt(cmds []Command, i int, c Command) []Command {
	cmds = append(cmds, Command{})
	copy(cmds[i+1:], cmds[i:])
	cmds[i] = c
	return cmds
}
