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

// Package instructions parses printer instruction text into a command list,
// detects its dialect and rewrites TSPL documents into a canonical form.
package instructions

import (
	"strings"
	"unicode"
)

// Command is one instruction line. Keyword is the upper-cased first token;
// Args is everything after it.
type Command struct {
	Keyword string
	Args    string
	// raw keeps the original text of parsed lines so untouched commands
	// serialize exactly as received.
	raw string
}

// NewCommand builds a command that serializes as "KEYWORD args".
func NewCommand(keyword, args string) Command {
	return Command{Keyword: strings.ToUpper(keyword), Args: args}
}

// ParseCommand splits a single trimmed line into keyword and arguments.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	kw, args := line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		kw, args = line[:i], strings.TrimSpace(line[i:])
	}
	return Command{
		Keyword: strings.ToUpper(kw),
		Args:    args,
		raw:     line,
	}
}

func (c Command) String() string {
	if c.raw != "" {
		return c.raw
	}
	if c.Args == "" {
		return c.Keyword
	}
	return c.Keyword + " " + c.Args
}

// Fields splits Args on commas that are not inside double quotes. Joining
// the result with "," gives back Args unchanged.
func (c Command) Fields() []string {
	if c.Args == "" {
		return nil
	}
	var (
		fields  []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(c.Args); i++ {
		switch c.Args[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				fields = append(fields, c.Args[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, c.Args[start:])
}

// WithFields returns a copy of c whose arguments are fields joined by
// commas. The copy no longer carries its original text.
func (c Command) WithFields(fields []string) Command {
	return Command{Keyword: c.Keyword, Args: strings.Join(fields, ",")}
}

// lineBreaks folds CRLF and bare CR line endings to LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// parseLines trims the text, drops blank lines and '#' comment lines, and
// parses what is left. Printers fault on comments they read as unknown
// commands.
func parseLines(raw string) []Command {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(lineBreaks.Replace(raw), "\n")
	cmds := make([]Command, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		cmds = append(cmds, ParseCommand(p))
	}
	return cmds
}
