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

package template

import "strings"

const tailLength = 8

// BarcodeTail derives the short verification number printed under a
// barcode. With a comma the part before it is used, cut to 8 characters;
// otherwise the last 8 digits of the code.
func BarcodeTail(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	if head, _, ok := strings.Cut(code, ","); ok {
		head = strings.TrimSpace(head)
		if r := []rune(head); len(r) > tailLength {
			return string(r[:tailLength])
		}
		return head
	}

	digits := make([]rune, 0, len(code))
	for _, r := range code {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > tailLength {
		digits = digits[len(digits)-tailLength:]
	}
	return string(digits)
}
