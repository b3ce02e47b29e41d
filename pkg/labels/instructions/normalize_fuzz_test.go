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
	"strings"
	"testing"
)

// FuzzNormalize checks that arbitrary text never panics the normalizer and
// that TSPL output is always stable under a second pass.
func FuzzNormalize(f *testing.F) {
	f.Add("CLS\nPRINT 1")
	f.Add("SIZE 40 mm,30 mm\r\nGAP 2 mm,0 mm\r\nCLS\r\nTEXT 10mm,10mm,\"3\",0,1,1,\"x\"\r\nPRINT 1\r\n")
	f.Add("! 0 200 200 210 1\nTEXT 4 0 30 40 Hello\nFORM\nPRINT")
	f.Add("<html><body>Hi</body></html>")
	f.Add("# comment only")
	f.Add("TEXT 1,1,\"unterminated")
	f.Add("BITMAP 0,0,2,1,0,__BINARY_DATA_BASE64__AAE=__END_BINARY__\nPRINT 1")
	f.Add(strings.Repeat("CLS\n", 50))
	f.Add("")

	f.Fuzz(func(t *testing.T, raw string) {
		doc, ok := Normalize(raw)
		if !ok {
			if len(doc.Commands) != 0 {
				t.Fatalf("rejected input produced commands: %q", raw)
			}
			return
		}
		if doc.Dialect != TSPL {
			return
		}

		again, ok := Normalize(doc.String())
		if !ok {
			t.Fatalf("normalized output not recognized: %q", doc.String())
		}
		if again.String() != doc.String() {
			t.Fatalf("second pass changed output:\n%q\n%q", doc.String(), again.String())
		}
		if doc.Count("PRINT") != 1 {
			t.Fatalf("expected one PRINT in %q", doc.String())
		}
	})
}
