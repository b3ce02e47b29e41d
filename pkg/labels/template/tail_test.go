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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarcodeTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "comma takes head", code: "1234,56789012", want: "1234"},
		{name: "long head truncated", code: "ABCDEFGHIJ,1", want: "ABCDEFGH"},
		{name: "no comma last eight", code: "9900112233445678", want: "33445678"},
		{name: "non digits filtered", code: "SKU-12-34-56-78-90", want: "34567890"},
		{name: "short code kept", code: "12345", want: "12345"},
		{name: "empty", code: "", want: ""},
		{name: "no digits", code: "ABC", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BarcodeTail(tt.code))
		})
	}
}
