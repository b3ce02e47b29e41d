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

package payload

import (
	"errors"
	"fmt"
)

var errEmptyBitmap = errors.New("bitmap command has no data")

func errInvalidHexToken(tok string, err error) error {
	return fmt.Errorf("invalid hex byte %q: %w", tok, err)
}

func errInvalidHex(err error) error {
	return fmt.Errorf("invalid hex bitmap data: %w", err)
}
