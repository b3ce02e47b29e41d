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

//go:build !linux

package printers

import "context"

// BluezTransport is only available on Linux.
type BluezTransport struct{}

func NewBluezTransport(int) *BluezTransport {
	return &BluezTransport{}
}

func (*BluezTransport) ID() string { return BluezID }

func (*BluezTransport) IsSupported() bool { return false }

func (*BluezTransport) ConnectedDevice() *Device { return nil }

func (*BluezTransport) PairedDevices(context.Context) ([]Device, error) {
	return nil, ErrUnsupported
}

func (*BluezTransport) Connect(context.Context, string) error {
	return ErrUnsupported
}

func (*BluezTransport) WriteRaw([]byte) error {
	return ErrUnsupported
}

func (*BluezTransport) Close() error { return nil }
