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

// Package printers delivers assembled payloads to label printers over
// Bluetooth, either a serial port bound to the device or a raw RFCOMM
// socket.
package printers

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected means no device is connected and none could be
	// connected to.
	ErrNotConnected = errors.New("printer not connected")
	// ErrWriteFailed wraps the transport error of a rejected write.
	ErrWriteFailed = errors.New("printer write failed")
	// ErrUnsupported is returned by transports that cannot run on this
	// system.
	ErrUnsupported = errors.New("transport not supported on this system")
)

type Device struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// Transport is a platform Bluetooth stack able to deliver raw bytes to one
// printer at a time.
type Transport interface {
	// ID names the transport in config and logs.
	ID() string
	IsSupported() bool
	// ConnectedDevice returns nil when nothing is connected.
	ConnectedDevice() *Device
	PairedDevices(ctx context.Context) ([]Device, error)
	Connect(ctx context.Context, address string) error
	// WriteRaw sends data in a single write. Bytes are never altered.
	WriteRaw(data []byte) error
	Close() error
}
