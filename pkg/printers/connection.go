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

package printers

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// Connection owns a Transport and serializes every send through it, so
// bytes of two jobs never interleave on the wire.
type Connection struct {
	transport Transport
	address   string
	mu        syncutil.Mutex
}

// NewConnection wraps t. When address is set, it is the device connected
// to on demand; otherwise the first paired device is used.
func NewConnection(t Transport, address string) *Connection {
	return &Connection{transport: t, address: address}
}

func (c *Connection) Transport() Transport {
	return c.transport
}

type Status struct {
	Connected *Device  `json:"connected"`
	Transport string   `json:"transport"`
	Paired    []Device `json:"paired"`
	Supported bool     `json:"supported"`
}

// Status reports the transport's view of available devices. Paired device
// enumeration errors are logged and leave Paired empty.
func (c *Connection) Status(ctx context.Context) Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		Transport: c.transport.ID(),
		Supported: c.transport.IsSupported(),
		Paired:    []Device{},
	}
	if !s.Supported {
		return s
	}
	s.Connected = c.transport.ConnectedDevice()
	paired, err := c.transport.PairedDevices(ctx)
	if err != nil {
		log.Warn().Err(err).Str("transport", s.Transport).Msg("listing paired devices")
		return s
	}
	s.Paired = paired
	return s
}

// Send writes data to the connected device, connecting first if needed. It
// makes one write attempt; there is no retry.
func (c *Connection) Send(ctx context.Context, data []byte) (Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.transport.IsSupported() {
		return Device{}, ErrUnsupported
	}

	dev, err := c.ensureConnected(ctx)
	if err != nil {
		return Device{}, err
	}

	if err := c.transport.WriteRaw(data); err != nil {
		log.Error().Err(err).
			Str("device", dev.Address).
			Int("bytes", len(data)).
			Msg("printer write failed")
		return dev, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	log.Info().
		Str("device", dev.Address).
		Int("bytes", len(data)).
		Msg("sent payload to printer")
	return dev, nil
}

func (c *Connection) ensureConnected(ctx context.Context) (Device, error) {
	if dev := c.transport.ConnectedDevice(); dev != nil {
		return *dev, nil
	}

	if err := ctx.Err(); err != nil {
		return Device{}, fmt.Errorf("connecting to printer: %w", err)
	}

	address := c.address
	if address == "" {
		paired, err := c.transport.PairedDevices(ctx)
		if err != nil {
			return Device{}, fmt.Errorf("%w: listing paired devices: %w", ErrNotConnected, err)
		}
		if len(paired) == 0 {
			return Device{}, fmt.Errorf("%w: no paired devices", ErrNotConnected)
		}
		address = paired[0].Address
	}

	log.Info().Str("transport", c.transport.ID()).Str("device", address).Msg("connecting to printer")
	if err := c.transport.Connect(ctx, address); err != nil {
		return Device{}, fmt.Errorf("%w: %s: %w", ErrNotConnected, address, err)
	}

	if dev := c.transport.ConnectedDevice(); dev != nil {
		return *dev, nil
	}
	return Device{Address: address, Connected: true}, nil
}

// Simulated reports whether the connection writes to a SimulatedTransport
// rather than a printer.
func (c *Connection) Simulated() bool {
	_, ok := c.transport.(*SimulatedTransport)
	return ok
}

// Close disconnects the underlying transport.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.transport.Close(); err != nil {
		return fmt.Errorf("closing %s transport: %w", c.transport.ID(), err)
	}
	return nil
}
