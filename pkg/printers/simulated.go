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
	"encoding/hex"
	"io"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

const (
	SimulatedID      = "simulated"
	SimulatedAddress = "00:00:00:00:00:00"
)

// SimulatedTransport stands in for a printer when no Bluetooth stack is
// available. Payloads are logged as a hex dump and, if Out is set, copied
// to it.
type SimulatedTransport struct {
	Out     io.Writer
	written int
	mu      syncutil.Mutex
}

func NewSimulatedTransport(out io.Writer) *SimulatedTransport {
	return &SimulatedTransport{Out: out}
}

func (*SimulatedTransport) ID() string { return SimulatedID }

func (*SimulatedTransport) IsSupported() bool { return true }

func (*SimulatedTransport) ConnectedDevice() *Device {
	return &Device{Address: SimulatedAddress, Name: "Simulated printer", Connected: true}
}

func (t *SimulatedTransport) PairedDevices(context.Context) ([]Device, error) {
	return []Device{*t.ConnectedDevice()}, nil
}

func (*SimulatedTransport) Connect(context.Context, string) error { return nil }

func (t *SimulatedTransport) WriteRaw(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.written += len(data)
	log.Info().Int("bytes", len(data)).Msg("simulated print")
	log.Debug().Msgf("simulated payload:\n%s", hex.Dump(data))
	if t.Out != nil {
		if _, err := t.Out.Write(data); err != nil {
			return err //nolint:wrapcheck // caller wraps with ErrWriteFailed
		}
	}
	return nil
}

// Written is the total number of bytes accepted so far.
func (t *SimulatedTransport) Written() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.written
}

func (*SimulatedTransport) Close() error { return nil }
