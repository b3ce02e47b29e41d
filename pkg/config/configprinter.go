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

package config

import (
	"fmt"
	"slices"
	"time"
)

const (
	TransportAuto      = "auto"
	TransportBluez     = "bluez"
	TransportSerial    = "serial"
	TransportSimulated = "simulated"
)

var transports = []string{TransportAuto, TransportBluez, TransportSerial, TransportSimulated}

type Printer struct {
	// Transport is one of auto, bluez, serial or simulated.
	Transport string `toml:"transport"`
	// Address is the Bluetooth MAC used by the bluez transport.
	Address string `toml:"address,omitempty"`
	// Port is the serial device used by the serial transport.
	Port          string `toml:"port,omitempty"`
	Encoding      string `toml:"encoding"`
	BaudRate      int    `toml:"baud_rate"`
	RFCOMMChannel int    `toml:"rfcomm_channel"`
	BatchDelayMs  int    `toml:"batch_delay_ms"`
}

func (p Printer) validate() error {
	if !slices.Contains(transports, p.Transport) {
		return fmt.Errorf("invalid printer transport %q, expected one of %v", p.Transport, transports)
	}
	return nil
}

func (c *Instance) Printer() Printer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Printer
}

func (c *Instance) SetPrinterAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Printer.Address = address
}

// BatchDelay is the pause between labels of a batch.
func (c *Instance) BatchDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Printer.BatchDelayMs < 0 {
		return 0
	}
	return time.Duration(c.vals.Printer.BatchDelayMs) * time.Millisecond
}
