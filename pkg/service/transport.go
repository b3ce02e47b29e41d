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

package service

import (
	"context"
	"io"

	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/printers"
	"github.com/rs/zerolog/log"
)

// transportFactories builds each named transport. Tests replace it.
type transportFactories struct {
	bluez  func(channel int) printers.Transport
	serial func(baud int) printers.Transport
}

var defaultFactories = transportFactories{
	bluez:  func(channel int) printers.Transport { return printers.NewBluezTransport(channel) },
	serial: func(baud int) printers.Transport { return printers.NewSerialTransport(baud) },
}

// NewConnection picks the transport named in cfg and wraps it in a
// Connection. With "auto", BlueZ is preferred, then a Bluetooth serial
// port, then simulation. dryRun, when set, receives the bytes instead of
// any printer.
func NewConnection(ctx context.Context, cfg config.Printer, dryRun io.Writer) *printers.Connection {
	return newConnection(ctx, cfg, dryRun, defaultFactories)
}

func newConnection(
	ctx context.Context,
	cfg config.Printer,
	dryRun io.Writer,
	f transportFactories,
) *printers.Connection {
	if dryRun != nil {
		return printers.NewConnection(printers.NewSimulatedTransport(dryRun), "")
	}

	switch cfg.Transport {
	case config.TransportBluez:
		return printers.NewConnection(f.bluez(cfg.RFCOMMChannel), cfg.Address)
	case config.TransportSerial:
		return printers.NewConnection(f.serial(cfg.BaudRate), cfg.Port)
	case config.TransportSimulated:
		return printers.NewConnection(printers.NewSimulatedTransport(nil), "")
	}

	if bz := f.bluez(cfg.RFCOMMChannel); bz.IsSupported() {
		log.Info().Msg("using bluez printer transport")
		return printers.NewConnection(bz, cfg.Address)
	}

	sr := f.serial(cfg.BaudRate)
	if cfg.Port != "" {
		log.Info().Str("port", cfg.Port).Msg("using serial printer transport")
		return printers.NewConnection(sr, cfg.Port)
	}
	if devices, err := sr.PairedDevices(ctx); err == nil && len(devices) > 0 {
		log.Info().Str("port", devices[0].Address).Msg("using serial printer transport")
		return printers.NewConnection(sr, "")
	}

	log.Warn().Msg("no bluetooth printer transport found, prints will be simulated")
	return printers.NewConnection(printers.NewSimulatedTransport(nil), "")
}
