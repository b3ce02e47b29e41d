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
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	SerialID        = "serial"
	DefaultBaudRate = 9600
)

// SerialPort is the subset of a serial port used for printing.
type SerialPort interface {
	Write(p []byte) (n int, err error)
	Close() error
}

// SerialPortFactory opens a serial port.
type SerialPortFactory func(path string, mode *serial.Mode) (SerialPort, error)

// DefaultSerialPortFactory opens real ports with go.bug.st/serial.
func DefaultSerialPortFactory(path string, mode *serial.Mode) (SerialPort, error) {
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return port, nil
}

// SerialTransport prints over a Bluetooth SPP link the OS exposes as a
// serial device: /dev/rfcommN on Linux, /dev/tty.<name> on macOS, COMn on
// Windows.
type SerialTransport struct {
	port        SerialPort
	device      *Device
	portFactory SerialPortFactory
	listPorts   func() ([]string, error)
	goos        string
	baudRate    int
	mu          syncutil.RWMutex
}

func NewSerialTransport(baudRate int) *SerialTransport {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	return &SerialTransport{
		portFactory: DefaultSerialPortFactory,
		listPorts:   serial.GetPortsList,
		goos:        runtime.GOOS,
		baudRate:    baudRate,
	}
}

func (*SerialTransport) ID() string { return SerialID }

func (*SerialTransport) IsSupported() bool { return true }

func (t *SerialTransport) ConnectedDevice() *Device {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.device == nil {
		return nil
	}
	dev := *t.device
	return &dev
}

// PairedDevices lists serial ports that look like Bluetooth links.
func (t *SerialTransport) PairedDevices(_ context.Context) ([]Device, error) {
	ports, err := t.listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to get serial ports list: %w", err)
	}

	connected := t.ConnectedDevice()
	devices := make([]Device, 0, len(ports))
	for _, p := range ports {
		if !isBluetoothPort(t.goos, p) {
			continue
		}
		devices = append(devices, Device{
			Address:   p,
			Name:      portName(p),
			Connected: connected != nil && connected.Address == p,
		})
	}
	return devices, nil
}

func isBluetoothPort(goos, path string) bool {
	switch goos {
	case "linux":
		return strings.HasPrefix(path, "/dev/rfcomm")
	case "darwin":
		return strings.HasPrefix(path, "/dev/tty.") &&
			!strings.HasPrefix(path, "/dev/tty.usb") &&
			path != "/dev/tty.Bluetooth-Incoming-Port"
	case "windows":
		return strings.HasPrefix(path, "COM")
	default:
		return true
	}
}

func portName(path string) string {
	name := filepath.Base(path)
	return strings.TrimPrefix(name, "tty.")
}

func (t *SerialTransport) Connect(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("connect cancelled: %w", err)
	}

	port, err := t.portFactory(address, &serial.Mode{BaudRate: t.baudRate})
	if err != nil {
		return err
	}

	t.mu.Lock()
	old := t.port
	t.port = port
	t.device = &Device{Address: address, Name: portName(address), Connected: true}
	t.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.Debug().Err(err).Msg("closing previous serial port")
		}
	}
	log.Info().Str("port", address).Int("baud", t.baudRate).Msg("opened serial printer port")
	return nil
}

// WriteRaw writes data in one call. A failed write drops the port so the
// next job reconnects.
func (t *SerialTransport) WriteRaw(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return ErrNotConnected
	}

	n, err := t.port.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		_ = t.port.Close()
		t.port = nil
		t.device = nil
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

func (t *SerialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	t.device = nil
	if err != nil {
		return fmt.Errorf("closing serial port: %w", err)
	}
	return nil
}
