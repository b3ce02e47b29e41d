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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	writeErr error
	written  []byte
	short    bool
	closed   bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.short {
		return len(b) / 2, nil
	}
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func newTestSerial(goos string, ports []string, port *fakePort) (*SerialTransport, *serial.Mode) {
	var opened serial.Mode
	t := NewSerialTransport(0)
	t.goos = goos
	t.listPorts = func() ([]string, error) { return ports, nil }
	t.portFactory = func(_ string, mode *serial.Mode) (SerialPort, error) {
		opened = *mode
		return port, nil
	}
	return t, &opened
}

func TestSerialPairedDevices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		goos  string
		ports []string
		want  []string
	}{
		{
			name:  "linux rfcomm only",
			goos:  "linux",
			ports: []string{"/dev/ttyUSB0", "/dev/rfcomm0", "/dev/ttyS0", "/dev/rfcomm1"},
			want:  []string{"/dev/rfcomm0", "/dev/rfcomm1"},
		},
		{
			name: "darwin skips usb and incoming port",
			goos: "darwin",
			ports: []string{
				"/dev/tty.usbserial-1410", "/dev/tty.Bluetooth-Incoming-Port",
				"/dev/tty.GP-M322", "/dev/cu.GP-M322",
			},
			want: []string{"/dev/tty.GP-M322"},
		},
		{
			name:  "windows com",
			goos:  "windows",
			ports: []string{"COM3", "COM7"},
			want:  []string{"COM3", "COM7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr, _ := newTestSerial(tt.goos, tt.ports, &fakePort{})
			devices, err := tr.PairedDevices(context.Background())
			require.NoError(t, err)

			got := make([]string, 0, len(devices))
			for _, d := range devices {
				got = append(got, d.Address)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerialPortName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "GP-M322", portName("/dev/tty.GP-M322"))
	assert.Equal(t, "rfcomm0", portName("/dev/rfcomm0"))
	assert.Equal(t, "COM3", portName("COM3"))
}

func TestSerialConnectAndWrite(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	tr, mode := newTestSerial("linux", nil, port)

	assert.Nil(t, tr.ConnectedDevice())
	require.ErrorIs(t, tr.WriteRaw([]byte("x")), ErrNotConnected)

	require.NoError(t, tr.Connect(context.Background(), "/dev/rfcomm0"))
	assert.Equal(t, DefaultBaudRate, mode.BaudRate)

	dev := tr.ConnectedDevice()
	require.NotNil(t, dev)
	assert.Equal(t, "/dev/rfcomm0", dev.Address)
	assert.True(t, dev.Connected)

	payload := []byte{0x00, 0xFF, '\r', '\n'}
	require.NoError(t, tr.WriteRaw(payload))
	assert.Equal(t, payload, port.written)

	require.NoError(t, tr.Close())
	assert.True(t, port.closed)
	assert.Nil(t, tr.ConnectedDevice())
}

func TestSerialWriteFailureDropsPort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		port *fakePort
		name string
	}{
		{name: "error", port: &fakePort{writeErr: errors.New("i/o error")}},
		{name: "short write", port: &fakePort{short: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr, _ := newTestSerial("linux", nil, tt.port)
			require.NoError(t, tr.Connect(context.Background(), "/dev/rfcomm0"))

			require.Error(t, tr.WriteRaw([]byte("PRINT 1\r\n")))
			assert.True(t, tt.port.closed)
			assert.Nil(t, tr.ConnectedDevice())
		})
	}
}

func TestSerialConnectOpenFails(t *testing.T) {
	t.Parallel()

	tr := NewSerialTransport(115200)
	tr.portFactory = func(string, *serial.Mode) (SerialPort, error) {
		return nil, errors.New("no such file")
	}
	require.Error(t, tr.Connect(context.Background(), "/dev/rfcomm9"))
	assert.Nil(t, tr.ConnectedDevice())
}
