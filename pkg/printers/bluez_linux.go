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

//go:build linux

package printers

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

const (
	bluezService          = "org.bluez"
	bluezDeviceInterface  = "org.bluez.Device1"
	dbusObjectManager     = "org.freedesktop.DBus.ObjectManager"
	bluezAvailableTimeout = 3 * time.Second
)

type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// BluezTransport finds paired printers through BlueZ on the system D-Bus
// and prints over a raw RFCOMM socket.
type BluezTransport struct {
	conn      io.WriteCloser
	device    *Device
	available func() bool
	objects   func(ctx context.Context) (managedObjects, error)
	dial      func(address string, channel uint8) (io.WriteCloser, error)
	channel   uint8
	mu        syncutil.RWMutex
	once      sync.Once
	supported bool
}

func NewBluezTransport(channel int) *BluezTransport {
	if channel <= 0 || channel > 30 {
		channel = DefaultRFCOMMChannel
	}
	return &BluezTransport{
		available: isBluezAvailable,
		objects:   getManagedObjects,
		dial:      dialRFCOMM,
		channel:   uint8(channel),
	}
}

func (*BluezTransport) ID() string { return BluezID }

// IsSupported checks once whether the BlueZ daemon is on the system bus.
func (t *BluezTransport) IsSupported() bool {
	t.once.Do(func() {
		t.supported = t.available()
		log.Debug().Bool("available", t.supported).Msg("bluez availability")
	})
	return t.supported
}

func isBluezAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), bluezAvailableTimeout)
	defer cancel()

	done := make(chan bool, 1)
	go func() {
		conn, err := dbus.SystemBusPrivate()
		if err != nil {
			done <- false
			return
		}
		defer func() { _ = conn.Close() }()

		if err := conn.Auth(nil); err != nil {
			done <- false
			return
		}
		if err := conn.Hello(); err != nil {
			done <- false
			return
		}

		var names []string
		obj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
		if err := obj.CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
			done <- false
			return
		}
		for _, name := range names {
			if name == bluezService {
				done <- true
				return
			}
		}
		done <- false
	}()

	select {
	case ok := <-done:
		return ok
	case <-ctx.Done():
		return false
	}
}

func getManagedObjects(ctx context.Context) (managedObjects, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	var objs managedObjects
	err = conn.Object(bluezService, "/").
		CallWithContext(ctx, dbusObjectManager+".GetManagedObjects", 0).
		Store(&objs)
	if err != nil {
		return nil, fmt.Errorf("failed to get bluez objects: %w", err)
	}
	return objs, nil
}

func (t *BluezTransport) ConnectedDevice() *Device {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.device == nil {
		return nil
	}
	dev := *t.device
	return &dev
}

func (t *BluezTransport) PairedDevices(ctx context.Context) ([]Device, error) {
	if !t.IsSupported() {
		return nil, ErrUnsupported
	}
	objs, err := t.objects(ctx)
	if err != nil {
		return nil, err
	}

	devices := pairedDevices(objs)
	if connected := t.ConnectedDevice(); connected != nil {
		for i := range devices {
			if devices[i].Address == connected.Address {
				devices[i].Connected = true
			}
		}
	}
	return devices, nil
}

// pairedDevices picks the paired org.bluez.Device1 objects, sorted by
// object path so the first device is stable between calls.
func pairedDevices(objs managedObjects) []Device {
	paths := make([]string, 0, len(objs))
	for path := range objs {
		paths = append(paths, string(path))
	}
	sort.Strings(paths)

	devices := make([]Device, 0, len(paths))
	for _, path := range paths {
		props, ok := objs[dbus.ObjectPath(path)][bluezDeviceInterface]
		if !ok {
			continue
		}
		if paired, _ := props["Paired"].Value().(bool); !paired {
			continue
		}
		address, _ := props["Address"].Value().(string)
		if address == "" {
			continue
		}
		name, _ := props["Alias"].Value().(string)
		if name == "" {
			name, _ = props["Name"].Value().(string)
		}
		devices = append(devices, Device{Address: address, Name: name})
	}
	return devices
}

func (t *BluezTransport) Connect(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("connect cancelled: %w", err)
	}
	if !t.IsSupported() {
		return ErrUnsupported
	}

	conn, err := t.dial(address, t.channel)
	if err != nil {
		return err
	}

	t.mu.Lock()
	old := t.conn
	t.conn = conn
	t.device = &Device{Address: address, Connected: true}
	t.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	log.Info().Str("device", address).Uint8("channel", t.channel).Msg("rfcomm socket connected")
	return nil
}

// dialRFCOMM opens a stream socket to mac on channel.
func dialRFCOMM(address string, channel uint8) (io.WriteCloser, error) {
	hw, err := net.ParseMAC(address)
	if err != nil {
		return nil, fmt.Errorf("invalid bluetooth address %s: %w", address, err)
	}
	if len(hw) != 6 {
		return nil, fmt.Errorf("bluetooth address must be 6 bytes, got %d", len(hw))
	}
	// SockaddrRFCOMM wants the address little-endian.
	var addr [6]byte
	for i := range 6 {
		addr[i] = hw[5-i]
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, fmt.Errorf("failed to create rfcomm socket: %w", err)
	}
	if err := unix.Connect(fd, &unix.SockaddrRFCOMM{Addr: addr, Channel: channel}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to connect rfcomm socket: %w", err)
	}
	return os.NewFile(uintptr(fd), "rfcomm:"+address), nil
}

func (t *BluezTransport) WriteRaw(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return ErrNotConnected
	}
	n, err := t.conn.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		_ = t.conn.Close()
		t.conn = nil
		t.device = nil
		return fmt.Errorf("rfcomm write: %w", err)
	}
	return nil
}

func (t *BluezTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.device = nil
	if err != nil {
		return fmt.Errorf("closing rfcomm socket: %w", err)
	}
	return nil
}
