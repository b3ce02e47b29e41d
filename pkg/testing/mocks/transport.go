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

package mocks

import (
	"context"
	"fmt"
	"slices"

	"github.com/ZaparooProject/labelprint/pkg/printers"
	"github.com/stretchr/testify/mock"
)

// MockTransport is a mock implementation of printers.Transport using
// testify/mock.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockTransport) IsSupported() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTransport) ConnectedDevice() *printers.Device {
	args := m.Called()
	if dev, ok := args.Get(0).(*printers.Device); ok {
		return dev
	}
	return nil
}

func (m *MockTransport) PairedDevices(ctx context.Context) ([]printers.Device, error) {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock paired devices failed: %w", err)
	}
	if devices, ok := args.Get(0).([]printers.Device); ok {
		return devices, nil
	}
	return []printers.Device{}, nil
}

func (m *MockTransport) Connect(ctx context.Context, address string) error {
	args := m.Called(ctx, address)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock connect failed: %w", err)
	}
	return nil
}

func (m *MockTransport) WriteRaw(data []byte) error {
	args := m.Called(slices.Clone(data))
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock write failed: %w", err)
	}
	return nil
}

func (m *MockTransport) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock close failed: %w", err)
	}
	return nil
}

// Written returns the data of every WriteRaw call in order.
func (m *MockTransport) Written() [][]byte {
	var out [][]byte
	for _, c := range m.Calls {
		if c.Method != "WriteRaw" {
			continue
		}
		if data, ok := c.Arguments.Get(0).([]byte); ok {
			out = append(out, data)
		}
	}
	return out
}

// NewConnectedTransport returns a mock that is supported, already
// connected to address and accepts every write.
func NewConnectedTransport(address string) *MockTransport {
	m := &MockTransport{}
	dev := &printers.Device{Address: address, Name: "Mock printer", Connected: true}
	m.On("ID").Return("mock").Maybe()
	m.On("IsSupported").Return(true).Maybe()
	m.On("ConnectedDevice").Return(dev).Maybe()
	m.On("PairedDevices", mock.Anything).Return([]printers.Device{*dev}, nil).Maybe()
	m.On("WriteRaw", mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()
	return m
}
