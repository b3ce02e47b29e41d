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

import "slices"

type API struct {
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty,multiline"`
}

type MQTT struct {
	// Broker is host:port. Publishing is off when it is empty.
	Broker string   `toml:"broker,omitempty"`
	Topic  string   `toml:"topic"`
	Filter []string `toml:"filter,omitempty"`
}

// Discovery controls mDNS advertising of the HTTP API. Nothing is
// advertised while the API listens on a loopback address.
type Discovery struct {
	// InstanceName defaults to the hostname.
	InstanceName string `toml:"instance_name,omitempty"`
	Enabled      bool   `toml:"enabled"`
}

type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

func (c *Instance) API() API {
	c.mu.RLock()
	defer c.mu.RUnlock()
	api := c.vals.API
	api.AllowedOrigins = slices.Clone(api.AllowedOrigins)
	return api
}

func (c *Instance) MQTT() MQTT {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := c.vals.MQTT
	m.Filter = slices.Clone(m.Filter)
	return m
}

func (c *Instance) History() History {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.History
}

func (c *Instance) Discovery() Discovery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Discovery
}
