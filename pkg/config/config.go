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

// Package config loads and saves the labelprint TOML config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "LABELPRINT_CFG"
)

var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Printer      Printer   `toml:"printer"`
	API          API       `toml:"api"`
	MQTT         MQTT      `toml:"mqtt,omitempty"`
	History      History   `toml:"history"`
	Discovery    Discovery `toml:"discovery"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Printer: Printer{
		Transport:     TransportAuto,
		Encoding:      "gbk",
		BaudRate:      9600,
		RFCOMMChannel: 1,
		BatchDelayMs:  1000,
	},
	API: API{
		Listen: fmt.Sprintf("127.0.0.1:%d", DefaultPort),
	},
	MQTT: MQTT{
		Topic: "labelprint/jobs",
	},
	History: History{
		Enabled:       true,
		RetentionDays: 90,
	},
	Discovery: Discovery{
		Enabled: true,
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file from configDir, or from the path in the
// LABELPRINT_CFG environment variable. A missing file is created with the
// defaults.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := &Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("saving new default config to disk")
		if err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load rereads the file, overlaying it on the defaults so keys missing
// from the file keep their default values.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := c.defaults
	if err := decode(data, &newVals); err != nil {
		return err
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := newVals.validate(); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// a crash mid-write must not leave a truncated config behind
	tmp := c.cfgPath + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := c.fs.Rename(tmp, c.cfgPath); err != nil {
		_ = c.fs.Remove(tmp)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// decode unmarshals data over vals. Unknown keys are logged and ignored so
// a typo does not stop the printer from starting.
func decode(data []byte, vals *Values) error {
	strict := *vals
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(&strict)
	if err == nil {
		*vals = strict
		return nil
	}

	var missing *toml.StrictMissingError
	if !errors.As(err, &missing) {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	for _, e := range missing.Errors {
		log.Warn().Strs("key", e.Key()).Msg("ignoring unknown config key")
	}
	if err := toml.Unmarshal(data, vals); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func (v *Values) validate() error {
	if err := v.Printer.validate(); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(v.API.Listen); err != nil {
		return fmt.Errorf("invalid api listen address %q: %w", v.API.Listen, err)
	}
	if v.MQTT.Broker != "" {
		if _, _, err := net.SplitHostPort(v.MQTT.Broker); err != nil {
			return fmt.Errorf("invalid mqtt broker %q, expected host:port: %w", v.MQTT.Broker, err)
		}
	}
	if v.History.RetentionDays < 0 {
		return fmt.Errorf("invalid history retention_days %d", v.History.RetentionDays)
	}
	return nil
}

// Path is the file the config was loaded from.
func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
