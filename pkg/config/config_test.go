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
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "/home/test/.config/labelprint"

func writeConfig(t *testing.T, fs afero.Fs, body string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(testDir, 0o750))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testDir, CfgFile), []byte(body), 0o600))
}

func TestNewConfigWritesDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)

	exists, err := afero.Exists(fs, filepath.Join(testDir, CfgFile))
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, TransportAuto, cfg.Printer().Transport)
	assert.Equal(t, "gbk", cfg.Printer().Encoding)
	assert.Equal(t, time.Second, cfg.BatchDelay())
	assert.Equal(t, "127.0.0.1:7080", cfg.API().Listen)
	assert.True(t, cfg.History().Enabled)
	assert.Empty(t, cfg.MQTT().Broker)

	data, err := afero.ReadFile(fs, filepath.Join(testDir, CfgFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.Contains(t, string(data), "[printer]")
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `
config_schema = 1

[printer]
transport = "serial"
port = "/dev/rfcomm0"
batch_delay_ms = 250

[mqtt]
broker = "localhost:1883"
filter = ["print.failed"]
`)

	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)

	p := cfg.Printer()
	assert.Equal(t, TransportSerial, p.Transport)
	assert.Equal(t, "/dev/rfcomm0", p.Port)
	assert.Equal(t, 9600, p.BaudRate, "missing keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.BatchDelay())

	m := cfg.MQTT()
	assert.Equal(t, "localhost:1883", m.Broker)
	assert.Equal(t, "labelprint/jobs", m.Topic)
	assert.Equal(t, []string{"print.failed"}, m.Filter)
}

func TestLoadRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		name    string
		body    string
	}{
		{name: "schema mismatch", body: "config_schema = 7\n", wantErr: ErrSchemaMismatch},
		{name: "bad transport", body: "config_schema = 1\n[printer]\ntransport = \"usb\"\n"},
		{name: "bad toml", body: "config_schema = \n"},
		{name: "bad listen", body: "[api]\nlisten = \"7080\"\n"},
		{name: "bad mqtt broker", body: "[mqtt]\nbroker = \"mqtt.local\"\n"},
		{name: "negative retention", body: "[history]\nretention_days = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			writeConfig(t, fs, tt.body)

			_, err := NewConfig(fs, testDir, BaseDefaults)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

//nolint:paralleltest // uses t.Setenv
func TestConfigEnvOverride(t *testing.T) {
	fs := afero.NewMemMapFs()
	custom := "/etc/labelprint/custom.toml"
	t.Setenv(CfgEnv, custom)

	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, custom, cfg.Path())

	exists, err := afero.Exists(fs, custom)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetPrinterAddress("AA:BB:CC:DD:EE:01")
	require.NoError(t, cfg.Save())

	again, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", again.Printer().Address)
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	cfg := &Instance{vals: Values{API: API{AllowedOrigins: []string{"http://a"}}}}
	api := cfg.API()
	api.AllowedOrigins[0] = "http://b"
	assert.Equal(t, "http://a", cfg.API().AllowedOrigins[0])
}

func TestBatchDelayNegative(t *testing.T) {
	t.Parallel()

	cfg := &Instance{vals: Values{Printer: Printer{BatchDelayMs: -5}}}
	assert.Zero(t, cfg.BatchDelay())
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "[printer]\ntransprot = \"serial\"\nbaud_rate = 19200\n\n[extras]\nx = 1\n")

	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, TransportAuto, cfg.Printer().Transport)
	assert.Equal(t, 19200, cfg.Printer().BaudRate)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg, err := NewConfig(fs, testDir, BaseDefaults)
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	exists, err := afero.Exists(fs, cfg.Path()+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}
