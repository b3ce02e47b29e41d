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

// Package helpers holds shared test fixtures.
package helpers

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestConfigDir is where NewTestConfig keeps its config file.
const TestConfigDir = "/cfg"

// NewMemoryFS creates an in-memory filesystem seeded with files.
func NewMemoryFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(data), 0o600))
	}
	return fs
}

// NewTestConfig loads a config from fs with tomlText as the file content.
// Empty tomlText means a fresh default config.
func NewTestConfig(t *testing.T, fs afero.Fs, tomlText string) *config.Instance {
	t.Helper()
	if tomlText != "" {
		path := filepath.Join(TestConfigDir, config.CfgFile)
		require.NoError(t, afero.WriteFile(fs, path, []byte(tomlText), 0o600))
	}
	cfg, err := config.NewConfig(fs, TestConfigDir, config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}
