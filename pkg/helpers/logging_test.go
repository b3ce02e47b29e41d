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

package helpers

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:paralleltest // replaces the global logger
func TestInitLogging(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "labelprint.log")

	var extra bytes.Buffer
	require.NoError(t, InitLogging(logPath, []io.Writer{&extra}))

	log.Info().Str("job", "abc").Msg("hello")
	assert.Contains(t, extra.String(), `"job":"abc"`)
	assert.Contains(t, extra.String(), `"caller"`)
	assert.FileExists(t, logPath)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := Paths{
		ConfigDir: filepath.Join(root, "config"),
		DataDir:   filepath.Join(root, "data"),
		LogDir:    filepath.Join(root, "state"),
	}
	require.NoError(t, p.EnsureDirectories())

	assert.DirExists(t, p.ConfigDir)
	assert.DirExists(t, p.DataDir)
	assert.DirExists(t, p.LogDir)
	assert.Equal(t, filepath.Join(root, "data", "printlog.db"), p.PrintLogPath())
	assert.Equal(t, filepath.Join(root, "state", "labelprint.log"), p.LogPath())

	d := DefaultPaths()
	assert.Equal(t, "labelprint", filepath.Base(d.ConfigDir))
}
