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
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchNeedsOsFs(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(afero.NewMemMapFs(), testDir, BaseDefaults)
	require.NoError(t, err)
	require.ErrorIs(t, cfg.Watch(context.Background(), nil), ErrWatchUnsupported)
}

func TestWatchReloads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fs := afero.NewOsFs()
	cfg, err := NewConfig(fs, dir, BaseDefaults)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- cfg.Watch(ctx, func() { reloads.Add(1) })
	}()

	path := filepath.Join(dir, CfgFile)
	require.EventuallyWithT(t, func(c *assert.CollectT) {
		require.NoError(c, afero.WriteFile(fs, path, []byte("[printer]\nbatch_delay_ms = 40\n"), 0o600))
		assert.Equal(c, 40*time.Millisecond, cfg.BatchDelay())
	}, 5*time.Second, 300*time.Millisecond)
	assert.Positive(t, reloads.Load())

	// a broken file keeps the last good values
	require.NoError(t, afero.WriteFile(fs, path, []byte("[printer]\ntransport = \"usb\"\n"), 0o600))
	time.Sleep(2 * reloadDebounce)
	assert.Equal(t, TransportAuto, cfg.Printer().Transport)
	assert.Equal(t, 40*time.Millisecond, cfg.BatchDelay())

	cancel()
	require.NoError(t, <-done)
}
