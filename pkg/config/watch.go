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
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrWatchUnsupported is returned by Watch for configs not backed by the
// OS filesystem.
var ErrWatchUnsupported = errors.New("config watching needs the OS filesystem")

// editors often write a file in several steps
const reloadDebounce = 250 * time.Millisecond

// Watch reloads the config each time its file changes, until ctx is done.
// onReload runs after every successful reload. A file that fails to load
// is logged and the previous values stay in effect.
func (c *Instance) Watch(ctx context.Context, onReload func()) error {
	if _, ok := c.fs.(*afero.OsFs); !ok {
		return ErrWatchUnsupported
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			log.Debug().Err(err).Msg("closing config watcher")
		}
	}()

	path := filepath.Clean(c.Path())
	// Save and most editors replace the file, so watch its directory
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}
	log.Debug().Str("path", path).Msg("watching config file")

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			reload = time.After(reloadDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		case <-reload:
			reload = nil
			if err := c.Load(); err != nil {
				log.Error().Err(err).Msg("config changed but could not be loaded, keeping previous values")
				continue
			}
			log.Info().Str("path", path).Msg("config reloaded")
			if onReload != nil {
				onReload()
			}
		}
	}
}
