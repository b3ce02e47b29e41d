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
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/adrg/xdg"
)

// Paths are the per-user directories labelprint reads and writes.
type Paths struct {
	ConfigDir string
	DataDir   string
	LogDir    string
}

// DefaultPaths follows the XDG base directory spec on every OS; xdg maps
// it to the platform conventions on macOS and Windows.
func DefaultPaths() Paths {
	return Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		LogDir:    filepath.Join(xdg.StateHome, config.AppName),
	}
}

// PrintLogPath is the job history database file.
func (p Paths) PrintLogPath() string {
	return filepath.Join(p.DataDir, config.PrintLogDb)
}

// LogPath is the rotating log file.
func (p Paths) LogPath() string {
	return filepath.Join(p.LogDir, config.LogFile)
}

// EnsureDirectories creates every directory in p.
func (p Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
