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

// Package cli implements the labelprint command line.
package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type Flags struct {
	Version     *bool
	Serve       *bool
	Raw         *string
	Label       *string
	Batch       *string
	Variant     *string
	Image       *string
	ImageMode   *string
	Copies      *int
	ListDevices *bool
	DryRun      *bool
	Debug       *bool
}

// SetupFlags defines every flag on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Serve: fs.Bool(
			"serve",
			false,
			"run the HTTP print API in the foreground",
		),
		Raw: fs.String(
			"raw",
			"",
			"print a file of raw TSPL or CPCL instructions",
		),
		Label: fs.String(
			"label",
			"",
			"print a label from a JSON file of fields",
		),
		Batch: fs.String(
			"batch",
			"",
			"print every label in a JSON array file of fields",
		),
		Variant: fs.String(
			"variant",
			"product",
			"label layout: product, certificate, backend or debug",
		),
		Image: fs.String(
			"image",
			"",
			"print an image file as a bitmap",
		),
		ImageMode: fs.String(
			"image-mode",
			"threshold",
			"bitmap conversion: threshold or dither",
		),
		Copies: fs.Int(
			"copies",
			1,
			"number of copies",
		),
		ListDevices: fs.Bool(
			"list-devices",
			false,
			"show the printer transport and paired devices",
		),
		DryRun: fs.Bool(
			"dry-run",
			false,
			"write printer bytes to stdout instead of a printer",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
}

// Setup creates the directories, starts logging and loads the config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	fs afero.Fs,
	paths helpers.Paths,
	defaults config.Values,
	writers []io.Writer,
	debug bool,
) (*config.Instance, error) {
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("creating directories: %w", err)
	}

	if err := helpers.InitLogging(paths.LogPath(), writers); err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(fs, paths.ConfigDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if debug || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return cfg, nil
}
