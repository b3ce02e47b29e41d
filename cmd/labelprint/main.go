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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/labelprint/pkg/cli"
	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	flag.Parse()

	if *flags.Version {
		_, _ = fmt.Printf("labelprint v%s\n", config.AppVersion)
		return nil
	}

	var logWriters []io.Writer
	if *flags.Serve {
		logWriters = []io.Writer{helpers.ConsoleWriter()}
	}

	fs := afero.NewOsFs()
	paths := helpers.DefaultPaths()
	cfg, err := cli.Setup(fs, paths, config.BaseDefaults, logWriters, *flags.Debug)
	if err != nil {
		return err //nolint:wrapcheck // Setup names the failed step
	}

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = cli.Run(ctx, cli.Env{
		Fs:     fs,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: cfg,
		Paths:  paths,
	}, flags)
	if errors.Is(err, cli.ErrNoAction) {
		flag.Usage()
	}
	return err //nolint:wrapcheck // already wrapped by Run
}
