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

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/ZaparooProject/labelprint/pkg/api"
	"github.com/ZaparooProject/labelprint/pkg/api/middleware"
	"github.com/ZaparooProject/labelprint/pkg/api/models"
	"github.com/ZaparooProject/labelprint/pkg/api/validation"
	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/helpers"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/ZaparooProject/labelprint/pkg/labels/bitmap"
	"github.com/ZaparooProject/labelprint/pkg/labels/template"
	"github.com/ZaparooProject/labelprint/pkg/service"
	"github.com/ZaparooProject/labelprint/pkg/service/discovery"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrNoAction means no action flag was given.
var ErrNoAction = errors.New("nothing to do: pass -serve, -label, -batch, -raw, -image or -list-devices")

// Env is everything an action reads or writes outside the service.
type Env struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Instance
	Paths  helpers.Paths
}

func (f *Flags) hasAction() bool {
	return *f.Serve || *f.ListDevices ||
		*f.Raw != "" || *f.Label != "" || *f.Batch != "" || *f.Image != ""
}

// Run starts the print service, performs the action named by f and stops
// the service again. -serve blocks until ctx is cancelled.
func Run(ctx context.Context, env Env, f *Flags) (err error) {
	if !f.hasAction() {
		return ErrNoAction
	}

	opts := service.StartOptions{PrintLogPath: env.Paths.PrintLogPath()}
	if *f.DryRun {
		opts.DryRun = env.Stdout
	}
	svc, err := service.Start(ctx, env.Config, opts)
	if err != nil {
		return fmt.Errorf("starting print service: %w", err)
	}
	defer func() {
		if stopErr := svc.Stop(); stopErr != nil {
			log.Error().Err(stopErr).Msg("error stopping print service")
			if err == nil {
				err = stopErr
			}
		}
	}()

	switch {
	case *f.ListDevices:
		return listDevices(ctx, env, svc.Printer)
	case *f.Serve:
		return serve(ctx, env.Config, svc)
	case *f.Raw != "":
		return printRaw(ctx, env, svc.Printer, *f.Raw, *f.Copies)
	case *f.Label != "":
		return printLabel(ctx, env, svc.Printer, *f.Label, *f.Variant, *f.Copies)
	case *f.Batch != "":
		return printBatch(ctx, env, svc.Printer, *f.Batch, *f.Copies)
	default:
		return printImage(ctx, env, svc.Printer, *f.Image, *f.ImageMode, *f.Copies)
	}
}

func listDevices(ctx context.Context, env Env, p *service.Printer) error {
	enc := json.NewEncoder(env.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.Status(ctx)); err != nil {
		return fmt.Errorf("writing device list: %w", err)
	}
	return nil
}

// serve runs the HTTP API until ctx is cancelled. It also advertises the
// API over mDNS and reloads the config file when it changes.
func serve(ctx context.Context, cfg *config.Instance, svc *service.Service) error {
	apiCfg := cfg.API()

	limiter := middleware.NewIPRateLimiter(0, 0)
	limiter.StartCleanup(ctx)

	router := api.NewRouter(svc.Printer, api.Options{
		Limiter:        limiter,
		AllowedOrigins: apiCfg.AllowedOrigins,
		Events:         svc.Events,
	})

	pcfg := cfg.Printer()
	disc := discovery.New(cfg.Discovery(), []string{
		"transport=" + svc.Transport(),
		"encoding=" + pcfg.Encoding,
	})
	defer disc.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := api.Start(gctx, apiCfg.Listen, router, func(addr net.Addr) {
			if err := disc.Start(addr); err != nil {
				log.Warn().Err(err).Msg("mDNS discovery not started")
			}
		})
		if err != nil {
			return fmt.Errorf("serving api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := cfg.Watch(gctx, func() { applyReload(cfg, svc) })
		if errors.Is(err, config.ErrWatchUnsupported) {
			log.Debug().Msg("config file not watched")
			return nil
		}
		return err //nolint:wrapcheck // already describes the watcher failure
	})

	log.Info().Msg("started in serve mode")
	return g.Wait() //nolint:wrapcheck // both goroutines wrap their errors
}

// applyReload pushes settings that can change without a restart. Printer
// transport and encoding need one.
func applyReload(cfg *config.Instance, svc *service.Service) {
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	svc.Printer.SetBatchDelay(cfg.BatchDelay())
}

func printRaw(ctx context.Context, env Env, p *service.Printer, path string, copies int) error {
	data, err := afero.ReadFile(env.Fs, path)
	if err != nil {
		return fmt.Errorf("reading instructions: %w", err)
	}
	job, err := p.PrintRaw(ctx, string(data), copies)
	return report(env, job, err)
}

func printLabel(ctx context.Context, env Env, p *service.Printer, path, variant string, copies int) error {
	data, err := afero.ReadFile(env.Fs, path)
	if err != nil {
		return fmt.Errorf("reading label fields: %w", err)
	}
	var fields template.Fields
	if err := validation.ValidateAndUnmarshal(data, &fields); err != nil {
		return fmt.Errorf("label fields in %s: %w", path, err)
	}

	job, err := p.PrintLabelVariant(ctx, fields, template.Options{
		Variant: template.ParseVariant(variant),
		Copies:  copies,
	})
	return report(env, job, err)
}

func printBatch(ctx context.Context, env Env, p *service.Printer, path string, copies int) error {
	data, err := afero.ReadFile(env.Fs, path)
	if err != nil {
		return fmt.Errorf("reading batch: %w", err)
	}
	params := models.BatchParams{Copies: copies}
	if err := json.Unmarshal(data, &params.Labels); err != nil {
		return fmt.Errorf("batch in %s: %w", path, err)
	}
	if err := validation.DefaultValidator.Validate(&params); err != nil {
		return fmt.Errorf("batch in %s: %w", path, err)
	}

	list, err := p.PrintBatch(ctx, params.Labels, params.Copies)
	for _, job := range list {
		_ = report(env, job, nil)
	}
	if err != nil {
		return fmt.Errorf("printing batch: %w", err)
	}
	return nil
}

func printImage(ctx context.Context, env Env, p *service.Printer, path, mode string, copies int) error {
	m, err := bitmap.ParseMode(mode)
	if err != nil {
		return err //nolint:wrapcheck // already names the flag value
	}

	f, err := env.Fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := bitmap.Decode(f)
	if err != nil {
		return fmt.Errorf("image %s: %w", path, err)
	}
	job, err := p.PrintImage(ctx, img, bitmap.Options{Mode: m}, copies)
	return report(env, job, err)
}

// report writes a one-line job summary to stderr and passes err through.
func report(env Env, job jobs.Job, err error) error {
	status := "ok"
	if !job.Success {
		status = "failed"
	}
	_, _ = fmt.Fprintf(env.Stderr, "job %s %s: %s, %d bytes to %s",
		job.ID, status, job.Source, job.Bytes, job.Device)
	if job.Simulated {
		_, _ = fmt.Fprint(env.Stderr, " (simulated)")
	}
	_, _ = fmt.Fprintln(env.Stderr)
	if err != nil {
		return fmt.Errorf("print failed: %w", err)
	}
	return nil
}
