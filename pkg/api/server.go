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

// Package api serves the HTTP print API.
package api

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net"
	"net/http"
	"time"

	"github.com/ZaparooProject/labelprint/pkg/api/middleware"
	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/ZaparooProject/labelprint/pkg/labels/bitmap"
	"github.com/ZaparooProject/labelprint/pkg/labels/template"
	"github.com/ZaparooProject/labelprint/pkg/printers"
	"github.com/ZaparooProject/labelprint/pkg/service/broker"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Printer is the part of the print service the API drives.
type Printer interface {
	PrintLabelVariant(ctx context.Context, fields template.Fields, opts template.Options) (jobs.Job, error)
	PrintRaw(ctx context.Context, text string, copies int) (jobs.Job, error)
	PrintBatch(ctx context.Context, labels []template.Fields, copies int) ([]jobs.Job, error)
	PrintImage(ctx context.Context, img image.Image, opts bitmap.Options, copies int) (jobs.Job, error)
	Status(ctx context.Context) printers.Status
	Recent(ctx context.Context, limit int) ([]jobs.Job, error)
}

type Options struct {
	Limiter *middleware.IPRateLimiter
	// Events enables the /api/events stream when set.
	Events         *broker.Broker
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the API routes. Print routes are rate limited per IP;
// batch prints are exempt from the request timeout since they wait between
// labels.
func NewRouter(p Printer, opts Options) http.Handler {
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewIPRateLimiter(0, 0)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = config.APIRequestTimeout
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	h := &handlers{printer: p, events: opts.Events}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(opts.RequestTimeout))
			r.Get("/ping", h.ping)
			r.Get("/printer", h.printerStatus)
			r.Get("/jobs", h.recentJobs)
		})
		if opts.Events != nil {
			r.Get("/events", h.streamEvents)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.HTTPRateLimitMiddleware(opts.Limiter))
			r.With(chimiddleware.Timeout(opts.RequestTimeout)).Post("/print/label", h.printLabel)
			r.With(chimiddleware.Timeout(opts.RequestTimeout)).Post("/print/raw", h.printRaw)
			r.With(chimiddleware.Timeout(opts.RequestTimeout)).Post("/print/image", h.printImage)
			r.Post("/print/batch", h.printBatch)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("api request")
	})
}

// Start serves handler on listen until ctx is cancelled, then shuts down
// gracefully. ready, if set, receives the bound address once listening.
func Start(ctx context.Context, listen string, handler http.Handler, ready func(net.Addr)) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", listen, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	log.Info().Msg("api server stopped")
	return nil
}
