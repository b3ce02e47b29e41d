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

package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/ZaparooProject/labelprint/pkg/labels/bitmap"
	"github.com/ZaparooProject/labelprint/pkg/labels/instructions"
	"github.com/ZaparooProject/labelprint/pkg/labels/payload"
	"github.com/ZaparooProject/labelprint/pkg/labels/template"
	"github.com/ZaparooProject/labelprint/pkg/printers"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnrecognized means raw instructions matched no known dialect.
	// Nothing is sent to the printer.
	ErrUnrecognized = errors.New("unrecognized printer instructions")
	ErrEmptyBatch   = errors.New("batch has no labels")
)

// JobLog stores finished jobs.
type JobLog interface {
	Add(ctx context.Context, job jobs.Job) error
	Recent(ctx context.Context, limit int) ([]jobs.Job, error)
}

type Options struct {
	Connection *printers.Connection
	// History is optional.
	History JobLog
	// Notifications receives an event per job when set. Sends never
	// block; events are dropped if the channel is full.
	Notifications chan<- jobs.Notification
	Clock         clockwork.Clock
	Encoding      payload.Encoding
	BatchDelay    time.Duration
}

// Printer runs the print flow: build, normalize, assemble, send. Each stage
// is synchronous; only sends are serialized, by the Connection.
type Printer struct {
	conn          *printers.Connection
	simulated     *printers.Connection
	assembler     *payload.Assembler
	history       JobLog
	notifications chan<- jobs.Notification
	clock         clockwork.Clock
	batchDelay    atomic.Int64
}

func NewPrinter(opts Options) *Printer {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	conn := opts.Connection
	if conn == nil {
		conn = printers.NewConnection(printers.NewSimulatedTransport(nil), "")
	}
	p := &Printer{
		conn:          conn,
		simulated:     printers.NewConnection(printers.NewSimulatedTransport(nil), ""),
		assembler:     payload.NewAssembler(opts.Encoding),
		history:       opts.History,
		notifications: opts.Notifications,
		clock:         opts.Clock,
	}
	p.SetBatchDelay(opts.BatchDelay)
	return p
}

// SetBatchDelay changes the pause between batch labels. Batches already
// running pick it up at their next label.
func (p *Printer) SetBatchDelay(d time.Duration) {
	p.batchDelay.Store(int64(max(d, 0)))
}

// PrintLabel prints the default product label.
func (p *Printer) PrintLabel(ctx context.Context, fields template.Fields, copies int) (jobs.Job, error) {
	return p.PrintLabelVariant(ctx, fields, template.Options{Copies: copies})
}

// PrintLabelVariant prints fields with the layout and size in opts.
func (p *Printer) PrintLabelVariant(
	ctx context.Context,
	fields template.Fields,
	opts template.Options,
) (jobs.Job, error) {
	return p.printTemplate(ctx, jobs.SourceTemplate, fields, opts)
}

func (p *Printer) printTemplate(
	ctx context.Context,
	source jobs.Source,
	fields template.Fields,
	opts template.Options,
) (jobs.Job, error) {
	raw := template.BuildWith(fields, opts)

	nopts := instructions.Options{Copies: opts.Copies}
	if opts.WidthMM > 0 || opts.HeightMM > 0 {
		w, h := opts.WidthMM, opts.HeightMM
		if w <= 0 {
			w = template.DefaultWidthMM
		}
		if h <= 0 {
			h = template.DefaultHeightMM
		}
		nopts.Size = instructions.SizeMM(w, h)
	}

	doc, ok := instructions.Normalizer{Options: nopts}.Normalize(raw)
	if !ok {
		return p.reject(ctx, source)
	}
	return p.send(ctx, source, doc)
}

// PrintRaw prints caller-supplied TSPL or CPCL. Unrecognized text is
// rejected with ErrUnrecognized and never reaches the printer.
func (p *Printer) PrintRaw(ctx context.Context, text string, copies int) (jobs.Job, error) {
	doc, ok := instructions.Normalizer{Options: instructions.Options{Copies: copies}}.Normalize(text)
	if !ok {
		log.Warn().Int("length", len(text)).Msg("raw instructions not recognized, nothing sent")
		return p.reject(ctx, jobs.SourceRaw)
	}
	return p.send(ctx, jobs.SourceRaw, doc)
}

// PrintImage rasterises img to a full-label BITMAP and prints it.
func (p *Printer) PrintImage(
	ctx context.Context,
	img image.Image,
	opts bitmap.Options,
	copies int,
) (jobs.Job, error) {
	line, err := bitmap.Encode(img, opts)
	if err != nil {
		return jobs.Job{}, fmt.Errorf("encoding image: %w", err)
	}
	doc, ok := instructions.Normalizer{Options: instructions.Options{Copies: copies}}.
		Normalize("CLS\n" + line)
	if !ok {
		return p.reject(ctx, jobs.SourceImage)
	}
	return p.send(ctx, jobs.SourceImage, doc)
}

// PrintBatch prints labels one at a time with the configured delay between
// them. It stops at the first failure or when ctx is cancelled between
// labels, returning the jobs attempted so far.
func (p *Printer) PrintBatch(
	ctx context.Context,
	labels []template.Fields,
	copies int,
) ([]jobs.Job, error) {
	if len(labels) == 0 {
		return nil, ErrEmptyBatch
	}

	done := make([]jobs.Job, 0, len(labels))
	for i, fields := range labels {
		if delay := time.Duration(p.batchDelay.Load()); i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return done, fmt.Errorf("batch cancelled after %d of %d: %w", i, len(labels), ctx.Err())
			case <-p.clock.After(delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("batch cancelled after %d of %d: %w", i, len(labels), err)
		}

		job, err := p.printTemplate(ctx, jobs.SourceBatch, fields, template.Options{Copies: copies})
		done = append(done, job)
		if err != nil {
			return done, fmt.Errorf("label %d of %d: %w", i+1, len(labels), err)
		}
	}
	log.Info().Int("labels", len(labels)).Msg("batch printed")
	return done, nil
}

// Status reports the transport and its devices.
func (p *Printer) Status(ctx context.Context) printers.Status {
	return p.conn.Status(ctx)
}

// Recent returns the newest jobs from the history, or none when history is
// disabled.
func (p *Printer) Recent(ctx context.Context, limit int) ([]jobs.Job, error) {
	if p.history == nil {
		return []jobs.Job{}, nil
	}
	list, err := p.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading job history: %w", err)
	}
	return list, nil
}

// Assemble builds the bytes a document would be sent as, without sending.
func (p *Printer) Assemble(doc instructions.Document) *payload.Payload {
	return p.assembler.Assemble(doc)
}

func (p *Printer) newJob(source jobs.Source) jobs.Job {
	return jobs.Job{
		ID:     uuid.New().String(),
		Time:   p.clock.Now(),
		Source: source,
	}
}

func (p *Printer) reject(ctx context.Context, source jobs.Source) (jobs.Job, error) {
	job := p.newJob(source)
	job.Error = ErrUnrecognized.Error()
	p.finish(ctx, job)
	return job, ErrUnrecognized
}

func (p *Printer) send(ctx context.Context, source jobs.Source, doc instructions.Document) (jobs.Job, error) {
	job := p.newJob(source)
	job.Dialect = doc.DialectName()

	pl := p.assembler.Assemble(doc)
	job.Bytes = pl.Len()
	job.Degraded = pl.Degraded()

	job.Simulated = p.conn.Simulated()
	dev, err := p.conn.Send(ctx, pl.Bytes())
	if errors.Is(err, printers.ErrUnsupported) {
		log.Warn().Msg("no usable printer transport, simulating print")
		job.Simulated = true
		dev, err = p.simulated.Send(ctx, pl.Bytes())
	}
	job.Device = dev.Address
	job.Success = err == nil
	if err != nil {
		job.Error = err.Error()
	}

	p.finish(ctx, job)
	if err != nil {
		return job, fmt.Errorf("print job %s: %w", job.ID, err)
	}
	return job, nil
}

// finish records job and publishes its notification. Neither can fail the
// job.
func (p *Printer) finish(ctx context.Context, job jobs.Job) {
	l := log.Info()
	if !job.Success {
		l = log.Warn().Str("error", job.Error)
	}
	l.Str("id", job.ID).
		Str("source", string(job.Source)).
		Str("dialect", job.Dialect).
		Int("bytes", job.Bytes).
		Bool("simulated", job.Simulated).
		Msg("print job finished")

	if p.history != nil {
		if err := p.history.Add(context.WithoutCancel(ctx), job); err != nil {
			log.Error().Err(err).Str("id", job.ID).Msg("failed to record print job")
		}
	}

	if p.notifications == nil {
		return
	}
	n, err := job.Notification()
	if err != nil {
		log.Error().Err(err).Msg("failed to build job notification")
		return
	}
	select {
	case p.notifications <- n:
	default:
		log.Warn().Str("id", job.ID).Msg("notification channel full, dropping event")
	}
}
