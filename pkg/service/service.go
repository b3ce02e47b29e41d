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

// Package service wires the printer, job history and notification
// consumers into a running print service.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/database/printlog"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/ZaparooProject/labelprint/pkg/labels/payload"
	"github.com/ZaparooProject/labelprint/pkg/printers"
	"github.com/ZaparooProject/labelprint/pkg/publishers"
	"github.com/ZaparooProject/labelprint/pkg/service/broker"
	"github.com/rs/zerolog/log"
)

const notificationBuffer = 100

type StartOptions struct {
	// DryRun receives payloads instead of any printer when set.
	DryRun io.Writer
	// PrintLogPath is the job history database. Empty disables history.
	PrintLogPath string
}

// Service is a started print service. Stop releases everything Start
// opened.
type Service struct {
	Printer    *Printer
	Events     *broker.Broker
	conn       *printers.Connection
	history    *printlog.PrintLog
	cancel     context.CancelFunc
	publishers []publisher
}

func Start(ctx context.Context, cfg *config.Instance, opts StartOptions) (*Service, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	pcfg := cfg.Printer()
	enc, err := payload.ParseEncoding(pcfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("printer config: %w", err)
	}

	svcCtx, cancel := context.WithCancel(ctx)
	svc := &Service{cancel: cancel}

	var history JobLog
	if hcfg := cfg.History(); hcfg.Enabled && opts.PrintLogPath != "" {
		log.Info().Str("path", opts.PrintLogPath).Msg("opening job history")
		db, openErr := printlog.Open(svcCtx, opts.PrintLogPath)
		if openErr != nil {
			cancel()
			return nil, fmt.Errorf("opening job history: %w", openErr)
		}
		cleanupHistoryOnStartup(svcCtx, db, hcfg.RetentionDays)
		svc.history = db
		history = db
	} else {
		log.Debug().Msg("job history disabled")
	}

	notifications := make(chan jobs.Notification, notificationBuffer)
	svc.Events = broker.NewBroker(svcCtx, notifications)
	svc.Events.Start()

	svc.conn = NewConnection(svcCtx, pcfg, opts.DryRun)
	svc.Printer = NewPrinter(Options{
		Connection:    svc.conn,
		History:       history,
		Notifications: notifications,
		Encoding:      enc,
		BatchDelay:    cfg.BatchDelay(),
	})

	log.Info().Msg("starting publishers")
	svc.publishers = startPublishers(cfg.MQTT(), svc.Events, newMQTTPublisher)

	log.Info().
		Str("transport", svc.Transport()).
		Str("encoding", string(enc)).
		Msg("print service started")
	return svc, nil
}

// Transport names the printer transport in use, e.g. "bluez".
func (s *Service) Transport() string {
	return s.conn.Transport().ID()
}

// Stop shuts the service down. The Printer must not be used afterwards.
func (s *Service) Stop() error {
	s.cancel()
	<-s.Events.Done()
	for _, p := range s.publishers {
		p.Stop()
	}

	var errs []error
	if err := s.conn.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.history.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing job history: %w", err))
	}
	log.Info().Msg("print service stopped")
	return errors.Join(errs...)
}

func cleanupHistoryOnStartup(ctx context.Context, db *printlog.PrintLog, retentionDays int) {
	if retentionDays <= 0 {
		log.Debug().Msg("job history cleanup disabled (retention set to 0)")
		return
	}
	log.Info().Msgf("cleaning up job history older than %d days", retentionDays)
	rowsDeleted, err := db.Cleanup(ctx, retentionDays)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("error cleaning up job history")
	case rowsDeleted > 0:
		log.Info().Msgf("deleted %d old job history entries", rowsDeleted)
	default:
		log.Debug().Msg("no old job history entries to clean up")
	}
}

type publisher interface {
	Start(notifications <-chan jobs.Notification) error
	Stop()
}

var newMQTTPublisher = func(m config.MQTT) publisher {
	return publishers.NewMQTTPublisher(m.Broker, m.Topic, m.Filter)
}

// startPublishers subscribes each configured publisher to the broker. A
// publisher that cannot connect is logged and skipped.
func startPublishers(
	m config.MQTT,
	events *broker.Broker,
	newPublisher func(config.MQTT) publisher,
) []publisher {
	if m.Broker == "" {
		return nil
	}

	log.Info().Msgf("starting MQTT publisher: %s (topic: %s)", m.Broker, m.Topic)
	ch, id := events.Subscribe(notificationBuffer)
	p := newPublisher(m)
	if err := p.Start(ch); err != nil {
		log.Error().Err(err).Msgf("failed to start MQTT publisher for %s", m.Broker)
		events.Unsubscribe(id)
		return nil
	}
	return []publisher{p}
}
