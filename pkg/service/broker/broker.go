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

// Package broker fans job notifications out to several consumers without
// letting a slow one block printing.
package broker

import (
	"context"
	"slices"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/rs/zerolog/log"
)

type subscriber struct {
	ch      chan jobs.Notification
	methods []string
	dropped uint64
}

func (s *subscriber) wants(method string) bool {
	return len(s.methods) == 0 || slices.Contains(s.methods, method)
}

// Broker reads one source channel and copies each notification to every
// interested subscriber. Sends never block: a full subscriber misses the
// notification and its drop count goes up.
type Broker struct {
	ctx         context.Context
	source      <-chan jobs.Notification
	subscribers map[int]*subscriber
	done        chan struct{}
	mu          syncutil.Mutex
	nextID      int
	closed      bool
}

func NewBroker(ctx context.Context, source <-chan jobs.Notification) *Broker {
	return &Broker{
		ctx:         ctx,
		source:      source,
		subscribers: make(map[int]*subscriber),
		done:        make(chan struct{}),
	}
}

// Start runs the broadcast loop until the source closes or ctx is
// cancelled. Every subscriber channel is closed on exit.
func (b *Broker) Start() {
	go func() {
		defer close(b.done)
		defer b.closeAll()
		for {
			select {
			case n, ok := <-b.source:
				if !ok {
					log.Debug().Msg("broker: source closed")
					return
				}
				b.broadcast(n)
			case <-b.ctx.Done():
				log.Debug().Msg("broker: context cancelled")
				return
			}
		}
	}()
}

// Done is closed once the broadcast loop has exited.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

func (b *Broker) broadcast(n jobs.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, s := range b.subscribers {
		if !s.wants(n.Method) {
			continue
		}
		select {
		case s.ch <- n:
		default:
			s.dropped++
			log.Warn().
				Int("subscriber_id", id).
				Str("method", n.Method).
				Uint64("dropped", s.dropped).
				Msg("subscriber full, dropping notification")
		}
	}
}

// Subscribe registers a consumer for the given notification methods, or
// for all of them when none are given. Up to bufferSize notifications
// queue before further ones are dropped. Once the broker has stopped the
// returned channel is already closed.
func (b *Broker) Subscribe(bufferSize int, methods ...string) (<-chan jobs.Notification, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan jobs.Notification)
		close(ch)
		return ch, -1
	}

	id := b.nextID
	b.nextID++
	s := &subscriber{
		ch:      make(chan jobs.Notification, bufferSize),
		methods: slices.Clone(methods),
	}
	b.subscribers[id] = s

	log.Debug().
		Int("subscriber_id", id).
		Int("buffer_size", bufferSize).
		Strs("methods", methods).
		Msg("subscriber registered")
	return s.ch, id
}

// Dropped reports how many notifications subscriber id has missed. Unknown
// ids report zero.
func (b *Broker) Dropped(id int) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subscribers[id]; ok {
		return s.dropped
	}
	return 0
}

// Unsubscribe removes a subscription and closes its channel. Repeated calls
// are no-ops.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(s.ch)
	log.Debug().Int("subscriber_id", id).Msg("subscriber removed")
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, s := range b.subscribers {
		close(s.ch)
		delete(b.subscribers, id)
	}
}
