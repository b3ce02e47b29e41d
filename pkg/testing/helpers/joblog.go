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
	"context"
	"slices"

	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
)

// MemoryJobLog is an in-memory job history.
type MemoryJobLog struct {
	jobs []jobs.Job
	mu   syncutil.Mutex
}

func (l *MemoryJobLog) Add(_ context.Context, job jobs.Job) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jobs = append(l.jobs, job)
	return nil
}

// Recent returns up to limit jobs, newest first.
func (l *MemoryJobLog) Recent(_ context.Context, limit int) ([]jobs.Job, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []jobs.Job{}
	for i := len(l.jobs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.jobs[i])
	}
	return out, nil
}

// All returns every job in insertion order.
func (l *MemoryJobLog) All() []jobs.Job {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.jobs)
}
