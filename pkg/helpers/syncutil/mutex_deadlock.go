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

//go:build deadlock

// Package syncutil holds the mutex types shared by the print service.
// Building with -tags=deadlock swaps them for go-deadlock's checked locks.
package syncutil

import (
	"os"
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

const DeadlockEnabled = true

// TimeoutEnv overrides lockHoldLimit with a time.ParseDuration value.
const TimeoutEnv = "LABELPRINT_DEADLOCK_TIMEOUT"

// A printer connection stays locked for a whole write, and a large bitmap
// over a 9600 baud serial link takes well over a minute.
const lockHoldLimit = 3 * time.Minute

func init() {
	deadlock.Opts.DeadlockTimeout = lockHoldLimit
	if d, err := time.ParseDuration(os.Getenv(TimeoutEnv)); err == nil && d > 0 {
		deadlock.Opts.DeadlockTimeout = d
	}
}

type Mutex struct {
	deadlock.Mutex
}

type RWMutex struct {
	deadlock.RWMutex
}
