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

// Package jobs defines the record kept for every print attempt and the
// notification published for it.
package jobs

import (
	"encoding/json"
	"time"
)

// Source is where a job's instructions came from.
type Source string

const (
	SourceTemplate Source = "template"
	SourceRaw      Source = "raw"
	SourceBatch    Source = "batch"
	SourceImage    Source = "image"
)

const (
	MethodPrintCompleted = "print.completed"
	MethodPrintFailed    = "print.failed"
)

// Job is the outcome of one print attempt.
type Job struct {
	Time      time.Time `json:"time"`
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	Dialect   string    `json:"dialect"`
	Device    string    `json:"device,omitempty"`
	Error     string    `json:"error,omitempty"`
	Bytes     int       `json:"bytes"`
	Success   bool      `json:"success"`
	Simulated bool      `json:"simulated"`
	Degraded  bool      `json:"degraded"`
}

// Notification is an event about a job, as delivered to publishers.
type Notification struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Notification builds the print.completed or print.failed event for j.
func (j Job) Notification() (Notification, error) {
	params, err := json.Marshal(j)
	if err != nil {
		return Notification{}, err //nolint:wrapcheck // marshal of a plain struct
	}
	method := MethodPrintCompleted
	if !j.Success {
		method = MethodPrintFailed
	}
	return Notification{Method: method, Params: params}, nil
}
