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

// Package models defines the print API's request and response bodies.
package models

import (
	"github.com/ZaparooProject/labelprint/pkg/api/validation"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
)

type PingResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type JobResponse struct {
	Job jobs.Job `json:"job"`
}

type JobsResponse struct {
	Jobs []jobs.Job `json:"jobs"`
}

// ErrorResponse carries the failure and, when a job was attempted, its
// record. Fields lists per-field validation failures.
type ErrorResponse struct {
	Job    *jobs.Job               `json:"job,omitempty"`
	Error  string                  `json:"error"`
	Jobs   []jobs.Job              `json:"jobs,omitempty"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}
