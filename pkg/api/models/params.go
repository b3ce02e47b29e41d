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

package models

import "github.com/ZaparooProject/labelprint/pkg/labels/template"

const (
	MaxCopies      = 999
	MaxBatchLabels = 500
	// MaxInstructionBytes bounds raw instruction text, Base64 bitmaps
	// included.
	MaxInstructionBytes = 1 << 20
)

// LabelParams prints one label from a template.
type LabelParams struct {
	Variant  string          `json:"variant,omitempty" validate:"variant"`
	Fields   template.Fields `json:"fields"`
	WidthMM  int             `json:"width_mm,omitempty" validate:"gte=0,lte=120"`
	HeightMM int             `json:"height_mm,omitempty" validate:"gte=0,lte=200"`
	Copies   int             `json:"copies,omitempty" validate:"gte=0,lte=999"`
}

// RawParams prints caller-supplied TSPL or CPCL text.
type RawParams struct {
	Instructions string `json:"instructions" validate:"required,max=1048576"`
	Copies       int    `json:"copies,omitempty" validate:"gte=0,lte=999"`
}

// BatchParams prints each label in turn with the configured delay.
type BatchParams struct {
	Labels []template.Fields `json:"labels" validate:"required,min=1,max=500,dive"`
	Copies int               `json:"copies,omitempty" validate:"gte=0,lte=999"`
}
