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

// Package template renders label fields into TSPL instruction text.
package template

// Fields describes the content of one label. Every field is optional; an
// empty string (or zero quantity, or nil price) omits its draw command.
type Fields struct {
	Price           *float64 `json:"price,omitempty"`
	ProductName     string   `json:"product_name"`
	Spec            string   `json:"spec,omitempty"`
	SKUCode         string   `json:"sku_code,omitempty"`
	ProductCode     string   `json:"product_code,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	HeaderInfo      string   `json:"header_info,omitempty"`
	FactoryName     string   `json:"factory_name,omitempty"`
	ExecuteStandard string   `json:"execute_standard,omitempty"`
	AddressInfo     string   `json:"address_info,omitempty"`
	Material        string   `json:"material,omitempty"`
	OtherInfo       string   `json:"other_info,omitempty"`
	PrevMonth       string   `json:"prev_month,omitempty"`
	Quantity        int      `json:"quantity,omitempty"`
}

// Variant selects the layout used by BuildWith.
type Variant string

const (
	VariantProduct     Variant = "product"
	VariantCertificate Variant = "certificate"
	VariantBackend     Variant = "backend"
	VariantDebug       Variant = "debug"
)

// Variants lists every supported layout.
var Variants = []Variant{
	VariantProduct,
	VariantCertificate,
	VariantBackend,
	VariantDebug,
}

// ParseVariant maps a name to a Variant, falling back to the product layout
// for empty or unknown names.
func ParseVariant(name string) Variant {
	for _, v := range Variants {
		if string(v) == name {
			return v
		}
	}
	return VariantProduct
}

const (
	DefaultWidthMM  = 40
	DefaultHeightMM = 30
	DotsPerMM       = 8

	FontCJK    = "TSS24.BF2"
	FontBitmap = "3"
)

type Options struct {
	Variant  Variant
	WidthMM  int
	HeightMM int
	Copies   int
}

func (o Options) withDefaults() Options {
	if o.Variant == "" {
		o.Variant = VariantProduct
	}
	if o.WidthMM <= 0 {
		o.WidthMM = DefaultWidthMM
	}
	if o.HeightMM <= 0 {
		o.HeightMM = DefaultHeightMM
	}
	if o.Copies <= 0 {
		o.Copies = 1
	}
	return o
}
