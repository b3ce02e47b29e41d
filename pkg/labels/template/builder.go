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

package template

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Build renders the default product label at 40x30 mm.
func Build(fields Fields, copies int) string {
	return BuildWith(fields, Options{Copies: copies})
}

// BuildWith renders fields using the layout and page size in opts. It never
// fails: missing fields are skipped and missing options take defaults.
func BuildWith(fields Fields, opts Options) string {
	opts = opts.withDefaults()

	b := &builder{
		widthDots: opts.WidthMM * DotsPerMM,
	}
	b.preamble(opts.WidthMM, opts.HeightMM)

	switch opts.Variant {
	case VariantCertificate:
		b.certificate(fields)
	case VariantBackend:
		b.backend(fields)
	case VariantDebug:
		b.debug(fields)
	default:
		b.product(fields)
	}

	b.line(fmt.Sprintf("PRINT %d", opts.Copies))
	return b.sb.String()
}

type builder struct {
	sb        strings.Builder
	widthDots int
}

func (b *builder) line(s string) {
	b.sb.WriteString(s)
	b.sb.WriteString("\r\n")
}

func (b *builder) preamble(widthMM, heightMM int) {
	b.line(fmt.Sprintf("SIZE %d mm,%d mm", widthMM, heightMM))
	b.line("GAP 2 mm,0 mm")
	b.line("CODEPAGE 936")
	b.line("CHARSET GB18030")
	b.line("REFERENCE 0,0")
	b.line("DIRECTION 1")
	b.line("DENSITY 12")
	b.line("CLS")
}

// text emits a TEXT command, choosing the CJK face when the value needs it.
func (b *builder) text(x, y, scale int, value string) {
	if value == "" {
		return
	}
	value = flattenText(value)
	b.line(fmt.Sprintf(
		"TEXT %d,%d,\"%s\",0,%d,%d,\"%s\"",
		x, y, fontFor(value), scale, scale, value,
	))
}

func (b *builder) barcode(x, y, height int, readable bool, value string) {
	value = stripSpaces(value)
	if value == "" {
		return
	}
	hr := 0
	if readable {
		hr = 1
	}
	b.line(fmt.Sprintf("BARCODE %d,%d,\"128\",%d,%d,0,2,2,\"%s\"", x, y, height, hr, value))
}

func (b *builder) qrcode(x, y, cell int, value string) {
	value = strings.ReplaceAll(value, "\"", "")
	if value == "" {
		return
	}
	b.line(fmt.Sprintf("QRCODE %d,%d,L,%d,A,0,\"%s\"", x, y, cell, value))
}

// centered returns the x offset that centers value on the page.
func (b *builder) centered(value string, scale int) int {
	x := (b.widthDots - textWidth(flattenText(value))*scale) / 2
	if x < 0 {
		return 0
	}
	return x
}

func (b *builder) product(f Fields) {
	b.text(16, 16, 1, f.ProductName)
	b.text(16, 48, 1, f.Spec)
	if f.SKUCode != "" {
		b.text(16, 80, 1, "SKU:"+f.SKUCode)
	}
	if f.Quantity > 0 {
		b.text(200, 80, 1, fmt.Sprintf("x%d%s", f.Quantity, f.Unit))
	}
	if f.Price != nil {
		b.text(16, 112, 1, formatPrice(*f.Price, f.Unit))
	}
	b.barcode(16, 152, 48, true, f.ProductCode)
}

func (b *builder) certificate(f Fields) {
	y := 12
	row := func(label, value string) {
		if value == "" {
			return
		}
		b.text(16, y, 1, label+value)
		y += 28
	}

	if f.HeaderInfo != "" {
		b.text(b.centered(f.HeaderInfo, 1), y, 1, f.HeaderInfo)
		y += 32
	}
	row("品名:", f.ProductName)
	row("厂名:", f.FactoryName)
	row("执行标准:", f.ExecuteStandard)
	row("材质:", f.Material)
	row("地址:", f.AddressInfo)
	row("生产日期:", f.PrevMonth)
	row("", f.OtherInfo)
}

func (b *builder) backend(f Fields) {
	b.text(16, 12, 1, f.ProductName)
	if f.Spec != "" {
		b.text(b.centered(f.Spec, 1), 44, 1, f.Spec)
	}
	if f.Price != nil {
		b.text(16, 80, 1, formatPrice(*f.Price, f.Unit))
	}
	b.qrcode(232, 72, 3, f.ProductCode)
	b.barcode(16, 150, 40, false, f.ProductCode)
	if tail := BarcodeTail(f.ProductCode); tail != "" {
		b.text(16, 200, 1, tail)
	}
}

func (b *builder) debug(f Fields) {
	b.text(16, 16, 1, "DEBUG")
	b.text(16, 48, 1, asciiOnly(f.ProductName))
	if f.SKUCode != "" {
		b.text(16, 80, 1, "SKU "+asciiOnly(f.SKUCode))
	}
	if f.Price != nil {
		b.text(16, 112, 1, fmt.Sprintf("%.2f", *f.Price))
	}
	b.barcode(16, 152, 48, true, asciiOnly(f.ProductCode))
}

func formatPrice(price float64, unit string) string {
	s := fmt.Sprintf("￥%.2f", price)
	if unit != "" {
		s += "/" + unit
	}
	return s
}

func fontFor(value string) string {
	for _, r := range value {
		if r >= utf8.RuneSelf {
			return FontCJK
		}
	}
	return FontBitmap
}

// flattenText makes a value safe inside a quoted TEXT argument. The
// language has no multi-line text and no quote escape.
func flattenText(value string) string {
	value = strings.NewReplacer(
		"\r\n", " ",
		"\n", " ",
		"\r", " ",
		"\"", "'",
	).Replace(value)
	return value
}

func stripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

func asciiOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf {
			return '?'
		}
		return r
	}, value)
}

// textWidth estimates the printed width in dots: full-width runes take 24
// dots in the CJK face, ASCII takes 12 there and 16 in the bitmap font.
func textWidth(value string) int {
	cjk := fontFor(value) == FontCJK
	w := 0
	for _, r := range value {
		switch {
		case r >= utf8.RuneSelf:
			w += 24
		case cjk:
			w += 12
		default:
			w += 16
		}
	}
	return w
}
