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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 {
	return &v
}

func lines(doc string) []string {
	return strings.Split(strings.TrimRight(doc, "\r\n"), "\r\n")
}

func countPrefix(doc, prefix string) int {
	n := 0
	for _, l := range lines(doc) {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestBuildPreamble(t *testing.T) {
	t.Parallel()

	doc := Build(Fields{ProductName: "Cola"}, 1)
	got := lines(doc)
	require.GreaterOrEqual(t, len(got), 9)
	assert.Equal(t, []string{
		"SIZE 40 mm,30 mm",
		"GAP 2 mm,0 mm",
		"CODEPAGE 936",
		"CHARSET GB18030",
		"REFERENCE 0,0",
		"DIRECTION 1",
		"DENSITY 12",
		"CLS",
	}, got[:8])
	assert.Equal(t, "PRINT 1", got[len(got)-1])
}

func TestBuildCustomSize(t *testing.T) {
	t.Parallel()

	doc := BuildWith(Fields{}, Options{WidthMM: 60, HeightMM: 40, Copies: 3})
	assert.True(t, strings.HasPrefix(doc, "SIZE 60 mm,40 mm\r\n"))
	assert.True(t, strings.HasSuffix(doc, "PRINT 3\r\n"))
}

func TestBuildCopiesDefault(t *testing.T) {
	t.Parallel()

	for _, copies := range []int{0, -2} {
		doc := Build(Fields{ProductName: "x"}, copies)
		assert.True(t, strings.HasSuffix(doc, "PRINT 1\r\n"), "copies=%d", copies)
		assert.Equal(t, 1, countPrefix(doc, "PRINT"))
	}
}

func TestBuildFontSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		font  string
	}{
		{name: "ascii uses bitmap font", value: "Cola 330ml", font: `"3"`},
		{name: "cjk forces cjk face", value: "可乐", font: `"TSS24.BF2"`},
		{name: "mixed forces cjk face", value: "Cola 可乐", font: `"TSS24.BF2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := Build(Fields{ProductName: tt.value}, 1)
			assert.Contains(t, doc, "TEXT 16,16,"+tt.font+",0,1,1,\""+tt.value+"\"")
		})
	}
}

func TestBuildFlattensNewlines(t *testing.T) {
	t.Parallel()

	doc := Build(Fields{ProductName: "line one\nline two\r\nthree"}, 1)
	assert.Contains(t, doc, `"line one line two three"`)
	assert.Equal(t, 1, countPrefix(doc, "TEXT"))
}

func TestBuildQuotesInText(t *testing.T) {
	t.Parallel()

	doc := Build(Fields{ProductName: `12" pizza`}, 1)
	assert.Contains(t, doc, `"12' pizza"`)
}

func TestBuildBarcodeStripsWhitespace(t *testing.T) {
	t.Parallel()

	doc := Build(Fields{ProductCode: " 6901 2345\t6789 "}, 1)
	assert.Contains(t, doc, `BARCODE 16,152,"128",48,1,0,2,2,"690123456789"`)
}

func TestBuildQRStripsQuotes(t *testing.T) {
	t.Parallel()

	doc := BuildWith(Fields{ProductCode: `AB"12"34`}, Options{Variant: VariantBackend})
	assert.Contains(t, doc, `QRCODE 232,72,L,3,A,0,"AB1234"`)
}

func TestBuildOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	doc := Build(Fields{}, 1)
	assert.Zero(t, countPrefix(doc, "TEXT"))
	assert.Zero(t, countPrefix(doc, "BARCODE"))
	assert.Equal(t, 1, countPrefix(doc, "PRINT"))
}

func TestBuildProductPrice(t *testing.T) {
	t.Parallel()

	doc := Build(Fields{ProductName: "可乐", Price: price(3.5), Unit: "瓶"}, 1)
	assert.Contains(t, doc, `TEXT 16,112,"TSS24.BF2",0,1,1,"￥3.50/瓶"`)
}

func TestBuildCertificate(t *testing.T) {
	t.Parallel()

	doc := BuildWith(Fields{
		HeaderInfo:      "合格证",
		ProductName:     "毛巾",
		FactoryName:     "某某纺织厂",
		ExecuteStandard: "GB/T 22864",
		PrevMonth:       "2026-09",
	}, Options{Variant: VariantCertificate})

	assert.Contains(t, doc, `"品名:毛巾"`)
	assert.Contains(t, doc, `"厂名:某某纺织厂"`)
	assert.Contains(t, doc, `"执行标准:GB/T 22864"`)
	assert.Contains(t, doc, `"生产日期:2026-09"`)
	assert.NotContains(t, doc, "材质:")
	assert.Equal(t, 5, countPrefix(doc, "TEXT"))
}

func TestBuildBackendCentersSpec(t *testing.T) {
	t.Parallel()

	// "500ml" in the bitmap font is 5*16=80 dots on a 320 dot page.
	doc := BuildWith(Fields{Spec: "500ml", ProductCode: "1234,56789012"}, Options{Variant: VariantBackend})
	assert.Contains(t, doc, `TEXT 120,44,"3",0,1,1,"500ml"`)
	assert.Contains(t, doc, `TEXT 16,200,"3",0,1,1,"1234"`)
	assert.Contains(t, doc, `BARCODE 16,150,"128",40,0,0,2,2,"1234,56789012"`)
}

func TestBuildDebugIsASCII(t *testing.T) {
	t.Parallel()

	doc := BuildWith(Fields{ProductName: "可乐 Cola"}, Options{Variant: VariantDebug})
	for _, r := range doc {
		require.Less(t, r, rune(0x80))
	}
	assert.Contains(t, doc, `"?? Cola"`)
}

func TestParseVariant(t *testing.T) {
	t.Parallel()

	assert.Equal(t, VariantBackend, ParseVariant("backend"))
	assert.Equal(t, VariantCertificate, ParseVariant("certificate"))
	assert.Equal(t, VariantProduct, ParseVariant(""))
	assert.Equal(t, VariantProduct, ParseVariant("nope"))
}
