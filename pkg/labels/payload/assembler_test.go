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

package payload

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/ZaparooProject/labelprint/pkg/labels/instructions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func normalized(t *testing.T, raw string) instructions.Document {
	t.Helper()
	doc, ok := instructions.Normalize(raw)
	require.True(t, ok, "expected %q to be recognized", raw)
	return doc
}

func segmentKinds(p *Payload) []SegmentKind {
	kinds := make([]SegmentKind, 0, len(p.segments))
	for _, s := range p.Segments() {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

func TestAssembleTextIsGBK(t *testing.T) {
	t.Parallel()

	doc := normalized(t, "CLS\nTEXT 16,16,\"TSS24.BF2\",0,1,1,\"可乐\"")
	p := NewAssembler(EncodingGBK).Assemble(doc)

	assert.False(t, p.Degraded())
	require.Equal(t, []SegmentKind{SegmentText}, segmentKinds(p))

	want, err := simplifiedchinese.GBK.NewEncoder().String("可乐")
	require.NoError(t, err)
	assert.True(t, bytes.Contains(p.Bytes(), []byte(want)))
	assert.False(t, bytes.Contains(p.Bytes(), []byte("可乐")))

	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(p.Bytes())
	require.NoError(t, err)
	assert.Equal(t, doc.String(), string(decoded))
}

func TestAssembleBase64RoundTrip(t *testing.T) {
	t.Parallel()

	bitmap := []byte{0x00, 0xFF, 0x0D, 0x0A, 0x22, 0x80}
	raw := "CLS\nBITMAP 0,0,2,3,0," + Base64Start +
		base64.StdEncoding.EncodeToString(bitmap) + Base64End + "\nPRINT 1"

	p := NewAssembler(EncodingGBK).Assemble(normalized(t, raw))

	segs := p.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, []SegmentKind{SegmentText, SegmentBinary, SegmentText}, segmentKinds(p))
	assert.Equal(t, bitmap, segs[1].Data)
	assert.True(t, bytes.HasSuffix(segs[0].Data, []byte("BITMAP 0,0,2,3,0,")))
	assert.Equal(t, []byte("\r\nPRINT 1\r\n"), segs[2].Data)

	assert.NotContains(t, string(p.Bytes()), Base64Start)
	assert.NotContains(t, string(p.Bytes()), Base64End)
}

func TestAssembleBase64Unpadded(t *testing.T) {
	t.Parallel()

	bitmap := []byte{0x01, 0x02}
	raw := "CLS\nBITMAP 0,0,2,1,0," + Base64Start +
		base64.RawStdEncoding.EncodeToString(bitmap) + Base64End

	p := NewAssembler(EncodingGBK).Assemble(normalized(t, raw))
	segs := p.Segments()
	require.Len(t, segs, 3)
	assert.Equal(t, bitmap, segs[1].Data)
}

func TestAssembleBase64Invalid(t *testing.T) {
	t.Parallel()

	raw := "CLS\nBITMAP 0,0,2,1,0," + Base64Start + "!!!not base64" + Base64End
	p := NewAssembler(EncodingGBK).Assemble(normalized(t, raw))

	assert.Equal(t, []SegmentKind{SegmentText}, segmentKinds(p))
	assert.Contains(t, string(p.Bytes()), "!!!not base64")
}

func TestAssembleInlineHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []byte
	}{
		{name: "tokens", data: "0xFF,0x00,0x81,0x7E", want: []byte{0xFF, 0x00, 0x81, 0x7E}},
		{name: "continuous", data: "FF00817E", want: []byte{0xFF, 0x00, 0x81, 0x7E}},
		{name: "spaced", data: "FF 00 81 7E", want: []byte{0xFF, 0x00, 0x81, 0x7E}},
		{name: "uppercase prefix", data: "0XFF 0X00 0X81 0X7E", want: []byte{0xFF, 0x00, 0x81, 0x7E}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := "CLS\nBITMAP 0,0,2,2,0," + tt.data + "\nPRINT 1"
			p := NewAssembler(EncodingGBK).Assemble(normalized(t, raw))

			segs := p.Segments()
			require.Len(t, segs, 3)
			assert.Equal(t, SegmentBinary, segs[1].Kind)
			assert.Equal(t, tt.want, segs[1].Data)
			assert.True(t, bytes.HasPrefix(segs[2].Data, []byte("\r\nPRINT 1")))
		})
	}
}

func TestAssembleInlineHexInvalidFallsBackToText(t *testing.T) {
	t.Parallel()

	raw := "CLS\nBITMAP 0,0,2,2,0,ZZZZ\nPRINT 1"
	p := NewAssembler(EncodingGBK).Assemble(normalized(t, raw))

	assert.Equal(t, []SegmentKind{SegmentText}, segmentKinds(p))
	assert.Contains(t, string(p.Bytes()), "BITMAP 0,0,2,2,0,ZZZZ\r\n")
}

func TestAssembleCPCL(t *testing.T) {
	t.Parallel()

	doc := normalized(t, "! 0 200 200 210 1\nTEXT 4 0 30 40 Hello\nFORM\nPRINT")
	p := NewAssembler(EncodingGBK).Assemble(doc)

	assert.False(t, p.Degraded())
	assert.Equal(t, []byte(doc.String()), p.Bytes())
}

func TestAssembleCPCLNonASCII(t *testing.T) {
	t.Parallel()

	doc := normalized(t, "! 0 200 200 210 1\nTEXT 4 0 30 40 可乐\nFORM\nPRINT")
	p := NewAssembler(EncodingGBK).Assemble(doc)

	assert.True(t, p.Degraded())
	assert.Equal(t, []byte(doc.String()), p.Bytes())
}

func TestAssembleUnencodableFallsBack(t *testing.T) {
	t.Parallel()

	raw := "CLS\nTEXT 16,16,\"TSS24.BF2\",0,1,1,\"可乐🥤\""

	gbk := NewAssembler(EncodingGBK).Assemble(normalized(t, raw))
	assert.True(t, gbk.Degraded())
	assert.Contains(t, string(gbk.Bytes()), "可乐🥤")

	gb18030 := NewAssembler(EncodingGB18030).Assemble(normalized(t, raw))
	assert.False(t, gb18030.Degraded())
	assert.NotContains(t, string(gb18030.Bytes()), "🥤")
}

func TestPayloadAccessors(t *testing.T) {
	t.Parallel()

	raw := "CLS\nBITMAP 0,0,1,1,0,AA\nPRINT 1"
	p := NewAssembler("").Assemble(normalized(t, raw))

	total := 0
	for _, s := range p.Segments() {
		total += len(s.Data)
	}
	assert.Equal(t, p.Len(), total)
	assert.Equal(t, p.Len(), len(p.Bytes()))

	b := p.Bytes()
	b[0] = 'X'
	assert.NotEqual(t, byte('X'), p.Bytes()[0])

	segs := p.Segments()
	segs[1].Data[0] = 0x00
	assert.Equal(t, byte(0xAA), p.Segments()[1].Data[0])
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{in: "", want: EncodingGBK},
		{in: "GBK", want: EncodingGBK},
		{in: "cp936", want: EncodingGBK},
		{in: " gb18030 ", want: EncodingGB18030},
		{in: "shift_jis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseEncoding(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
