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

// Package payload turns normalized instruction documents into the exact
// byte stream written to a printer.
package payload

import "slices"

type SegmentKind int

const (
	// SegmentText holds instruction text already transcoded to the device
	// code page.
	SegmentText SegmentKind = iota
	// SegmentBinary holds raw bytes copied verbatim, such as bitmap data.
	SegmentBinary
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentBinary:
		return "binary"
	default:
		return "unknown"
	}
}

type Segment struct {
	Data []byte
	Kind SegmentKind
}

// Payload is an assembled print job. It is built once and never modified;
// accessors hand out copies.
type Payload struct {
	segments []Segment
	size     int
	degraded bool
}

// Segments returns the payload's segments in document order.
func (p *Payload) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	for i, s := range p.segments {
		out[i] = Segment{Kind: s.Kind, Data: slices.Clone(s.Data)}
	}
	return out
}

// Bytes concatenates every segment into one contiguous buffer.
func (p *Payload) Bytes() []byte {
	buf := make([]byte, 0, p.size)
	for _, s := range p.segments {
		buf = append(buf, s.Data...)
	}
	return buf
}

// Len is the total byte length, the sum of segment lengths.
func (p *Payload) Len() int {
	return p.size
}

// Degraded reports whether any text span had to fall back to UTF-8
// because the device code page could not represent it.
func (p *Payload) Degraded() bool {
	return p.degraded
}

type builder struct {
	enc      *transcoder
	segments []Segment
	size     int
	degraded bool
}

func (b *builder) add(kind SegmentKind, data []byte) {
	if len(data) == 0 {
		return
	}
	b.size += len(data)
	if n := len(b.segments); n > 0 && b.segments[n-1].Kind == kind {
		b.segments[n-1].Data = append(b.segments[n-1].Data, data...)
		return
	}
	b.segments = append(b.segments, Segment{Kind: kind, Data: slices.Clone(data)})
}

func (b *builder) text(s string) {
	data, ok := b.enc.encode(s)
	if !ok {
		b.degraded = true
	}
	b.add(SegmentText, data)
}

func (b *builder) ascii(s string) {
	data, ok := encodeASCII(s)
	if !ok {
		b.degraded = true
	}
	b.add(SegmentText, data)
}

func (b *builder) binary(data []byte) {
	b.add(SegmentBinary, data)
}

func (b *builder) payload() *Payload {
	return &Payload{
		segments: b.segments,
		size:     b.size,
		degraded: b.degraded,
	}
}
