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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encoding names the device code page used for instruction text.
type Encoding string

const (
	// EncodingGBK is code page 936, what most TSPL firmware expects.
	EncodingGBK     Encoding = "gbk"
	EncodingGB18030 Encoding = "gb18030"

	DefaultEncoding = EncodingGBK
)

// ParseEncoding accepts the config spellings of a code page.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gbk", "cp936", "936":
		return EncodingGBK, nil
	case "gb18030":
		return EncodingGB18030, nil
	default:
		return "", fmt.Errorf("unsupported printer encoding: %s", name)
	}
}

func (e Encoding) codec() encoding.Encoding {
	if e == EncodingGB18030 {
		return simplifiedchinese.GB18030
	}
	return simplifiedchinese.GBK
}

type transcoder struct {
	enc  encoding.Encoding
	name Encoding
}

func newTranscoder(e Encoding) *transcoder {
	if e == "" {
		e = DefaultEncoding
	}
	return &transcoder{enc: e.codec(), name: e}
}

// encode transcodes s to the device code page. When that fails the span is
// sent as UTF-8 instead: barcodes and digits survive, and the print still
// happens.
func (t *transcoder) encode(s string) ([]byte, bool) {
	if s == "" {
		return nil, true
	}
	out, err := t.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		log.Warn().Err(err).
			Str("encoding", string(t.name)).
			Int("length", len(s)).
			Msg("text not representable in printer code page, sending as utf-8")
		return []byte(s), false
	}
	return out, true
}

// encodeASCII returns s as single bytes, or its UTF-8 bytes if any rune is
// outside ASCII.
func encodeASCII(s string) ([]byte, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			log.Warn().
				Int("offset", i).
				Msg("non-ascii text in cpcl document, sending as utf-8")
			return []byte(s), false
		}
	}
	return []byte(s), true
}
