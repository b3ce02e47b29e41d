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
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ZaparooProject/labelprint/pkg/labels/instructions"
	"github.com/rs/zerolog/log"
)

const (
	Base64Start = "__BINARY_DATA_BASE64__"
	Base64End   = "__END_BINARY__"
)

// Assembler converts normalized documents to printer bytes.
type Assembler struct {
	Encoding Encoding
}

func NewAssembler(enc Encoding) *Assembler {
	return &Assembler{Encoding: enc}
}

// Assemble never fails: spans that cannot be transcoded or decoded degrade
// to UTF-8 text rather than aborting the job.
func (a *Assembler) Assemble(doc instructions.Document) *Payload {
	b := &builder{enc: newTranscoder(a.Encoding)}

	switch doc.Dialect {
	case instructions.CPCL:
		b.ascii(doc.String())
	default:
		text := doc.String()
		if strings.Contains(text, Base64Start) {
			assembleBase64(b, text)
		} else {
			assembleLines(b, doc.Commands)
		}
	}

	p := b.payload()
	log.Debug().
		Str("dialect", doc.DialectName()).
		Int("bytes", p.Len()).
		Int("segments", len(p.segments)).
		Bool("degraded", p.Degraded()).
		Msg("assembled print payload")
	return p
}

// assembleBase64 splits text around each sentinel pair: the surrounding
// text is transcoded, the enclosed Base64 is decoded and copied verbatim.
func assembleBase64(b *builder, text string) {
	rest := text
	for {
		start := strings.Index(rest, Base64Start)
		if start < 0 {
			break
		}
		bodyAt := start + len(Base64Start)
		end := strings.Index(rest[bodyAt:], Base64End)
		if end < 0 {
			log.Warn().Msg("binary start marker without end marker, sending as text")
			break
		}
		body := rest[bodyAt : bodyAt+end]
		after := bodyAt + end + len(Base64End)

		data, err := decodeBase64(body)
		if err != nil {
			log.Warn().Err(err).Msg("invalid base64 binary block, sending as text")
			b.text(rest[:after])
			rest = rest[after:]
			continue
		}

		b.text(rest[:start])
		b.binary(data)
		rest = rest[after:]
	}
	b.text(rest)
}

func decodeBase64(body string) ([]byte, error) {
	body = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, body)
	data, err := base64.StdEncoding.DecodeString(body)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(body); rawErr == nil {
		return raw, nil
	}
	return nil, err //nolint:wrapcheck // decoder error is descriptive enough
}

var bitmapRe = regexp.MustCompile(`(?i)^(BITMAP\s+\d+\s*,\s*\d+\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*\d+\s*,)(.*)$`)

// assembleLines handles the legacy inline style where BITMAP data follows
// the command as hex. Every other line is transcoded as text.
func assembleLines(b *builder, cmds []instructions.Command) {
	for _, c := range cmds {
		line := c.String()
		m := bitmapRe.FindStringSubmatch(line)
		if m == nil {
			b.text(line + instructions.LineTerminator)
			continue
		}

		data, err := parseHexData(m[4])
		if err != nil {
			log.Warn().Err(err).Msg("unparseable bitmap data, sending line as text")
			b.text(line + instructions.LineTerminator)
			continue
		}

		widthBytes, _ := strconv.Atoi(m[2])
		heightDots, _ := strconv.Atoi(m[3])
		if want := widthBytes * heightDots; want != len(data) {
			log.Warn().
				Int("expected", want).
				Int("actual", len(data)).
				Msg("bitmap data length does not match its dimensions")
		}

		b.text(m[1])
		b.binary(data)
		b.text(instructions.LineTerminator)
	}
}

// parseHexData accepts "0xFF,0x00,..." tokens or one continuous hex
// string.
func parseHexData(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errEmptyBitmap
	}

	if strings.Contains(strings.ToLower(s), "0x") {
		tokens := strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		out := make([]byte, 0, len(tokens))
		for _, tok := range tokens {
			tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
			v, err := strconv.ParseUint(tok, 16, 8)
			if err != nil {
				return nil, errInvalidHexToken(tok, err)
			}
			out = append(out, byte(v))
		}
		return out, nil
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errInvalidHex(err)
	}
	return data, nil
}
