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

package validation

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/labelprint/pkg/labels/template"
	"github.com/go-playground/validator/v10"
	"github.com/hbollon/go-edlib"
)

// Error lists every rejected field of a request.
type Error struct {
	Fields []FieldError `json:"fields"`
}

// FieldError describes one rejected field. Field is the JSON path within
// the request, e.g. "labels[2].fields.price".
type FieldError struct {
	Value   any    `json:"value,omitempty"`
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// NewError converts validator output into an Error.
func NewError(errs validator.ValidationErrors) *Error {
	ve := &Error{Fields: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		path := fieldPath(fe)
		ve.Fields = append(ve.Fields, FieldError{
			Field:   path,
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: message(path, fe),
		})
	}
	return ve
}

// fieldPath drops the Go type name that leads every namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

var messages = map[string]func(path string, fe validator.FieldError) string{
	"required": func(path string, _ validator.FieldError) string {
		return path + " is required"
	},
	"variant": func(_ string, fe validator.FieldError) string {
		name := fmt.Sprint(fe.Value())
		if guess := suggestVariant(name); guess != "" {
			return fmt.Sprintf("variant %q not found, did you mean %q?", name, guess)
		}
		return fmt.Sprintf("variant %q not found", name)
	},
	"encoding": func(_ string, fe validator.FieldError) string {
		return fmt.Sprintf("encoding %q not supported", fe.Value())
	},
	"barcode": func(path string, _ validator.FieldError) string {
		return path + " must be printable ASCII without quotes"
	},
	"min": func(path string, fe validator.FieldError) string {
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	},
	"max": func(path string, fe validator.FieldError) string {
		return fmt.Sprintf("%s must be at most %s", path, fe.Param())
	},
	"gte": func(path string, fe validator.FieldError) string {
		return fmt.Sprintf("%s must be greater than or equal to %s", path, fe.Param())
	},
	"lte": func(path string, fe validator.FieldError) string {
		return fmt.Sprintf("%s must be less than or equal to %s", path, fe.Param())
	},
}

// minSuggestSimilarity keeps "did you mean" to near misses such as typos
// and wrong case.
const minSuggestSimilarity = 0.8

// suggestVariant returns the known variant closest to name, or "" when
// none is close.
func suggestVariant(name string) string {
	best, bestScore := "", float32(0)
	lower := strings.ToLower(name)
	for _, v := range template.Variants {
		score := edlib.JaroWinklerSimilarity(lower, string(v))
		if score > bestScore {
			best, bestScore = string(v), score
		}
	}
	if bestScore < minSuggestSimilarity {
		return ""
	}
	return best
}

func message(path string, fe validator.FieldError) string {
	if fn, ok := messages[fe.Tag()]; ok {
		return fn(path, fe)
	}
	return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
}
