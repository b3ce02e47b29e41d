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

// Package validation checks print API request bodies using
// go-playground/validator with validators for label-specific fields.
package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/ZaparooProject/labelprint/pkg/labels/payload"
	"github.com/ZaparooProject/labelprint/pkg/labels/template"
	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingParams = errors.New("missing params")
	ErrInvalidParams = errors.New("invalid params")
)

// Validator handles validation of API parameters.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the custom tags registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("variant", validateVariant)
	_ = v.RegisterValidation("encoding", validateEncoding)
	_ = v.RegisterValidation("barcode", validateBarcode)
	v.RegisterStructValidation(validateFields, template.Fields{})
	v.RegisterTagNameFunc(jsonFieldName)

	return &Validator{validate: v}
}

// DefaultValidator is a shared validator instance for API use.
var DefaultValidator = NewValidator()

// Validate validates a struct and returns an *Error if any field fails.
func (v *Validator) Validate(params any) error {
	return v.ValidateCtx(context.Background(), params)
}

func (v *Validator) ValidateCtx(ctx context.Context, params any) error {
	if err := v.validate.StructCtx(ctx, params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ValidateAndUnmarshal unmarshals JSON params and validates them.
// Returns ErrMissingParams if params is empty, ErrInvalidParams if unmarshal
// fails, or an *Error if validation fails.
func ValidateAndUnmarshal[T any](params json.RawMessage, dest *T) error {
	return ValidateAndUnmarshalCtx(context.Background(), params, dest)
}

func ValidateAndUnmarshalCtx[T any](ctx context.Context, params json.RawMessage, dest *T) error {
	if len(params) == 0 {
		return ErrMissingParams
	}
	if err := json.Unmarshal(params, dest); err != nil {
		return ErrInvalidParams
	}
	return DefaultValidator.ValidateCtx(ctx, dest)
}

// jsonFieldName reports fields by their JSON key so errors match the
// request body.
func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validateVariant checks a label layout name.
func validateVariant(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	for _, v := range template.Variants {
		if string(v) == val {
			return true
		}
	}
	return false
}

func validateEncoding(fl validator.FieldLevel) bool {
	_, err := payload.ParseEncoding(fl.Field().String())
	return err == nil
}

// validateBarcode accepts what a Code 128 symbol can carry once spaces are
// stripped: printable ASCII without double quotes.
func validateBarcode(fl validator.FieldLevel) bool {
	return isBarcode(fl.Field().String())
}

func isBarcode(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if r < 0x21 || r > 0x7e || r == '"' {
			return false
		}
	}
	return true
}

// validateFields applies the rules every label shares, whatever the
// request that carries it.
func validateFields(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(template.Fields)
	if !ok {
		return
	}
	if !isBarcode(f.ProductCode) {
		sl.ReportError(f.ProductCode, "product_code", "ProductCode", "barcode", "")
	}
	if f.Quantity < 0 {
		sl.ReportError(f.Quantity, "quantity", "Quantity", "gte", "0")
	}
	if f.Price != nil && *f.Price < 0 {
		sl.ReportError(*f.Price, "price", "Price", "gte", "0")
	}
}
