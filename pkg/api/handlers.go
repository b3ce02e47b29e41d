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

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ZaparooProject/labelprint/pkg/api/models"
	"github.com/ZaparooProject/labelprint/pkg/api/validation"
	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/database/printlog"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/ZaparooProject/labelprint/pkg/labels/bitmap"
	"github.com/ZaparooProject/labelprint/pkg/labels/template"
	"github.com/ZaparooProject/labelprint/pkg/printers"
	"github.com/ZaparooProject/labelprint/pkg/service"
	"github.com/ZaparooProject/labelprint/pkg/service/broker"
	"github.com/rs/zerolog/log"
)

const (
	maxJSONBody  = 2 << 20
	maxImageBody = 8 << 20
)

type handlers struct {
	printer Printer
	events  *broker.Broker
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writing api response")
	}
}

// statusFor maps a print or request error to its HTTP status.
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.Is(err, service.ErrEmptyBatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnrecognized):
		return http.StatusUnprocessableEntity
	case errors.Is(err, printers.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, printers.ErrWriteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, resp models.ErrorResponse) {
	resp.Error = err.Error()
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, statusFor(err), resp)
}

// decode reads a JSON body into dest and validates it.
func decode[T any](w http.ResponseWriter, r *http.Request, dest *T) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return fmt.Errorf("%w: %w", validation.ErrInvalidParams, err)
	}
	return validation.ValidateAndUnmarshalCtx(r.Context(), body, dest) //nolint:wrapcheck // typed errors map to statuses
}

func (*handlers) ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.PingResponse{Status: "ok", Version: config.AppVersion})
}

func (h *handlers) printerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.printer.Status(r.Context()))
}

func (h *handlers) recentJobs(w http.ResponseWriter, r *http.Request) {
	limit := printlog.DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, fmt.Errorf("%w: limit must be 1-1000", validation.ErrInvalidParams), models.ErrorResponse{})
			return
		}
		limit = n
	}

	list, err := h.printer.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err, models.ErrorResponse{})
		return
	}
	writeJSON(w, http.StatusOK, models.JobsResponse{Jobs: list})
}

func (h *handlers) printLabel(w http.ResponseWriter, r *http.Request) {
	var params models.LabelParams
	if err := decode(w, r, &params); err != nil {
		writeError(w, err, models.ErrorResponse{})
		return
	}

	job, err := h.printer.PrintLabelVariant(r.Context(), params.Fields, template.Options{
		Variant:  template.ParseVariant(params.Variant),
		WidthMM:  params.WidthMM,
		HeightMM: params.HeightMM,
		Copies:   params.Copies,
	})
	respondJob(w, job, err)
}

func (h *handlers) printRaw(w http.ResponseWriter, r *http.Request) {
	var params models.RawParams
	if err := decode(w, r, &params); err != nil {
		writeError(w, err, models.ErrorResponse{})
		return
	}

	job, err := h.printer.PrintRaw(r.Context(), params.Instructions, params.Copies)
	respondJob(w, job, err)
}

func (h *handlers) printBatch(w http.ResponseWriter, r *http.Request) {
	var params models.BatchParams
	if err := decode(w, r, &params); err != nil {
		writeError(w, err, models.ErrorResponse{})
		return
	}

	list, err := h.printer.PrintBatch(r.Context(), params.Labels, params.Copies)
	if err != nil {
		writeError(w, err, models.ErrorResponse{Jobs: list})
		return
	}
	writeJSON(w, http.StatusOK, models.JobsResponse{Jobs: list})
}

// printImage takes the image as the request body. Query parameters:
// copies, width (dots), mode (threshold|dither), invert.
func (h *handlers) printImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, copies, err := imageOptions(q.Get("width"), q.Get("mode"), q.Get("invert"), q.Get("copies"))
	if err != nil {
		writeError(w, err, models.ErrorResponse{})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBody))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", validation.ErrInvalidParams, err), models.ErrorResponse{})
		return
	}
	img, _, err := bitmap.Decode(bytes.NewReader(body))
	if err != nil {
		writeError(w, fmt.Errorf("%w: %w", validation.ErrInvalidParams, err), models.ErrorResponse{})
		return
	}

	job, err := h.printer.PrintImage(r.Context(), img, opts, copies)
	respondJob(w, job, err)
}

func imageOptions(width, mode, invert, copies string) (bitmap.Options, int, error) {
	var opts bitmap.Options
	var err error
	if opts.Mode, err = bitmap.ParseMode(mode); err != nil {
		return opts, 0, fmt.Errorf("%w: %w", validation.ErrInvalidParams, err)
	}
	if width != "" {
		if opts.WidthDots, err = strconv.Atoi(width); err != nil || opts.WidthDots < 1 || opts.WidthDots > 2400 {
			return opts, 0, fmt.Errorf("%w: width must be 1-2400 dots", validation.ErrInvalidParams)
		}
	}
	if invert != "" {
		if opts.Invert, err = strconv.ParseBool(invert); err != nil {
			return opts, 0, fmt.Errorf("%w: invert must be a boolean", validation.ErrInvalidParams)
		}
	}
	n := 1
	if copies != "" {
		if n, err = strconv.Atoi(copies); err != nil || n < 1 || n > models.MaxCopies {
			return opts, 0, fmt.Errorf("%w: copies must be 1-%d", validation.ErrInvalidParams, models.MaxCopies)
		}
	}
	return opts, n, nil
}

// respondJob reports a finished job. A failed job still carries its record
// so callers can see what was attempted.
func respondJob(w http.ResponseWriter, job jobs.Job, err error) {
	if err != nil {
		resp := models.ErrorResponse{}
		if job.ID != "" {
			resp.Job = &job
		}
		writeError(w, err, resp)
		return
	}
	writeJSON(w, http.StatusOK, models.JobResponse{Job: job})
}
