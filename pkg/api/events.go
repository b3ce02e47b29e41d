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
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const eventsBuffer = 32

// streamEvents streams job notifications as server-sent events until the client
// goes away or the broker shuts down. The event name is the notification
// method and the data is the job JSON. A comma separated "method" query
// parameter limits the stream to those methods.
func (h *handlers) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	var methods []string
	if q := r.URL.Query().Get("method"); q != "" {
		for _, m := range strings.Split(q, ",") {
			if m = strings.TrimSpace(m); m != "" {
				methods = append(methods, m)
			}
		}
	}

	select {
	case <-h.events.Done():
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	default:
	}

	ch, id := h.events.Subscribe(eventsBuffer, methods...)
	defer h.events.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", n.Method, n.Params); err != nil {
				log.Debug().Err(err).Msg("event stream client gone")
				return
			}
			flusher.Flush()
		}
	}
}
