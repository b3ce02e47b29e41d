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

package jobs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobNotification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		job    Job
	}{
		{
			name:   "success",
			job:    Job{ID: "a", Source: SourceTemplate, Dialect: "tspl", Bytes: 120, Success: true},
			method: MethodPrintCompleted,
		},
		{
			name:   "failure",
			job:    Job{ID: "b", Source: SourceRaw, Error: "printer not connected"},
			method: MethodPrintFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.job.Time = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

			n, err := tt.job.Notification()
			require.NoError(t, err)
			assert.Equal(t, tt.method, n.Method)

			var got Job
			require.NoError(t, json.Unmarshal(n.Params, &got))
			assert.Equal(t, tt.job, got)
		})
	}
}
