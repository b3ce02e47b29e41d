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

package printlog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/ZaparooProject/labelprint/pkg/database"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(ctx context.Context, db *sql.DB) error {
	version, err := database.MigrateUp(ctx, db, migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to run print log migrations: %w", err)
	}
	log.Debug().Int64("schema_version", version).Msg("print log schema ready")
	return nil
}

func sqlAddJob(ctx context.Context, db *sql.DB, job jobs.Job) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Jobs(
			ID, Time, Source, Dialect, Device, Bytes,
			Success, Simulated, Degraded, Error
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert job statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx,
		job.ID, job.Time.UnixMilli(), string(job.Source), job.Dialect, job.Device, job.Bytes,
		job.Success, job.Simulated, job.Degraded, job.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

func sqlRecentJobs(ctx context.Context, db *sql.DB, limit int) ([]jobs.Job, error) {
	rows, err := db.QueryContext(ctx, `
		select ID, Time, Source, Dialect, Device, Bytes,
			Success, Simulated, Degraded, Error
		from Jobs
		order by Time desc, DBID desc
		limit ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	list := make([]jobs.Job, 0, limit)
	for rows.Next() {
		var (
			job    jobs.Job
			millis int64
			source string
		)
		err := rows.Scan(
			&job.ID, &millis, &source, &job.Dialect, &job.Device, &job.Bytes,
			&job.Success, &job.Simulated, &job.Degraded, &job.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		job.Time = time.UnixMilli(millis)
		job.Source = jobs.Source(source)
		list = append(list, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return list, nil
}

func sqlCleanupJobs(ctx context.Context, db *sql.DB, now time.Time, retentionDays int) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays).UnixMilli()

	res, err := db.ExecContext(ctx, `delete from Jobs where Time < ?;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleaned up jobs: %w", err)
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Int("retention_days", retentionDays).Msg("cleaned up print history")
	}
	return n, nil
}
