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

// Package printlog keeps a SQLite history of print jobs.
package printlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/labelprint/pkg/database"
	"github.com/ZaparooProject/labelprint/pkg/jobs"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("print log is not connected")

// DefaultLimit is used by Recent when no positive limit is given.
const DefaultLimit = 50

type PrintLog struct {
	sql *sql.DB
}

// Open opens or creates the database at path and migrates it.
func Open(ctx context.Context, path string) (*PrintLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}
	sqlDB, err := sql.Open("sqlite3", path+database.SQLiteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return FromSQL(ctx, sqlDB)
}

// FromSQL wraps an existing connection and migrates it.
func FromSQL(ctx context.Context, sqlDB *sql.DB) (*PrintLog, error) {
	db := &PrintLog{sql: sqlDB}
	if err := sqlMigrateUp(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func (db *PrintLog) Add(ctx context.Context, job jobs.Job) error {
	if db == nil || db.sql == nil {
		return ErrNullSQL
	}
	return sqlAddJob(ctx, db.sql, job)
}

// Recent returns up to limit jobs, newest first.
func (db *PrintLog) Recent(ctx context.Context, limit int) ([]jobs.Job, error) {
	if db == nil || db.sql == nil {
		return nil, ErrNullSQL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return sqlRecentJobs(ctx, db.sql, limit)
}

// Cleanup deletes jobs older than retentionDays and returns how many were
// removed. A non-positive retention keeps everything.
func (db *PrintLog) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if db == nil || db.sql == nil {
		return 0, ErrNullSQL
	}
	if retentionDays <= 0 {
		return 0, nil
	}
	return sqlCleanupJobs(ctx, db.sql, time.Now(), retentionDays)
}

func (db *PrintLog) Close() error {
	if db == nil || db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
